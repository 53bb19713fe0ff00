package repository

import (
	"strings"
	"testing"
)

func TestListSnapshotsQueryFreezesOutboundCountAtBooking(t *testing.T) {
	query := strings.ToLower(listSnapshotsQuery)

	requiredFragments := []string{
		"coalesce(be.outbound_count, lp.outbound_count)",
		"left join booking_events be",
		"and lp.booked_at is not null",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected booking-frozen count fragment %q to be present", fragment)
		}
	}
}

func TestListSnapshotsQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listSnapshotsQuery)

	if !strings.Contains(query, "where lp.workspace_id = $1") {
		t.Fatal("snapshot query should scope to the workspace")
	}
	if !strings.Contains(query, "be.workspace_id = lp.workspace_id") {
		t.Fatal("booking join should match on workspace")
	}
}
