package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *DedupeCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDedupeCache(client)
}

func TestDedupeCache_MarkSeen(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	seen, err := cache.MarkSeen(ctx, "evt-1")
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if seen {
		t.Fatal("first delivery reported as seen")
	}

	seen, err = cache.MarkSeen(ctx, "evt-1")
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if !seen {
		t.Fatal("redelivery not reported as seen")
	}

	seen, err = cache.MarkSeen(ctx, "evt-2")
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if seen {
		t.Fatal("distinct event reported as seen")
	}
}

func TestDedupeCache_Forget(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.MarkSeen(ctx, "evt-1"); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if err := cache.Forget(ctx, "evt-1"); err != nil {
		t.Fatalf("Forget: %v", err)
	}

	seen, err := cache.MarkSeen(ctx, "evt-1")
	if err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}
	if seen {
		t.Fatal("forgotten event still reported as seen")
	}
}
