package notification

import (
	"context"
	"testing"

	appevents "outreach_backend/internal/events"
	"outreach_backend/platform/events"
	"outreach_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingSender struct {
	escalations int
	bookings    int
	lastProcess string
	lastWave    int
}

func (r *recordingSender) SendEscalationEmail(_ context.Context, _, _, processName string, wave int) error {
	r.escalations++
	r.lastProcess = processName
	r.lastWave = wave
	return nil
}

func (r *recordingSender) SendBookingEmail(_ context.Context, _, _ string, _ int) error {
	r.bookings++
	return nil
}

type staticResolver struct{ name string }

func (s staticResolver) ProcessName(context.Context, uuid.UUID, uuid.UUID) (string, error) {
	return s.name, nil
}

func TestSubscriber_SendsEscalationEmail(t *testing.T) {
	sender := &recordingSender{}
	sub := NewSubscriber(sender, staticResolver{name: "Cold outbound Q2"}, "ops@example.com", logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	sub.Register(bus)

	err := bus.PublishSync(context.Background(), appevents.LeadEscalated{
		BaseEvent:        events.NewBaseEvent(),
		WorkspaceID:      uuid.New(),
		LeadID:           uuid.New(),
		BookingProcessID: uuid.New(),
		Wave:             6,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if sender.escalations != 1 {
		t.Fatalf("escalations = %d, want 1", sender.escalations)
	}
	if sender.lastProcess != "Cold outbound Q2" || sender.lastWave != 6 {
		t.Fatalf("email sent with process %q wave %d", sender.lastProcess, sender.lastWave)
	}
}

func TestSubscriber_SendsBookingEmail(t *testing.T) {
	sender := &recordingSender{}
	sub := NewSubscriber(sender, staticResolver{name: "x"}, "ops@example.com", logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	sub.Register(bus)

	err := bus.PublishSync(context.Background(), appevents.LeadBooked{
		BaseEvent:        events.NewBaseEvent(),
		WorkspaceID:      uuid.New(),
		LeadID:           uuid.New(),
		BookingProcessID: uuid.New(),
		OutboundCount:    3,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if sender.bookings != 1 {
		t.Fatalf("bookings = %d, want 1", sender.bookings)
	}
}

func TestSubscriber_NoRecipientSkipsDelivery(t *testing.T) {
	sender := &recordingSender{}
	sub := NewSubscriber(sender, staticResolver{name: "x"}, "", logger.New("test"))

	bus := events.NewInMemoryBus(logger.New("test"))
	sub.Register(bus)

	err := bus.PublishSync(context.Background(), appevents.LeadEscalated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if sender.escalations != 0 {
		t.Fatal("email sent with no recipient configured")
	}
}
