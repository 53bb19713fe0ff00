// Package notification bridges domain events to operator email. It
// subscribes to escalation and booking events and hands them to the
// configured email sender.
package notification

import (
	"context"
	"fmt"

	"outreach_backend/internal/email"
	appevents "outreach_backend/internal/events"
	"outreach_backend/platform/events"
	"outreach_backend/platform/logger"

	"github.com/google/uuid"
)

// ProcessNameResolver looks up a booking process name for email copy.
type ProcessNameResolver interface {
	ProcessName(ctx context.Context, workspaceID, processID uuid.UUID) (string, error)
}

// Subscriber forwards escalation and booking events as operator emails.
type Subscriber struct {
	sender    email.Sender
	processes ProcessNameResolver
	recipient string
	log       *logger.Logger
}

// NewSubscriber creates a notification subscriber. An empty recipient
// disables delivery without unsubscribing.
func NewSubscriber(sender email.Sender, processes ProcessNameResolver, recipient string, log *logger.Logger) *Subscriber {
	return &Subscriber{sender: sender, processes: processes, recipient: recipient, log: log}
}

// Register subscribes the notification handlers on the bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(appevents.EventLeadEscalated, events.HandlerFunc(s.onLeadEscalated))
	bus.Subscribe(appevents.EventLeadBooked, events.HandlerFunc(s.onLeadBooked))
}

func (s *Subscriber) onLeadEscalated(ctx context.Context, event events.Event) error {
	evt, ok := event.(appevents.LeadEscalated)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventName())
	}
	if s.recipient == "" {
		return nil
	}

	processName := evt.BookingProcessID.String()
	if name, err := s.processes.ProcessName(ctx, evt.WorkspaceID, evt.BookingProcessID); err == nil {
		processName = name
	} else {
		s.log.Warn("process name lookup failed", "error", err)
	}

	if err := s.sender.SendEscalationEmail(ctx, s.recipient, evt.LeadID.String(), processName, evt.Wave); err != nil {
		s.log.Error("escalation email failed", "error", err, "lead_id", evt.LeadID.String())
		return err
	}
	return nil
}

func (s *Subscriber) onLeadBooked(ctx context.Context, event events.Event) error {
	evt, ok := event.(appevents.LeadBooked)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventName())
	}
	if s.recipient == "" {
		return nil
	}

	if err := s.sender.SendBookingEmail(ctx, s.recipient, evt.LeadID.String(), evt.OutboundCount); err != nil {
		s.log.Error("booking email failed", "error", err, "lead_id", evt.LeadID.String())
		return err
	}
	return nil
}
