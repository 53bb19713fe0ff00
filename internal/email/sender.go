// Package email delivers operational notifications over SMTP.
package email

import "context"

// Sender delivers outreach notifications. Implementations must be safe for
// concurrent use.
type Sender interface {
	SendEscalationEmail(ctx context.Context, toEmail, leadID, processName string, wave int) error
	SendBookingEmail(ctx context.Context, toEmail, leadID string, outboundCount int) error
}

// NoopSender discards every notification. Used when SMTP is not configured
// so callers never need a nil check.
type NoopSender struct{}

func (NoopSender) SendEscalationEmail(context.Context, string, string, string, int) error {
	return nil
}

func (NoopSender) SendBookingEmail(context.Context, string, string, int) error {
	return nil
}
