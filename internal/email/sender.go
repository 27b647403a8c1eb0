// Package email delivers follow-up reminder messages.
package email

import (
	"context"
	"time"

	"estate_dashboard_backend/platform/config"
)

// FollowUpReminder is the content of one reminder message.
type FollowUpReminder struct {
	ToEmail      string
	ToName       string
	Title        string
	Description  string
	CustomerName string
	ScheduledAt  time.Time
}

type Sender interface {
	SendFollowUpReminder(ctx context.Context, reminder FollowUpReminder) error
}

// NoopSender drops every message. It is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendFollowUpReminder(ctx context.Context, reminder FollowUpReminder) error {
	return nil
}

// NewSender returns an SMTP sender when a host is configured and a NoopSender otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
