package email

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"
)

type smtpConfig struct {
	host string
}

func (c smtpConfig) GetSMTPHost() string         { return c.host }
func (c smtpConfig) GetSMTPPort() int            { return 587 }
func (c smtpConfig) GetSMTPUsername() string     { return "" }
func (c smtpConfig) GetSMTPPassword() string     { return "" }
func (c smtpConfig) GetEmailFromName() string    { return "Estate Dashboard" }
func (c smtpConfig) GetEmailFromAddress() string { return "no-reply@example.com" }
func (c smtpConfig) IsSMTPEnabled() bool         { return c.host != "" }

func TestNewSenderFallsBackToNoop(t *testing.T) {
	if _, ok := NewSender(smtpConfig{}).(NoopSender); !ok {
		t.Fatal("expected NoopSender without SMTP host")
	}
	if _, ok := NewSender(smtpConfig{host: "smtp.example.com"}).(*SMTPSender); !ok {
		t.Fatal("expected SMTPSender with SMTP host")
	}
	if err := (NoopSender{}).SendFollowUpReminder(context.Background(), FollowUpReminder{}); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}

func TestRenderFollowUpReminder(t *testing.T) {
	html, err := renderFollowUpReminder(FollowUpReminder{
		ToName:       "Alex Agent",
		Title:        "Site visit <call first>",
		CustomerName: "Priya Shah",
		Description:  "Bring the floor plans.",
		ScheduledAt:  time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Hi Alex Agent", "Priya Shah", "Bring the floor plans.", "Wed 04 Mar 2026, 10:30 UTC", "Site visit &lt;call first&gt;"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered reminder missing %q", want)
		}
	}
}

func TestBuildReminderMessage(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "no-reply@example.com", "Estate Dashboard")

	msg, err := s.buildReminder(FollowUpReminder{ToEmail: "agent@example.com", ToName: "Alex", Title: "Call back"})
	if err != nil {
		t.Fatalf("buildReminder: %v", err)
	}
	rcpts, err := msg.GetRecipients()
	if err != nil || len(rcpts) != 1 {
		t.Fatalf("recipients = %v, %v", rcpts, err)
	}
	addr, err := mail.ParseAddress(rcpts[0])
	if err != nil || addr.Address != "agent@example.com" {
		t.Fatalf("recipient = %q, %v", rcpts[0], err)
	}

	if _, err := s.buildReminder(FollowUpReminder{ToEmail: "not-an-address", Title: "x"}); err == nil {
		t.Fatal("expected invalid recipient to fail")
	}
}
