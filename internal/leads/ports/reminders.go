package ports

import (
	"context"

	"estate_dashboard_backend/internal/leads/domain"
)

// ReminderScheduler queues a reminder ahead of a follow-up. Implementations
// must not block on delivery.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, followUp domain.FollowUp, lead domain.Lead) error
}
