package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate_dashboard_backend/internal/events"
	"estate_dashboard_backend/internal/leads/domain"
	"estate_dashboard_backend/internal/leads/ports"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// AssigneeDirectory resolves the contact details reminders are addressed to.
type AssigneeDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (rbac.Principal, bool)
}

type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
	lead      time.Duration
	directory AssigneeDirectory
	now       func() time.Time
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     queue,
		lead:      cfg.GetFollowUpReminderLead(),
		now:       time.Now,
	}, nil
}

// SetDirectory enables recipient lookup for reminder payloads.
func (c *Client) SetDirectory(d AssigneeDirectory) {
	c.directory = d
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.inspector != nil {
		_ = c.inspector.Close()
	}
	return c.client.Close()
}

// ScheduleFollowUpReminder enqueues one reminder per follow-up, due lead
// before it. Follow-ups already due are skipped.
func (c *Client) ScheduleFollowUpReminder(ctx context.Context, followUp domain.FollowUp, lead domain.Lead) error {
	if c == nil || c.client == nil {
		return nil
	}

	runAt, ok := reminderRunAt(followUp.ScheduledAt, c.lead, c.now())
	if !ok {
		return nil
	}

	payload := FollowUpReminderPayload{
		FollowUpID:   followUp.ID.String(),
		LeadID:       lead.ID.String(),
		AssigneeID:   followUp.AssigneeID.String(),
		Title:        followUp.Title,
		Description:  followUp.Description,
		CustomerName: lead.CustomerName,
		ScheduledAt:  followUp.ScheduledAt,
	}
	if c.directory != nil {
		if p, found := c.directory.Lookup(ctx, followUp.AssigneeID); found {
			payload.AssigneeEmail = p.Email
			payload.AssigneeName = p.DisplayName
		}
	}

	task, err := NewFollowUpReminderTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.TaskID(reminderTaskID(followUp.ID)),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// CancelFollowUpReminder removes a pending reminder. Missing tasks are ignored.
func (c *Client) CancelFollowUpReminder(ctx context.Context, followUpID uuid.UUID) error {
	if c == nil || c.inspector == nil {
		return nil
	}
	err := c.inspector.DeleteTask(c.queue, reminderTaskID(followUpID))
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return err
}

// RegisterHandlers cancels reminders for follow-ups completed before they fire.
func (c *Client) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.FollowUpCompleted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.FollowUpCompleted)
		if !ok {
			return nil
		}
		return c.CancelFollowUpReminder(ctx, e.FollowUpID)
	}))
}

func reminderTaskID(followUpID uuid.UUID) string {
	return "followup-reminder:" + followUpID.String()
}

// reminderRunAt returns when a reminder for scheduledAt should fire. A
// reminder whose lead time has already passed fires immediately.
func reminderRunAt(scheduledAt time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	if !scheduledAt.After(now) {
		return time.Time{}, false
	}
	runAt := scheduledAt.Add(-lead)
	if runAt.Before(now) {
		runAt = now
	}
	return runAt, true
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ ports.ReminderScheduler = (*Client)(nil)
