package scheduler

import (
	"context"
	"fmt"

	"estate_dashboard_backend/internal/email"
	"estate_dashboard_backend/platform/config"
	"estate_dashboard_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := newWorker(sender, log)
	w.server = server
	return w, nil
}

func newWorker(sender email.Sender, log *logger.Logger) *Worker {
	if sender == nil {
		sender = email.NoopSender{}
	}
	if log == nil {
		log = logger.Nop()
	}
	w := &Worker{
		mux:    asynq.NewServeMux(),
		sender: sender,
		log:    log,
	}
	w.mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if payload.AssigneeEmail == "" {
		w.log.Info("follow-up reminder due",
			"followUpId", payload.FollowUpID,
			"leadId", payload.LeadID,
			"assigneeId", payload.AssigneeID,
			"scheduledAt", payload.ScheduledAt,
		)
		return nil
	}

	if err := w.sender.SendFollowUpReminder(ctx, email.FollowUpReminder{
		ToEmail:      payload.AssigneeEmail,
		ToName:       payload.AssigneeName,
		Title:        payload.Title,
		Description:  payload.Description,
		CustomerName: payload.CustomerName,
		ScheduledAt:  payload.ScheduledAt,
	}); err != nil {
		w.log.Warn("follow-up reminder delivery failed", "followUpId", payload.FollowUpID, "error", err)
		return err
	}
	return nil
}
