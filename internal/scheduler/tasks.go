package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminder = "followups.reminder"

type FollowUpReminderPayload struct {
	FollowUpID    string    `json:"followUpId"`
	LeadID        string    `json:"leadId"`
	AssigneeID    string    `json:"assigneeId"`
	AssigneeEmail string    `json:"assigneeEmail,omitempty"`
	AssigneeName  string    `json:"assigneeName,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
	ScheduledAt   time.Time `json:"scheduledAt"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}
