package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectFollowUpReminderFmt = "Reminder: %s"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type followUpReminderEmailData struct {
	baseEmailData
	RecipientName string
	CustomerName  string
	Description   string
	ScheduledAt   string
}

func renderFollowUpReminder(r FollowUpReminder) (string, error) {
	return renderEmailTemplate("followup_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:      "Follow-up reminder",
			Heading:    r.Title,
			Subheading: "A follow-up on your pipeline is coming up.",
		},
		RecipientName: r.ToName,
		CustomerName:  r.CustomerName,
		Description:   r.Description,
		ScheduledAt:   r.ScheduledAt.UTC().Format("Mon 02 Jan 2006, 15:04 MST"),
	})
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
