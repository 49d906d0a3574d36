package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/internal/config"
)

// SendInvitationEmail invites an address with no account yet to
// register and join the project.
func SendInvitationEmail(to, projectName, inviteLink string) error {
	subject := fmt.Sprintf("Invitation to join %s", projectName)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #0052CC;">You've been invited!</h2>
<p>You have been invited to join the project <strong>%s</strong> on Ticketflow.</p>
<p>Click the link below to create your account and join the team:</p>
<a href="%s" style="display: inline-block; background-color: #0052CC; color: white; padding: 10px 20px; text-decoration: none; border-radius: 4px; margin: 20px 0;">Join Project</a>
<p style="color: #666; font-size: 12px;">If you didn't expect this invitation, you can ignore this email.</p>
</div>`, projectName, inviteLink)

	return send(to, subject, body)
}

// SendAddedNotification tells an existing user they were added to a
// project.
func SendAddedNotification(to, projectName string) error {
	subject := fmt.Sprintf("Added to %s", projectName)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #0052CC;">You've been added to a project</h2>
<p>You are now a member of <strong>%s</strong> on Ticketflow. Log in to see it on your dashboard.</p>
</div>`, projectName)

	return send(to, subject, body)
}

// SendDueSoonReminder nudges an assignee about a ticket approaching its
// due date.
func SendDueSoonReminder(to, ticketTitle, projectName string, due time.Time) error {
	subject := fmt.Sprintf("Ticket due soon: %s", ticketTitle)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #0052CC;">Due date approaching</h2>
<p>The ticket <strong>%s</strong> in <strong>%s</strong> is due %s.</p>
</div>`, ticketTitle, projectName, due.Format("January 2, 2006 15:04 MST"))

	return send(to, subject, body)
}

func send(to, subject, htmlBody string) error {
	cfg := config.C

	if cfg.SMTPHost == "" {
		logrus.Infof("SMTP not configured, skipping email %q to %s", subject, to)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + cfg.EmailFrom,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, cfg.EmailFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
