// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package notify sends transactional email over SMTP. Delivery is
// best-effort: failures are logged, never surfaced to the request that
// triggered them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"manassa/internal/models"
)

// Config holds SMTP connection settings. An empty Host disables
// delivery entirely, which is the default for development.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// Mailer formats and sends platform notifications.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// CommentApproved tells a content author a new comment on their work
// is now visible.
func (m *Mailer) CommentApproved(ctx context.Context, content *models.Content, comment *models.Comment, authorEmail string) {
	if authorEmail == "" {
		return
	}
	subject := fmt.Sprintf("New comment on %s", content.Title)
	body := fmt.Sprintf("%s commented on %q:\r\n\r\n%s\r\n\r\nRead it at %s/%s/%s.\r\n",
		comment.AuthorName, content.Title, comment.Body, m.cfg.BaseURL, content.Kind, content.Slug)
	m.send(authorEmail, subject, body)
}

// RecordPublished tells the author a scheduled record went live.
func (m *Mailer) RecordPublished(ctx context.Context, content *models.Content, authorEmail string) {
	if authorEmail == "" {
		return
	}
	subject := fmt.Sprintf("Published: %s", content.Title)
	body := fmt.Sprintf("Your %s %q is now live at %s/%s/%s.\r\n",
		content.Kind, content.Title, m.cfg.BaseURL, content.Kind, content.Slug)
	m.send(authorEmail, subject, body)
}

func (m *Mailer) send(to, subject, body string) {
	if !m.Enabled() {
		slog.Debug("mail delivery disabled, dropping message", "to", to, "subject", subject)
		return
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		slog.Warn("failed to send mail", "to", to, "subject", subject, "error", err)
		return
	}
	slog.Debug("mail sent", "to", to, "subject", subject)
}
