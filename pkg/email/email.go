package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
)

// Template names understood by Render.
const (
	TemplateScoutReceived = "scout_received"
	TemplateResumePDFLink = "resume_pdf_link"
)

var ErrNotConfigured = errors.New("email: SMTP not configured")

type Config struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
}

// EmailService sends HTML mail through an SMTP relay.
type EmailService struct {
	cfg       Config
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg Config) *EmailService {
	return &EmailService{
		cfg:       cfg,
		templates: template.Must(template.New("mail").Parse(mailTemplates)),
		send:      smtp.SendMail,
	}
}

const mailTemplates = `
{{define "layout_head"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body><div class="container">{{end}}
{{define "layout_foot"}}<div class="footer"><p>This message was sent automatically. Please do not reply.</p></div></div></body></html>{{end}}

{{define "scout_received"}}{{template "layout_head"}}
<div class="header"><h1>You have a new scout</h1></div>
<div class="content">
    <p>{{.CompanyName}} sent you a scout{{if .JobTitle}} for "{{.JobTitle}}"{{end}}.</p>
    <div class="message-box">{{.Message}}</div>
    <p><a href="{{.URL}}">Open your scout inbox</a></p>
</div>
{{template "layout_foot"}}{{end}}

{{define "resume_pdf_link"}}{{template "layout_head"}}
<div class="header"><h1>Your resume PDF</h1></div>
<div class="content">
    <p>The PDF of "{{.ResumeTitle}}" is ready.</p>
    <p><a href="{{.URL}}">Download</a> (the link expires in {{.ExpiresIn}}).</p>
</div>
{{template "layout_foot"}}{{end}}
`

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.FromEmail != ""
}

// Render executes a named template with data.
func (s *EmailService) Render(name string, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute email template %q: %w", name, err)
	}
	return body.String(), nil
}

// Send renders the template and hands the message to the relay.
func (s *EmailService) Send(ctx context.Context, to, subject, templateName string, data map[string]string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.Render(templateName, data)
	if err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.cfg.FromEmail, to, subject, body,
	))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
