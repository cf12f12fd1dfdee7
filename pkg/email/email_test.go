package email

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEscapesContent(t *testing.T) {
	svc := NewEmailService(Config{})
	body, err := svc.Render(TemplateScoutReceived, map[string]string{
		"CompanyName": "Acme",
		"Message":     "<b>hi</b>",
		"URL":         "https://app.example/scouts",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Acme sent you a scout")
	assert.Contains(t, body, "&lt;b&gt;hi&lt;/b&gt;")

	_, err = svc.Render("unknown", nil)
	assert.Error(t, err)
}

func TestSend(t *testing.T) {
	t.Run("Should refuse when not configured", func(t *testing.T) {
		svc := NewEmailService(Config{})
		err := svc.Send(context.Background(), "a@example.com", "s", TemplateResumePDFLink, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("Should hand a MIME message to the relay", func(t *testing.T) {
		svc := NewEmailService(Config{Host: "smtp.example", Port: "587", FromEmail: "noreply@example.com"})
		var gotAddr string
		var gotMsg []byte
		svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr = addr
			gotMsg = msg
			assert.Equal(t, "noreply@example.com", from)
			assert.Equal(t, []string{"a@example.com"}, to)
			return nil
		}

		err := svc.Send(context.Background(), "a@example.com", "Your resume", TemplateResumePDFLink, map[string]string{
			"ResumeTitle": "Main",
			"URL":         "https://s3.example/r.pdf",
			"ExpiresIn":   "5m0s",
		})
		require.NoError(t, err)
		assert.Equal(t, "smtp.example:587", gotAddr)
		assert.Contains(t, string(gotMsg), "Subject: Your resume")
		assert.Contains(t, string(gotMsg), "https://s3.example/r.pdf")
	})
}
