package mail

import (
	"context"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/config"
)

func TestBuildRawStripsHeaderInjection(t *testing.T) {
	cfg := SMTPConfig{From: "noreply@shashikala.art", FromName: "Shashikala"}
	raw := string(buildRaw(cfg, Message{
		To:      []string{"asha@example.com"},
		ReplyTo: "ravi@example.com\r\nBcc: everyone@example.com",
		Subject: "Thanks\nBcc: x@example.com",
		HTML:    "<p>line one\nline two</p>",
	}, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)))

	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	assert.Contains(t, head, "From: Shashikala <noreply@shashikala.art>\r\n")
	assert.Contains(t, head, "Subject: Thanks Bcc: x@example.com\r\n")
	assert.Contains(t, head, `Content-Type: text/html; charset="UTF-8"`)
	assert.NotContains(t, head, "\r\nBcc:")
	assert.Equal(t, "<p>line one\r\nline two</p>", body)
}

func TestBuildRawPlainText(t *testing.T) {
	raw := string(buildRaw(SMTPConfig{}, Message{To: []string{"a@b.co"}, Text: "hi"}, time.Now()))
	assert.Contains(t, raw, "Content-Type: text/plain")
}

func TestRender(t *testing.T) {
	tmpl := template.Must(template.New("receipt").Parse(`<p>Thank you, {{.Name}}</p>`))
	out, err := Render(tmpl, map[string]string{"Name": "<Asha>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Thank you, &lt;Asha&gt;</p>", out)
}

func TestFromConfigFallsBackToLog(t *testing.T) {
	config.Set("MAIL_HOST", "")
	m := FromConfig()
	require.IsType(t, LogMailer{}, m)

	assert.NoError(t, m.Send(context.Background(), Message{To: []string{"a@b.co"}, Subject: "x"}))
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipients)

	config.Set("MAIL_HOST", "smtp.example.com")
	t.Cleanup(func() { config.Set("MAIL_HOST", "") })
	assert.IsType(t, &SMTPMailer{}, FromConfig())
}
