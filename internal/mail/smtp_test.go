package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/newsletter-service/internal/config"
)

func fullCfg() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     "465",
		Username: "mailer",
		Password: "mailer-pass",
		From:     "noreply@example.com",
	}
}

func TestNew_OK(t *testing.T) {
	t.Parallel()

	s, err := New(fullCfg())
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestNew_IncompleteConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(c *config.SMTPConfig)
	}{
		{"no host", func(c *config.SMTPConfig) { c.Host = "" }},
		{"no port", func(c *config.SMTPConfig) { c.Port = "" }},
		{"no username", func(c *config.SMTPConfig) { c.Username = "" }},
		{"no password", func(c *config.SMTPConfig) { c.Password = "" }},
		{"no from", func(c *config.SMTPConfig) { c.From = "" }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := fullCfg()
			tc.mutate(&cfg)

			_, err := New(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), "smtp config incomplete")
		})
	}
}

func TestBuildMessage_Headers(t *testing.T) {
	t.Parallel()

	msg := string(buildMessage("noreply@example.com", "user@example.com", "Hello", "<h2>Welcome!</h2>"))

	require.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\n"))
	require.Contains(t, msg, "To: user@example.com\r\n")
	require.Contains(t, msg, "Subject: Hello\r\n")
	require.Contains(t, msg, "MIME-Version: 1.0\r\n")
	// Content-Type фиксированный: Sender всегда принимает HTML-тело.
	require.Contains(t, msg, "Content-Type: text/html; charset=\"utf-8\"\r\n")
	// Заголовки отделены от тела пустой строкой.
	require.Contains(t, msg, "\r\n\r\n<h2>Welcome!</h2>\r\n")
}
