// mail реализует отправку писем по SMTP с TLS.
//
// Конфигурация передаётся явно при создании (config.SMTPConfig);
// пакет не читает переменные окружения.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pribylovaa/newsletter-service/internal/config"
)

// Sender отправляет одно письмо. Ретраев нет: отправка fire-and-forget,
// решение о повторе — на вызывающей стороне.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender — Sender поверх SMTP-соединения с TLS.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// New создаёт SMTPSender. Ошибка — если конфигурация неполная.
func New(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.Username == "" || cfg.Password == "" || cfg.From == "" {
		return nil, fmt.Errorf("mail: smtp config incomplete")
	}

	return &SMTPSender{cfg: cfg}, nil
}

// Send отправляет письмо. Тело — HTML, как и объявляет Sender.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	const op = "mail/Send"

	msg := buildMessage(s.cfg.From, to, subject, htmlBody)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("%s: dial: %w", op, err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("%s: client: %w", op, err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("%s: auth: %w", op, err)
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}

	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("%s: rcpt to: %w", op, err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}

	if _, err := wc.Write(msg); err != nil {
		return fmt.Errorf("%s: write: %w", op, err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: close: %w", op, err)
	}

	return c.Quit()
}

// buildMessage собирает RFC 5322-сообщение с HTML-телом.
func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	return []byte(b.String())
}
