package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

type Config struct {
	Host     string
	Port     string
	From     string
	Password string
}

func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// SMTP sends plain-text mail with PLAIN auth.
type SMTP struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg Config) *SMTP {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

func (s *SMTP) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Host)
	}
	if err := s.send(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.From, to, buildMessage(s.cfg.From, to, subject, body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	// header injection
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)

	var b strings.Builder
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
