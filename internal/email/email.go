package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/skyreserve/skyreserve/config"
)

// Sender delivers plain-text mail over SMTP. It is constructed once in the
// worker and injected; nothing holds a package-level transport.
type Sender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSender(cfg config.MailConfig) *Sender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Sender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (s *Sender) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}
