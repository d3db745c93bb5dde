package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/mzdehbashi-github/ableton-challenge/config"
)

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	if cfg.SMTPHost == "" {
		return nil, errors.New("SMTP_HOST is required")
	}

	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}, nil
}

func (s *SMTPSender) Send(_ context.Context, msg *Message) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	// Unauthenticated sends are allowed so that local relays (e.g. mailhog)
	// work without credentials.
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func buildMessage(msg *Message) []byte {
	return []byte("From: " + msg.From + "\r\n" +
		"To: " + msg.To + "\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		msg.Body + "\r\n")
}
