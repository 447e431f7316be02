// Package mailer provides outbound email delivery with simple template
// rendering. It defines the EmailSender interface, an SMTP implementation,
// a log-only implementation for development, and a recording implementation
// for tests.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by DisabledSender for every send attempt.
var ErrNotConfigured = errors.New("mail delivery not configured")

// Email is an outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers email.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// Render substitutes {{name}} placeholders in a template with values.
// Unknown placeholders are left intact.
func Render(template string, values map[string]string) string {
	out := template
	for k, v := range values {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	addr string
	from string
}

// NewSMTPSender creates a sender using the given relay address (host:port)
// and From address.
func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{addr: addr, from: from}
}

func (s *SMTPSender) Send(_ context.Context, email Email) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.from, email.To, email.Subject, email.Body)
	if err := smtp.SendMail(s.addr, nil, s.from, []string{email.To}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", email.To, err)
	}
	return nil
}

// LogSender writes emails to the log instead of delivering them. Used in
// development when no SMTP relay is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, email Email) error {
	s.logger.Info().
		Str("to", email.To).
		Str("subject", email.Subject).
		Msg("email suppressed (no SMTP relay configured)")
	return nil
}

// DisabledSender fails every send with ErrNotConfigured. Used outside
// development when no SMTP relay is configured, so features that depend on
// delivery surface an error instead of silently succeeding.
type DisabledSender struct{}

func NewDisabledSender() *DisabledSender {
	return &DisabledSender{}
}

func (*DisabledSender) Send(_ context.Context, email Email) error {
	return fmt.Errorf("sending mail to %s: %w", email.To, ErrNotConfigured)
}

// RecordingSender captures sent emails for test assertions.
type RecordingSender struct {
	mu   sync.Mutex
	sent []Email
	fail error
}

func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

// FailWith makes every subsequent Send return err.
func (s *RecordingSender) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *RecordingSender) Send(_ context.Context, email Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, email)
	return nil
}

// Sent returns a copy of all captured emails.
func (s *RecordingSender) Sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Email, len(s.sent))
	copy(out, s.sent)
	return out
}
