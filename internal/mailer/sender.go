package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/strataworks/cumulus/internal/db/models"
)

// SMTPSender delivers messages through an SMTP relay
type SMTPSender struct {
	addr string
}

var _ Sender = &SMTPSender{}

// NewSMTPSender creates a sender that relays through the given host:port
func NewSMTPSender(addr string) *SMTPSender {
	return &SMTPSender{addr: addr}
}

// Send delivers the message over SMTP
func (s *SMTPSender) Send(_ context.Context, message *models.EmailMessage) error {
	var payload strings.Builder
	fmt.Fprintf(&payload, "From: %s\r\n", message.SenderEmail)
	fmt.Fprintf(&payload, "To: %s\r\n", message.ToEmail)
	fmt.Fprintf(&payload, "Subject: %s\r\n", message.Subject)
	payload.WriteString("\r\n")
	payload.WriteString(message.Body)

	if err := smtp.SendMail(s.addr, nil, message.SenderEmail, []string{message.ToEmail}, []byte(payload.String())); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// MockSender is an in-memory Sender for tests. It records every message
// and can be configured to fail.
type MockSender struct {
	mu   sync.Mutex
	sent []models.EmailMessage
	err  error
}

var _ Sender = &MockSender{}

// NewMockSender creates a new mock sender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// SetErr configures the error returned from every send; nil clears it
func (m *MockSender) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Send records the message
func (m *MockSender) Send(_ context.Context, message *models.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, *message)
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MockSender) Sent() []models.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
