// Package services provides external service integrations and technical concerns like notifications, tokens and file storage
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/open-so-review/config"
	"gopkg.in/gomail.v2"
)

var ErrEmailProviderNotConfigured = errors.New("email provider not configured")

// EmailAttachment is a file attached to an outgoing email
type EmailAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// EmailMessage is one outgoing email
type EmailMessage struct {
	FromEmail   string
	FromName    string
	To          string
	ToName      string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

// NotificationService handles sending notifications by email
type NotificationService interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
	}
}

// SendEmail validates the recipient and hands the message to the provider
func (s *NotificationServiceImpl) SendEmail(ctx context.Context, msg EmailMessage) error {
	if s.emailProvider == nil {
		return ErrEmailProviderNotConfigured
	}

	if msg.To == "" || !strings.Contains(msg.To, "@") {
		return fmt.Errorf("invalid email address: %q", msg.To)
	}

	return s.emailProvider.SendEmail(ctx, msg)
}

// MockEmailProvider logs and records every message instead of sending it
type MockEmailProvider struct {
	mu     sync.Mutex
	sent   []EmailMessage
	failOn error
}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(ctx context.Context, msg EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failOn != nil {
		return p.failOn
	}

	log.Printf("Email sent to %s [%s] with %d attachment(s)", msg.To, msg.Subject, len(msg.Attachments))
	p.sent = append(p.sent, msg)
	return nil
}

// GetSentEmails returns a copy of the recorded messages
func (p *MockEmailProvider) GetSentEmails() []EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EmailMessage, len(p.sent))
	copy(out, p.sent)
	return out
}

// ClearSentEmails forgets recorded messages
func (p *MockEmailProvider) ClearSentEmails() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = nil
}

// FailWith makes every following send return err; nil restores normal behavior
func (p *MockEmailProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOn = err
}

// SMTPEmailProvider sends mail through an SMTP relay
type SMTPEmailProvider struct {
	dialer        *gomail.Dialer
	retryAttempts int
	retryDelay    time.Duration
}

func NewSMTPEmailProvider(cfg config.EmailConfig) EmailProvider {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseTLS

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	return &SMTPEmailProvider{
		dialer:        dialer,
		retryAttempts: attempts,
		retryDelay:    2 * time.Second,
	}
}

func (p *SMTPEmailProvider) SendEmail(ctx context.Context, msg EmailMessage) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.FromEmail, msg.FromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	for _, att := range msg.Attachments {
		content := att.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if att.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}))
		}
		m.Attach(att.Name, settings...)
	}

	var lastErr error
	for attempt := 1; attempt <= p.retryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = p.dialer.DialAndSend(m); lastErr == nil {
			log.Printf("Email sent via SMTP to %s [%s]", msg.To, msg.Subject)
			return nil
		}
		log.Printf("SMTP send attempt %d/%d to %s failed: %v", attempt, p.retryAttempts, msg.To, lastErr)
		if attempt < p.retryAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}
	}

	return fmt.Errorf("failed to send email to %s: %w", msg.To, lastErr)
}
