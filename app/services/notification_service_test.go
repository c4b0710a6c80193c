package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationServiceSendEmail(t *testing.T) {
	provider := NewMockEmailProvider().(*MockEmailProvider)
	svc := NewNotificationService(provider)

	msg := EmailMessage{
		FromEmail: "noreply@example.com",
		To:        "boss@example.com",
		Subject:   "Open Sales Orders of this month",
		Body:      "body",
		Attachments: []EmailAttachment{
			{Name: "a.csv", ContentType: "text/csv", Content: []byte("x")},
			{Name: "b.xls", ContentType: "application/vnd.ms-excel", Content: []byte("y")},
		},
	}

	require.NoError(t, svc.SendEmail(context.Background(), msg))

	sent := provider.GetSentEmails()
	require.Len(t, sent, 1)
	assert.Equal(t, "boss@example.com", sent[0].To)
	assert.Len(t, sent[0].Attachments, 2)

	provider.ClearSentEmails()
	assert.Empty(t, provider.GetSentEmails())
}

func TestNotificationServiceRejectsBadRecipient(t *testing.T) {
	provider := NewMockEmailProvider().(*MockEmailProvider)
	svc := NewNotificationService(provider)

	for _, to := range []string{"", "not-an-address"} {
		t.Run("to="+to, func(t *testing.T) {
			err := svc.SendEmail(context.Background(), EmailMessage{To: to})
			assert.Error(t, err)
		})
	}
	assert.Empty(t, provider.GetSentEmails())
}

func TestNotificationServiceProviderFailure(t *testing.T) {
	provider := NewMockEmailProvider().(*MockEmailProvider)
	boom := errors.New("relay down")
	provider.FailWith(boom)

	err := NewNotificationService(provider).SendEmail(context.Background(), EmailMessage{To: "a@b.c"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, provider.GetSentEmails())
}

func TestNotificationServiceWithoutProvider(t *testing.T) {
	err := NewNotificationService(nil).SendEmail(context.Background(), EmailMessage{To: "a@b.c"})
	assert.ErrorIs(t, err, ErrEmailProviderNotConfigured)
}
