package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailSender struct {
	sent []EmailMessage
	fail error
}

func (s *recordingEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestSendBookingConfirmation(t *testing.T) {
	sender := &recordingEmailSender{}
	svc := NewService(sender, nil)

	err := svc.SendBookingConfirmation(context.Background(), "ada@x.com", "Ada", "Tuesday", "2025-03-11", "9:00 AM")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "ada@x.com", msg.To)
	assert.Equal(t, "Ada", msg.ToName)
	assert.Equal(t, "Your appointment is confirmed", msg.Subject)
	assert.Contains(t, msg.Body, "Tuesday, 2025-03-11 at 9:00 AM")
}

func TestSendBookingConfirmationPropagatesError(t *testing.T) {
	svc := NewService(&recordingEmailSender{fail: errors.New("quota exceeded")}, nil)

	err := svc.SendBookingConfirmation(context.Background(), "ada@x.com", "Ada", "Tuesday", "2025-03-11", "9:00 AM")
	assert.Error(t, err)
}

func TestNewServiceWithoutSenderIsNil(t *testing.T) {
	svc := NewService(nil, nil)
	require.Nil(t, svc)

	// A nil service is a no-op, not a panic.
	assert.NoError(t, svc.SendBookingConfirmation(context.Background(), "ada@x.com", "Ada", "Tuesday", "2025-03-11", "9:00 AM"))
}

func TestNewSendGridSenderRequiresAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nil))
	assert.NotNil(t, NewSendGridSender(SendGridConfig{APIKey: "SG.test", FromEmail: "noreply@appointly.dev"}, nil))
}

func TestNewServiceWithUnconfiguredSendGrid(t *testing.T) {
	// Without an API key the sender must come back as an untyped nil, so the
	// service is absent and bookings skip email instead of failing every send.
	sender := NewSendGridSender(SendGridConfig{}, nil)

	svc := NewService(sender, nil)

	assert.Nil(t, svc)
	assert.NoError(t, svc.SendBookingConfirmation(context.Background(), "ada@x.com", "Ada", "Tuesday", "2025-03-11", "9:00 AM"))
}
