package notify

import (
	"context"
	"fmt"

	"github.com/appointly/bookingbot/pkg/logging"
)

// Service sends booking-related notifications.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService builds a notification service. Returns nil when no email sender
// is configured so callers can treat notifications as absent.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if email == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// SendBookingConfirmation emails the customer a summary of the confirmed
// appointment. The chat reply already confirmed the booking; this is a
// courtesy copy, so the caller logs failures and moves on.
func (s *Service) SendBookingConfirmation(ctx context.Context, email, name, day, date, timeOfDay string) error {
	if s == nil {
		return nil
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment is confirmed for %s, %s at %s.\n\nReply to the chat with EXIT at any time to return to the main menu.\n",
		name, day, date, timeOfDay,
	)
	return s.email.Send(ctx, EmailMessage{
		To:      email,
		ToName:  name,
		Subject: "Your appointment is confirmed",
		Body:    body,
	})
}
