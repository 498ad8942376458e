package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/appointly/bookingbot/pkg/logging"
)

var whatsappTracer = otel.Tracer("bookingbot.internal.messaging.whatsapp")

// Messenger sends a single outbound text to a phone number.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// WhatsAppSender posts text messages through the Meta Cloud API.
type WhatsAppSender struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	logger        *logging.Logger
}

// NewWhatsAppSender builds a sender for the Cloud API messages endpoint.
func NewWhatsAppSender(token, phoneNumberID, baseURL string, timeout time.Duration, logger *logging.Logger) *WhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v17.0"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppSender{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

var _ Messenger = (*WhatsAppSender)(nil)

// SendText dispatches one text message. It performs a single attempt; the
// caller's state transition is already committed, so failures are surfaced
// but never retried here.
func (s *WhatsAppSender) SendText(ctx context.Context, to, body string) error {
	if s.token == "" || s.phoneNumberID == "" {
		return errors.New("messaging: whatsapp credentials missing")
	}
	if to == "" {
		return errors.New("messaging: to required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("messaging: body required")
	}

	ctx, span := whatsappTracer.Start(ctx, "messaging.whatsapp.send")
	defer span.End()
	span.SetAttributes(attribute.String("bookingbot.to", to))

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"body": body,
		},
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("messaging: marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("messaging: build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("whatsapp send failed", "error", err, "to", to)
		return fmt.Errorf("messaging: whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorBody map[string]interface{}
		if len(respBody) > 0 && json.Unmarshal(respBody, &errorBody) == nil {
			err = fmt.Errorf("messaging: whatsapp send failed: status %d, body: %v", resp.StatusCode, errorBody)
		} else {
			err = fmt.Errorf("messaging: whatsapp send failed: status %d", resp.StatusCode)
		}
		span.RecordError(err)
		s.logger.Error("whatsapp send rejected", "error", err, "to", to)
		return err
	}

	s.logger.Info("whatsapp message sent", "to", to)
	return nil
}
