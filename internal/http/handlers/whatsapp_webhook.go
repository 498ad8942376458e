package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/appointly/bookingbot/internal/messaging"
	"github.com/appointly/bookingbot/internal/observability/metrics"
	"github.com/appointly/bookingbot/pkg/logging"
)

var webhookTracer = otel.Tracer("bookingbot.internal.http.handlers.whatsapp")

// InboundBot advances one conversation per inbound message.
type InboundBot interface {
	HandleInboundMessage(ctx context.Context, from, text string) error
}

// MessageDeduper records message ids; a false return means this id was
// already handled.
type MessageDeduper interface {
	MarkProcessed(ctx context.Context, messageID string) (bool, error)
}

// WhatsAppWebhookHandler serves the Meta Cloud API verification handshake and
// inbound message deliveries.
type WhatsAppWebhookHandler struct {
	verifyToken string
	bot         InboundBot
	dedupe      MessageDeduper
	metrics     *metrics.BotMetrics
	logger      *logging.Logger
}

// NewWhatsAppWebhookHandler creates the webhook handler. dedupe and metrics
// are optional.
func NewWhatsAppWebhookHandler(verifyToken string, bot InboundBot, dedupe MessageDeduper, m *metrics.BotMetrics, logger *logging.Logger) *WhatsAppWebhookHandler {
	if bot == nil {
		panic("handlers: inbound bot required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WhatsAppWebhookHandler{
		verifyToken: verifyToken,
		bot:         bot,
		dedupe:      dedupe,
		metrics:     m,
		logger:      logger,
	}
}

// Verify handles GET /webhooks/whatsapp, the subscription handshake.
func (h *WhatsAppWebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	h.logger.Warn("webhook verification rejected", "mode", mode)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// Receive handles POST /webhooks/whatsapp. Every carried text message runs one
// engine step. Processing errors are logged and acknowledged with 200: Meta
// retries non-2xx deliveries, and a retry would re-run an already-committed
// transition.
func (h *WhatsAppWebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "whatsapp.webhook.receive")
	defer span.End()
	start := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency(time.Since(start).Seconds())
	}()

	inbound, err := messaging.ParseWebhook(r.Body)
	if err != nil {
		h.logger.Error("malformed webhook payload", "error", err)
		h.metrics.ObserveInbound("malformed")
		span.RecordError(err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "invalid payload"})
		return
	}
	if len(inbound) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "No messages to process"})
		return
	}

	for _, msg := range inbound {
		if h.dedupe != nil && msg.ID != "" {
			fresh, err := h.dedupe.MarkProcessed(ctx, msg.ID)
			if err != nil {
				// Fail open: a dedup outage must not drop real messages.
				h.logger.Error("message dedup failed", "error", err, "message_id", msg.ID)
			} else if !fresh {
				h.logger.Info("duplicate webhook delivery dropped", "message_id", msg.ID)
				h.metrics.ObserveInbound("duplicate")
				continue
			}
		}

		if err := h.bot.HandleInboundMessage(ctx, msg.From, msg.Body); err != nil {
			h.logger.Error("inbound message processing failed", "error", err, "message_id", msg.ID)
			h.metrics.ObserveInbound("error")
			span.RecordError(err)
			continue
		}
		h.metrics.ObserveInbound("processed")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
