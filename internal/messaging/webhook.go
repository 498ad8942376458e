package messaging

import (
	"encoding/json"
	"fmt"
	"io"
)

// InboundMessage is one text message extracted from a webhook delivery.
type InboundMessage struct {
	ID   string
	From string
	Body string
}

// webhookPayload mirrors the Meta Cloud API webhook envelope, reduced to the
// fields the service reads.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook decodes a Cloud API webhook body and returns the text messages
// it carries. Status-only deliveries yield an empty slice, not an error.
func ParseWebhook(r io.Reader) ([]InboundMessage, error) {
	var payload webhookPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("messaging: decode webhook payload: %w", err)
	}

	var messages []InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.From == "" || msg.Text.Body == "" {
					continue
				}
				messages = append(messages, InboundMessage{
					ID:   msg.ID,
					From: msg.From,
					Body: msg.Text.Body,
				})
			}
		}
	}
	return messages, nil
}
