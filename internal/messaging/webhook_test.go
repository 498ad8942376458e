package messaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWebhookPayload = `{
  "object": "whatsapp_business_account",
  "entry": [
    {
      "id": "102290129340398",
      "changes": [
        {
          "field": "messages",
          "value": {
            "messaging_product": "whatsapp",
            "metadata": {"display_phone_number": "15550000000", "phone_number_id": "106540352242922"},
            "contacts": [{"profile": {"name": "Ada"}, "wa_id": "60123456789"}],
            "messages": [
              {
                "id": "wamid.HBgLNjAxMjM0NTY3ODkVAgARGBJGOTlCRTg5RjAzRjQ3Mjc5RTUA",
                "from": "60123456789",
                "timestamp": "1741600000",
                "type": "text",
                "text": {"body": "hello"}
              }
            ]
          }
        }
      ]
    }
  ]
}`

func TestParseWebhookTextMessage(t *testing.T) {
	messages, err := ParseWebhook(strings.NewReader(sampleWebhookPayload))
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.Equal(t, "wamid.HBgLNjAxMjM0NTY3ODkVAgARGBJGOTlCRTg5RjAzRjQ3Mjc5RTUA", messages[0].ID)
	assert.Equal(t, "60123456789", messages[0].From)
	assert.Equal(t, "hello", messages[0].Body)
}

func TestParseWebhookStatusOnlyDelivery(t *testing.T) {
	payload := `{
  "entry": [
    {
      "changes": [
        {
          "field": "messages",
          "value": {
            "statuses": [{"id": "wamid.X", "status": "delivered"}]
          }
        }
      ]
    }
  ]
}`
	messages, err := ParseWebhook(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestParseWebhookSkipsNonTextMessages(t *testing.T) {
	payload := `{
  "entry": [
    {
      "changes": [
        {
          "value": {
            "messages": [
              {"id": "wamid.A", "from": "60123456789", "type": "image"},
              {"id": "wamid.B", "from": "60123456789", "type": "text", "text": {"body": "second"}}
            ]
          }
        }
      ]
    }
  ]
}`
	messages, err := ParseWebhook(strings.NewReader(payload))
	require.NoError(t, err)

	require.Len(t, messages, 1)
	assert.Equal(t, "wamid.B", messages[0].ID)
	assert.Equal(t, "second", messages[0].Body)
}

func TestParseWebhookMalformedBody(t *testing.T) {
	_, err := ParseWebhook(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestParseWebhookEmptyEnvelope(t *testing.T) {
	messages, err := ParseWebhook(strings.NewReader(`{"object": "whatsapp_business_account", "entry": []}`))
	require.NoError(t, err)
	assert.Empty(t, messages)
}
