package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTextPostsCloudAPIPayload(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]interface{}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.OUT"}]}`))
	}))
	defer server.Close()

	sender := NewWhatsAppSender("test-token", "106540352242922", server.URL, 5*time.Second, nil)

	err := sender.SendText(context.Background(), "+60123456789", "hello there")
	require.NoError(t, err)

	assert.Equal(t, "/106540352242922/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody["messaging_product"])
	assert.Equal(t, "+60123456789", gotBody["to"])
	assert.Equal(t, "text", gotBody["type"])
	text, ok := gotBody["text"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello there", text["body"])
}

func TestSendTextSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer server.Close()

	sender := NewWhatsAppSender("bad-token", "106540352242922", server.URL, 5*time.Second, nil)

	err := sender.SendText(context.Background(), "+60123456789", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSendTextValidation(t *testing.T) {
	sender := NewWhatsAppSender("token", "12345", "http://unused.invalid", time.Second, nil)

	assert.Error(t, sender.SendText(context.Background(), "", "hello"))
	assert.Error(t, sender.SendText(context.Background(), "+60123456789", "   "))

	missing := NewWhatsAppSender("", "", "http://unused.invalid", time.Second, nil)
	assert.Error(t, missing.SendText(context.Background(), "+60123456789", "hello"))
}
