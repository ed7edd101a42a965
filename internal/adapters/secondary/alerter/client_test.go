package alerter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAlert(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken-1/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	thread := int64(7)
	c := NewClient(&Config{BotToken: "token-1", ChatID: -100, MessageThreadID: &thread, APIBaseURL: srv.URL}, logger.NewNop())
	require.NotNil(t, c)

	require.NoError(t, c.SendAlert(context.Background(), "job failed"))
	assert.Equal(t, int64(-100), got.ChatID)
	assert.Equal(t, "job failed", got.Text)
	require.NotNil(t, got.MessageThreadID)
	assert.Equal(t, int64(7), *got.MessageThreadID)
}

func TestSendAlertAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c := NewClient(&Config{BotToken: "t", ChatID: 1, APIBaseURL: srv.URL}, logger.NewNop())
	err := c.SendAlert(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestDisabled(t *testing.T) {
	assert.Nil(t, NewClient(&Config{}, logger.NewNop()))
	assert.Nil(t, NewClient(nil, logger.NewNop()))

	var c *Client
	assert.Error(t, c.SendAlert(context.Background(), "x"))
}
