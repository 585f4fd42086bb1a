package sinks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/pkg/config"
	"github.com/bizmate/automation/pkg/logger"
)

func TestPostMessage(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewWebhookChatSink(config.ChatConfig{
		WebhookURL:     server.URL,
		DefaultChannel: "general",
	}, logger.NewForTesting())

	err := sink.PostMessage(context.Background(), "support", "ticket escalated")
	require.NoError(t, err)
	assert.Equal(t, "support", received["channel"])
	assert.Equal(t, "ticket escalated", received["text"])
}

func TestPostMessageDefaultChannel(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	sink := NewWebhookChatSink(config.ChatConfig{
		WebhookURL:     server.URL,
		DefaultChannel: "general",
	}, logger.NewForTesting())

	require.NoError(t, sink.PostMessage(context.Background(), "", "hello"))
	assert.Equal(t, "general", received["channel"])
}

func TestPostMessageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewWebhookChatSink(config.ChatConfig{WebhookURL: server.URL}, logger.NewForTesting())

	err := sink.PostMessage(context.Background(), "ops", "hello")
	assert.ErrorContains(t, err, "status 502")
}

func TestPostMessageUnconfigured(t *testing.T) {
	sink := NewWebhookChatSink(config.ChatConfig{}, logger.NewForTesting())

	err := sink.PostMessage(context.Background(), "ops", "hello")
	assert.ErrorContains(t, err, "not configured")
}
