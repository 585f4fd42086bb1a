package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bizmate/automation/pkg/config"
	"github.com/bizmate/automation/pkg/logger"
)

// WebhookChatSink posts messages to a chat webhook (Slack-compatible JSON).
type WebhookChatSink struct {
	cfg        config.ChatConfig
	logger     *logger.Logger
	httpClient *http.Client
}

// NewWebhookChatSink creates a chat sink posting to the configured webhook.
func NewWebhookChatSink(cfg config.ChatConfig, log *logger.Logger) *WebhookChatSink {
	return &WebhookChatSink{
		cfg:    cfg,
		logger: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PostMessage delivers text to the given channel, falling back to the
// configured default channel when none is set on the action.
func (s *WebhookChatSink) PostMessage(ctx context.Context, channel, text string) error {
	if s.cfg.WebhookURL == "" {
		return fmt.Errorf("chat webhook URL is not configured")
	}
	if channel == "" {
		channel = s.cfg.DefaultChannel
	}

	body, err := json.Marshal(map[string]string{
		"channel": channel,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}

	s.logger.Debug("Chat message posted", logger.String("channel", channel))
	return nil
}
