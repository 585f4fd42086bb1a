package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bizmate/automation/pkg/logger"
)

// maxStoredNotifications caps the per-user notification list.
const maxStoredNotifications = 200

// RedisNotificationSink persists in-app notifications to a per-user Redis
// list and publishes each one on a pub/sub channel so connected UI sessions
// receive it live.
type RedisNotificationSink struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisNotificationSink creates a notification sink backed by Redis.
func NewRedisNotificationSink(client *redis.Client, log *logger.Logger) *RedisNotificationSink {
	return &RedisNotificationSink{client: client, logger: log}
}

type notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Notify stores the notification and pushes a live update.
func (s *RedisNotificationSink) Notify(ctx context.Context, userID, title, message, severity string) error {
	if userID == "" {
		return fmt.Errorf("notification requires a user id")
	}

	n := notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	listKey := fmt.Sprintf("notifications:%s", userID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, listKey, payload)
	pipe.LTrim(ctx, listKey, 0, maxStoredNotifications-1)
	pipe.Publish(ctx, fmt.Sprintf("notifications:live:%s", userID), payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to deliver notification to %s: %w", userID, err)
	}

	s.logger.Debug("Notification delivered",
		logger.String("user_id", userID),
		logger.String("severity", severity),
	)
	return nil
}
