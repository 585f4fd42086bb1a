package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bizmate/automation/pkg/database"
	"github.com/bizmate/automation/pkg/logger"
)

// PostgresAuditSink records rule-driven audit trail entries.
type PostgresAuditSink struct {
	db     *database.PostgresDB
	logger *logger.Logger
}

// NewPostgresAuditSink creates an audit sink over the given database.
func NewPostgresAuditSink(db *database.PostgresDB, log *logger.Logger) *PostgresAuditSink {
	return &PostgresAuditSink{db: db, logger: log}
}

// RecordAuditEvent inserts one audit entry.
func (s *PostgresAuditSink) RecordAuditEvent(
	ctx context.Context,
	actorID, action, resource, resourceID string,
	details map[string]interface{},
	riskScore int,
) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, actor_id, action, resource, resource_id, details, risk_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		uuid.NewString(), actorID, action, resource, resourceID, detailsJSON, riskScore, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	s.logger.Debug("Audit event recorded",
		logger.String("actor_id", actorID),
		logger.String("action", action),
		logger.String("resource", resource),
	)
	return nil
}
