package sinks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/pkg/database"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/testutil"
)

func setupAuditSink(t *testing.T) (*PostgresAuditSink, *testutil.TestDB) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	t.Cleanup(db.Teardown)
	testutil.RunMigrations(t, db, "../../migrations")

	log := logger.NewForTesting()
	sink := NewPostgresAuditSink(database.NewForTesting(db.DB, log), log)
	return sink, db
}

func TestRecordAuditEvent(t *testing.T) {
	sink, db := setupAuditSink(t)
	ctx := testutil.Context(t)

	err := sink.RecordAuditEvent(ctx, "system:rule:client-onboarding", "client_created", "client", "c1",
		map[string]interface{}{"source": "crm", "plan": "pro"}, 20)
	require.NoError(t, err)

	var actorID, action, resource, resourceID string
	var detailsRaw []byte
	var riskScore int
	row := db.Pool.QueryRow(ctx,
		`SELECT actor_id, action, resource, resource_id, details, risk_score FROM audit_events`)
	require.NoError(t, row.Scan(&actorID, &action, &resource, &resourceID, &detailsRaw, &riskScore))

	assert.Equal(t, "system:rule:client-onboarding", actorID)
	assert.Equal(t, "client_created", action)
	assert.Equal(t, "client", resource)
	assert.Equal(t, "c1", resourceID)
	assert.Equal(t, 20, riskScore)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(detailsRaw, &details))
	assert.Equal(t, "crm", details["source"])
	assert.Equal(t, "pro", details["plan"])
}

func TestRecordAuditEventNilDetails(t *testing.T) {
	sink, db := setupAuditSink(t)
	ctx := testutil.Context(t)

	require.NoError(t, sink.RecordAuditEvent(ctx, "api:u1", "rule_deleted", "rule", "r1", nil, 0))

	var detailsRaw []byte
	row := db.Pool.QueryRow(ctx, `SELECT details FROM audit_events`)
	require.NoError(t, row.Scan(&detailsRaw))
	assert.JSONEq(t, "null", string(detailsRaw))
}
