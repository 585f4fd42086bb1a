package sinks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/pkg/database"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/testutil"
)

func setupRecordStore(t *testing.T) (*PostgresRecordStore, *testutil.TestDB) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	t.Cleanup(db.Teardown)
	testutil.RunMigrations(t, db, "../../migrations")

	log := logger.NewForTesting()
	store := NewPostgresRecordStore(database.NewForTesting(db.DB, log), log)
	return store, db
}

func insertClient(t *testing.T, db *testutil.TestDB, id, name, status string) {
	t.Helper()
	_, err := db.Pool.Exec(testutil.Context(t),
		`INSERT INTO clients (id, name, status) VALUES ($1, $2, $3)`, id, name, status)
	require.NoError(t, err)
}

func TestCreateTask(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	err := store.CreateTask(ctx, map[string]interface{}{
		"title":       "Prepare onboarding docs",
		"assigned_to": "u1",
		"priority":    "high",
		"due_date":    due.Format(time.RFC3339),
	})
	require.NoError(t, err)

	var title, assignedTo, priority, status string
	var dueDate time.Time
	row := db.Pool.QueryRow(ctx, `SELECT title, assigned_to, priority, status, due_date FROM tasks`)
	require.NoError(t, row.Scan(&title, &assignedTo, &priority, &status, &dueDate))
	assert.Equal(t, "Prepare onboarding docs", title)
	assert.Equal(t, "u1", assignedTo)
	assert.Equal(t, "high", priority)
	assert.Equal(t, "open", status)
	assert.True(t, due.Equal(dueDate.UTC()))
}

func TestCreateTaskDefaults(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)

	require.NoError(t, store.CreateTask(ctx, map[string]interface{}{}))

	var title, priority, status string
	var assignedTo, dueDate interface{}
	row := db.Pool.QueryRow(ctx, `SELECT title, assigned_to, priority, status, due_date FROM tasks`)
	require.NoError(t, row.Scan(&title, &assignedTo, &priority, &status, &dueDate))
	assert.Equal(t, "Untitled task", title)
	assert.Nil(t, assignedTo)
	assert.Equal(t, "medium", priority)
	assert.Equal(t, "open", status)
	assert.Nil(t, dueDate)
}

func TestCreateProject(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)
	insertClient(t, db, "c1", "Acme", "active")

	err := store.CreateProject(ctx, map[string]interface{}{
		"name":      "Website relaunch",
		"client_id": "c1",
		"status":    "active",
	})
	require.NoError(t, err)

	var name, clientID, status string
	row := db.Pool.QueryRow(ctx, `SELECT name, client_id, status FROM projects`)
	require.NoError(t, row.Scan(&name, &clientID, &status))
	assert.Equal(t, "Website relaunch", name)
	assert.Equal(t, "c1", clientID)
	assert.Equal(t, "active", status)
}

func TestUpdateProjectStatus(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)

	_, err := db.Pool.Exec(ctx, `INSERT INTO projects (id, name, status) VALUES ('p1', 'Relaunch', 'planning')`)
	require.NoError(t, err)

	require.NoError(t, store.UpdateProjectStatus(ctx, "p1", "active"))

	var status string
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT status FROM projects WHERE id = 'p1'`).Scan(&status))
	assert.Equal(t, "active", status)

	err = store.UpdateProjectStatus(ctx, "missing", "active")
	assert.ErrorContains(t, err, "project not found")
}

func TestEscalateTicket(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)

	_, err := db.Pool.Exec(ctx, `INSERT INTO tickets (id, subject, priority) VALUES ('t1', 'Login broken', 'normal')`)
	require.NoError(t, err)

	require.NoError(t, store.EscalateTicket(ctx, "t1"))

	var escalated bool
	var priority string
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT escalated, priority FROM tickets WHERE id = 't1'`).Scan(&escalated, &priority))
	assert.True(t, escalated)
	assert.Equal(t, "urgent", priority)

	err = store.EscalateTicket(ctx, "missing")
	assert.ErrorContains(t, err, "ticket not found")
}

func TestUpdateClientStatus(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)
	insertClient(t, db, "c1", "Acme", "lead")

	require.NoError(t, store.UpdateClientStatus(ctx, "c1", "active"))

	var status string
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT status FROM clients WHERE id = 'c1'`).Scan(&status))
	assert.Equal(t, "active", status)

	err := store.UpdateClientStatus(ctx, "missing", "active")
	assert.ErrorContains(t, err, "client not found")
}

func TestOverdueTasksFireOnce(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO tasks (id, title, assigned_to, priority, status, due_date) VALUES
		('t1', 'Late task', 'u1', 'high', 'open', NOW() - INTERVAL '2 days'),
		('t2', 'Future task', 'u2', 'low', 'open', NOW() + INTERVAL '2 days'),
		('t3', 'Finished late task', 'u3', 'low', 'done', NOW() - INTERVAL '2 days')`)
	require.NoError(t, err)

	payloads, err := store.OverdueTasks(ctx)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "t1", payloads[0]["taskId"])
	assert.Equal(t, "Late task", payloads[0]["title"])
	assert.Equal(t, "u1", payloads[0]["assignedTo"])
	assert.Equal(t, "high", payloads[0]["priority"])
	assert.NotEmpty(t, payloads[0]["dueDate"])

	// Swept tasks stay swept.
	payloads, err = store.OverdueTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestProjectsDueWithinFireOnce(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)
	insertClient(t, db, "c1", "Acme", "active")

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO projects (id, name, client_id, status, deadline) VALUES
		('p1', 'Soon', 'c1', 'active', NOW() + INTERVAL '1 day'),
		('p2', 'Far off', 'c1', 'active', NOW() + INTERVAL '30 days'),
		('p3', 'Done', 'c1', 'completed', NOW() + INTERVAL '1 day')`)
	require.NoError(t, err)

	payloads, err := store.ProjectsDueWithin(ctx, 72*time.Hour)
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	project, ok := payloads[0]["project"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "p1", project["id"])
	assert.Equal(t, "Soon", project["name"])
	assert.Equal(t, "c1", project["clientId"])
	assert.NotEmpty(t, project["deadline"])

	payloads, err = store.ProjectsDueWithin(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestOverdueInvoicesFireOnce(t *testing.T) {
	store, db := setupRecordStore(t)
	ctx := testutil.Context(t)
	insertClient(t, db, "c1", "Acme", "active")

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO invoices (id, invoice_number, client_id, amount, status, due_date) VALUES
		('i1', 'INV-001', 'c1', 1250.50, 'unpaid', NOW() - INTERVAL '10 days'),
		('i2', 'INV-002', 'c1', 900.00, 'paid', NOW() - INTERVAL '10 days'),
		('i3', 'INV-003', 'c1', 300.00, 'unpaid', NOW() + INTERVAL '10 days')`)
	require.NoError(t, err)

	payloads, err := store.OverdueInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "i1", payloads[0]["invoiceId"])
	assert.Equal(t, "INV-001", payloads[0]["invoiceNumber"])
	assert.Equal(t, "c1", payloads[0]["clientId"])
	assert.Equal(t, 1250.50, payloads[0]["amount"])

	payloads, err = store.OverdueInvoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}
