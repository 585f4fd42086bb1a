package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/internal/models"
)

func TestValidateRule(t *testing.T) {
	valid := &models.Rule{
		ID:      "r1",
		Name:    "rule",
		Trigger: models.TriggerClientCreated,
		Conditions: []models.Condition{
			{Field: "status", Operator: models.OperatorEquals, Value: "new"},
		},
		Actions: []models.Action{
			{Type: models.ActionSendNotification},
		},
	}

	result := ValidateRule(valid)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateRuleErrors(t *testing.T) {
	rule := &models.Rule{
		Trigger: "order_shipped",
		Conditions: []models.Condition{
			{Operator: "matches"},
		},
		Actions: []models.Action{
			{Type: "launch_rocket", RetryCount: -1},
		},
	}

	result := ValidateRule(rule)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "id is required")
	assert.Contains(t, result.Errors, "name is required")
	assert.Contains(t, result.Errors, `unknown trigger "order_shipped"`)
	assert.Contains(t, result.Errors, "conditions[0]: field is required")
	assert.Contains(t, result.Errors, `conditions[0]: unknown operator "matches"`)
	assert.Contains(t, result.Errors, `actions[0]: unknown action type "launch_rocket"`)
	assert.Contains(t, result.Errors, "actions[0]: retry_count must not be negative")
}

func TestValidateRuleRequiresActions(t *testing.T) {
	rule := &models.Rule{ID: "r1", Name: "n", Trigger: models.TriggerClientCreated}
	result := ValidateRule(rule)
	assert.Contains(t, result.Errors, "at least one action is required")
}

func TestValidateRuleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rule.json")
	content := `{
		"id": "r1",
		"name": "rule",
		"trigger": "opportunity_won",
		"conditions": [{"field": "value", "operator": "greater_than", "value": 5000}],
		"actions": [{"type": "create_project", "parameters": {"name": "{{title}}"}}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, rule, err := ValidateRuleFile(path)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, models.TriggerOpportunityWon, rule.Trigger)
}

func TestValidateRuleFileBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rule.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := ValidateRuleFile(path)
	assert.ErrorContains(t, err, "failed to parse rule JSON")
}
