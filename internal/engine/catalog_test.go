package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/internal/models"
)

func catalogRule(id string, priority int, active bool) *models.Rule {
	return &models.Rule{
		ID:       id,
		Name:     "rule " + id,
		Trigger:  models.TriggerClientCreated,
		Actions:  []models.Action{{Type: models.ActionSendNotification}},
		IsActive: active,
		Priority: priority,
	}
}

func TestCatalogSetAndGet(t *testing.T) {
	c := NewCatalog()
	c.Set(catalogRule("a", 1, true))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := NewCatalog()
	c.Set(catalogRule("a", 1, true))

	got, _ := c.Get("a")
	got.Name = "mutated"
	got.Actions[0].Type = models.ActionSendEmail

	again, _ := c.Get("a")
	assert.Equal(t, "rule a", again.Name)
	assert.Equal(t, models.ActionSendNotification, again.Actions[0].Type)
}

func TestCatalogSetReplacesInPlace(t *testing.T) {
	c := NewCatalog()
	c.Set(catalogRule("a", 1, true))
	c.Set(catalogRule("b", 1, true))

	replacement := catalogRule("a", 5, true)
	replacement.Name = "updated"
	c.Set(replacement)

	all := c.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "updated", all[0].Name)
	assert.Equal(t, "b", all[1].ID)
}

func TestCatalogGetActiveFiltersAndKeepsOrder(t *testing.T) {
	c := NewCatalog()
	c.Set(catalogRule("a", 1, true))
	c.Set(catalogRule("b", 1, false))
	c.Set(catalogRule("c", 1, true))

	active := c.GetActive()
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "c", active[1].ID)
}

func TestCatalogRemove(t *testing.T) {
	c := NewCatalog()
	c.Set(catalogRule("a", 1, true))

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Empty(t, c.GetAll())
}

func TestCatalogCounters(t *testing.T) {
	c := NewCatalog()
	c.Set(catalogRule("a", 1, true))
	c.Set(catalogRule("b", 1, false))

	now := time.Now()
	c.RecordSuccess("a", now)
	c.RecordSuccess("a", now)
	c.RecordFailure("b")
	c.RecordFailure("missing")

	total, active, executions, errors := c.Counts()
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, active)
	assert.Equal(t, int64(2), executions)
	assert.Equal(t, int64(1), errors)

	a, _ := c.Get("a")
	require.NotNil(t, a.LastExecuted)
	assert.WithinDuration(t, now, *a.LastExecuted, time.Second)
}
