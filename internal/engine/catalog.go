package engine

import (
	"sync"
	"time"

	"github.com/bizmate/automation/internal/models"
)

// Catalog is the in-memory rule registry. It holds process-lifetime state
// only; there is no persistence behind it. All reads return deep copies so
// callers never observe counter updates mid-flight, and iteration order is
// insertion order so priority ties stay stable.
type Catalog struct {
	mu    sync.RWMutex
	rules map[string]*models.Rule
	order []string
}

// NewCatalog creates an empty rule catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		rules: make(map[string]*models.Rule),
	}
}

// Get returns a copy of the rule with the given id.
func (c *Catalog) Get(id string) (*models.Rule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rule, ok := c.rules[id]
	if !ok {
		return nil, false
	}
	return rule.Clone(), true
}

// GetAll returns copies of all rules in insertion order.
func (c *Catalog) GetAll() []*models.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.Rule, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.rules[id].Clone())
	}
	return out
}

// GetActive returns copies of all active rules in insertion order.
func (c *Catalog) GetActive() []*models.Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.Rule, 0, len(c.order))
	for _, id := range c.order {
		if c.rules[id].IsActive {
			out = append(out, c.rules[id].Clone())
		}
	}
	return out
}

// Set inserts or replaces a rule by id. Replacing preserves the insertion
// position of the existing entry.
func (c *Catalog) Set(rule *models.Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.rules[rule.ID]; !exists {
		c.order = append(c.order, rule.ID)
	}
	c.rules[rule.ID] = rule.Clone()
}

// Remove deletes a rule by id, reporting whether it existed.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.rules[id]; !exists {
		return false
	}
	delete(c.rules, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// RecordSuccess bumps the rule's execution counter and last-executed stamp.
func (c *Catalog) RecordSuccess(id string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rule, ok := c.rules[id]; ok {
		rule.ExecutionCount++
		ts := at
		rule.LastExecuted = &ts
	}
}

// RecordFailure bumps the rule's error counter.
func (c *Catalog) RecordFailure(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rule, ok := c.rules[id]; ok {
		rule.ErrorCount++
	}
}

// Counts returns rule totals and lifetime execution/error aggregates.
func (c *Catalog) Counts() (total, active int, executions, errors int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total = len(c.rules)
	for _, rule := range c.rules {
		if rule.IsActive {
			active++
		}
		executions += rule.ExecutionCount
		errors += rule.ErrorCount
	}
	return total, active, executions, errors
}
