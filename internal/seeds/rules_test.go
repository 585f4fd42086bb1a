package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmate/automation/internal/cli"
)

func TestDefaultRulesAreValid(t *testing.T) {
	for _, rule := range Default() {
		result := cli.ValidateRule(rule)
		assert.True(t, result.Valid, "rule %s: %v", rule.ID, result.Errors)
		assert.True(t, rule.IsActive, "seed rule %s should ship active", rule.ID)
	}
}

func TestDefaultRuleIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range Default() {
		require.False(t, seen[rule.ID], "duplicate rule id %s", rule.ID)
		seen[rule.ID] = true
	}
}

func TestDefaultReturnsFreshCopies(t *testing.T) {
	first := Default()
	first[0].Name = "mutated"
	first[0].Actions[0].Parameters["name"] = "mutated"

	second := Default()
	assert.NotEqual(t, "mutated", second[0].Name)
	assert.NotEqual(t, "mutated", second[0].Actions[0].Parameters["name"])
}
