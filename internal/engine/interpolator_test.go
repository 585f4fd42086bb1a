package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	interp := NewInterpolator()

	payload := map[string]interface{}{
		"title":      "BigDeal",
		"assignedTo": "u1",
		"value":      8000,
		"project": map[string]interface{}{
			"name": "Rollout",
		},
	}

	tests := []struct {
		name       string
		parameters map[string]interface{}
		expected   map[string]interface{}
	}{
		{
			name:       "simple substitution",
			parameters: map[string]interface{}{"name": "{{title}}"},
			expected:   map[string]interface{}{"name": "BigDeal"},
		},
		{
			name:       "nested path substitution",
			parameters: map[string]interface{}{"text": "Project {{project.name}} is due"},
			expected:   map[string]interface{}{"text": "Project Rollout is due"},
		},
		{
			name:       "multiple placeholders in one string",
			parameters: map[string]interface{}{"message": "{{title}} assigned to {{assignedTo}}"},
			expected:   map[string]interface{}{"message": "BigDeal assigned to u1"},
		},
		{
			name:       "whitespace inside braces",
			parameters: map[string]interface{}{"name": "{{ title }}"},
			expected:   map[string]interface{}{"name": "BigDeal"},
		},
		{
			name:       "unresolved placeholder left literal",
			parameters: map[string]interface{}{"tier": "{{client.tier}}"},
			expected:   map[string]interface{}{"tier": "{{client.tier}}"},
		},
		{
			name:       "non-numeric value stringified",
			parameters: map[string]interface{}{"amount": "worth {{value}}"},
			expected:   map[string]interface{}{"amount": "worth 8000"},
		},
		{
			name:       "non-string values pass through",
			parameters: map[string]interface{}{"retries": 3, "flag": true},
			expected:   map[string]interface{}{"retries": 3, "flag": true},
		},
		{
			name: "nested parameter maps are interpolated",
			parameters: map[string]interface{}{
				"data": map[string]interface{}{"task": "{{title}}"},
			},
			expected: map[string]interface{}{
				"data": map[string]interface{}{"task": "BigDeal"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interp.Interpolate(tt.parameters, payload)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInterpolateDoesNotMutateInput(t *testing.T) {
	interp := NewInterpolator()

	parameters := map[string]interface{}{"name": "{{title}}"}
	interp.Interpolate(parameters, map[string]interface{}{"title": "X"})

	assert.Equal(t, "{{title}}", parameters["name"])
}

func TestInterpolateNilParameters(t *testing.T) {
	interp := NewInterpolator()
	assert.Nil(t, interp.Interpolate(nil, map[string]interface{}{"a": 1}))
}
