package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bizmate/automation/internal/models"
)

// ValidationResult holds the outcome of validating a rule file.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

var knownOperators = map[models.Operator]bool{
	models.OperatorEquals:      true,
	models.OperatorNotEquals:   true,
	models.OperatorGreaterThan: true,
	models.OperatorLessThan:    true,
	models.OperatorContains:    true,
	models.OperatorIn:          true,
	models.OperatorNotIn:       true,
}

var knownActionTypes = map[models.ActionType]bool{
	models.ActionSendNotification:    true,
	models.ActionSendEmail:           true,
	models.ActionCreateTask:          true,
	models.ActionCreateProject:       true,
	models.ActionUpdateProjectStatus: true,
	models.ActionAssignUser:          true,
	models.ActionEscalateTicket:      true,
	models.ActionSendChatMessage:     true,
	models.ActionLogAuditEvent:       true,
	models.ActionUpdateClientStatus:  true,
}

// ValidateRuleFile parses and validates a rule definition file.
func ValidateRuleFile(filename string) (*ValidationResult, *models.Rule, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	var rule models.Rule
	if err := json.Unmarshal(data, &rule); err != nil {
		return nil, nil, fmt.Errorf("failed to parse rule JSON: %w", err)
	}

	result := ValidateRule(&rule)
	return result, &rule, nil
}

// ValidateRule checks a rule definition against the engine's closed
// enumerations and required fields.
func ValidateRule(rule *models.Rule) *ValidationResult {
	var errs []string

	if rule.ID == "" {
		errs = append(errs, "id is required")
	}
	if rule.Name == "" {
		errs = append(errs, "name is required")
	}
	if rule.Trigger == "" {
		errs = append(errs, "trigger is required")
	} else if !rule.Trigger.Valid() {
		errs = append(errs, fmt.Sprintf("unknown trigger %q", rule.Trigger))
	}

	for i, cond := range rule.Conditions {
		if cond.Field == "" {
			errs = append(errs, fmt.Sprintf("conditions[%d]: field is required", i))
		}
		if !knownOperators[cond.Operator] {
			errs = append(errs, fmt.Sprintf("conditions[%d]: unknown operator %q", i, cond.Operator))
		}
	}

	if len(rule.Actions) == 0 {
		errs = append(errs, "at least one action is required")
	}
	for i, action := range rule.Actions {
		if !knownActionTypes[action.Type] {
			errs = append(errs, fmt.Sprintf("actions[%d]: unknown action type %q", i, action.Type))
		}
		if action.RetryCount < 0 {
			errs = append(errs, fmt.Sprintf("actions[%d]: retry_count must not be negative", i))
		}
	}

	return &ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
