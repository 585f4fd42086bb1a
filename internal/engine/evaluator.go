package engine

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bizmate/automation/internal/models"
)

// Evaluator decides whether a rule's conditions match an event payload. It is
// pure and fail-closed: an unknown operator or an unusable operand rejects the
// condition rather than erroring out.
type Evaluator struct{}

// NewEvaluator creates a new condition evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate reports whether every condition passes against the payload. An
// empty condition list matches unconditionally; conditions are ANDed.
func (e *Evaluator) Evaluate(conditions []models.Condition, payload map[string]interface{}) bool {
	for _, condition := range conditions {
		if !e.evaluateOne(condition, payload) {
			return false
		}
	}
	return true
}

func (e *Evaluator) evaluateOne(condition models.Condition, payload map[string]interface{}) bool {
	fieldValue, present := LookupPath(condition.Field, payload)

	switch condition.Operator {
	case models.OperatorEquals:
		return present && strictEquals(fieldValue, condition.Value)

	case models.OperatorNotEquals:
		return !present || !strictEquals(fieldValue, condition.Value)

	case models.OperatorGreaterThan:
		a, aOK := toNumber(fieldValue)
		b, bOK := toNumber(condition.Value)
		return present && aOK && bOK && a > b

	case models.OperatorLessThan:
		a, aOK := toNumber(fieldValue)
		b, bOK := toNumber(condition.Value)
		return present && aOK && bOK && a < b

	case models.OperatorContains:
		if !present {
			return false
		}
		haystack := strings.ToLower(stringify(fieldValue))
		needle := strings.ToLower(stringify(condition.Value))
		return strings.Contains(haystack, needle)

	case models.OperatorIn:
		return present && listContains(condition.Value, fieldValue)

	case models.OperatorNotIn:
		return !present || !listContains(condition.Value, fieldValue)

	default:
		return false
	}
}

// LookupPath resolves a dotted path ("project.name") against nested maps.
// A missing or non-map intermediate yields (nil, false), never an error.
func LookupPath(path string, data map[string]interface{}) (interface{}, bool) {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		val, exists := current[part]
		if !exists {
			return nil, false
		}

		if i == len(parts)-1 {
			return val, true
		}

		next, ok := val.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current = next
	}

	return nil, false
}

// strictEquals compares without cross-type string coercion, so 5 equals 5.0
// but not "5". Numeric operands of differing Go types still compare equal.
func strictEquals(a, b interface{}) bool {
	aNum, aOK := numericValue(a)
	bNum, bOK := numericValue(b)
	if aOK && bOK {
		return aNum == bNum
	}
	if aOK != bOK {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// looseEquals compares by string form, used for list membership.
func looseEquals(a, b interface{}) bool {
	return stringify(a) == stringify(b)
}

func listContains(list interface{}, value interface{}) bool {
	switch items := list.(type) {
	case []interface{}:
		for _, item := range items {
			if looseEquals(item, value) {
				return true
			}
		}
	case []string:
		valueStr := stringify(value)
		for _, item := range items {
			if item == valueStr {
				return true
			}
		}
	}
	return false
}

func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

// numericValue converts Go numeric types to float64 without parsing strings.
func numericValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// toNumber additionally accepts numeric strings, matching how ordering
// comparisons coerce both sides.
func toNumber(value interface{}) (float64, bool) {
	if n, ok := numericValue(value); ok {
		return n, true
	}
	if s, ok := value.(string); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
