package engine

import (
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([\w.]+)\s*\}\}`)

// Interpolator substitutes {{dotted.path}} placeholders in action parameters
// with values resolved from the trigger payload. Placeholders whose path does
// not resolve are left untouched so a misconfigured rule is visible in the
// delivered output instead of producing an empty blank.
type Interpolator struct{}

// NewInterpolator creates a new template interpolator
func NewInterpolator() *Interpolator {
	return &Interpolator{}
}

// Interpolate returns a copy of parameters with every placeholder in
// string-typed values substituted. Nested parameter maps are interpolated
// recursively; all other value types pass through unmodified.
func (in *Interpolator) Interpolate(parameters, payload map[string]interface{}) map[string]interface{} {
	if parameters == nil {
		return nil
	}

	result := make(map[string]interface{}, len(parameters))
	for key, value := range parameters {
		switch v := value.(type) {
		case string:
			result[key] = in.interpolateString(v, payload)
		case map[string]interface{}:
			result[key] = in.Interpolate(v, payload)
		default:
			result[key] = value
		}
	}
	return result
}

func (in *Interpolator) interpolateString(s string, payload map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(token string) string {
		path := placeholderPattern.FindStringSubmatch(token)[1]
		value, ok := LookupPath(path, payload)
		if !ok {
			return token
		}
		return stringify(value)
	})
}
