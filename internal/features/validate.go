package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldError reports one field that failed validation. Message is the full
// human-readable reason and is what clients see verbatim.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// Messages flattens field errors into the plain strings the API returns.
func Messages(errs []FieldError) []string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

// Validate converts an untrusted payload into a feature vector. Every field
// in the registry is checked in order; a failure records an error and moves
// on to the next field, so the caller always receives the complete error
// set in one pass. A Vector is returned only when the error list is empty.
func Validate(raw map[string]any) (Vector, []FieldError) {
	var errs []FieldError
	values := make([]float64, 0, len(registry))

	for _, spec := range registry {
		val, ok := raw[spec.Name]
		if !ok || val == nil {
			errs = append(errs, FieldError{
				Field:   spec.Name,
				Message: fmt.Sprintf("'%s' is required.", spec.Name),
			})
			continue
		}

		num, err := coerce(val, spec.Kind)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   spec.Name,
				Message: fmt.Sprintf("'%s' must be a number.", spec.Name),
			})
			continue
		}

		if num < spec.Min || num > spec.Max {
			errs = append(errs, FieldError{
				Field: spec.Name,
				Message: fmt.Sprintf("'%s' must be between %s and %s.",
					spec.Name, formatBound(spec.Min), formatBound(spec.Max)),
			})
			continue
		}

		values = append(values, num)
	}

	if len(errs) > 0 {
		return Vector{}, errs
	}
	return Vector{values: values}, nil
}

// coerce turns a JSON scalar into the field's numeric kind. Integer fields
// reject fractional numbers and non-integer strings rather than truncating.
func coerce(val any, kind Kind) (float64, error) {
	switch v := val.(type) {
	case float64:
		return checkKind(v, kind)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return checkKind(f, kind)
	case string:
		s := strings.TrimSpace(v)
		if kind == Integer {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return 0, err
			}
			return float64(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		// ParseFloat accepts "NaN" and "Inf"; kind checking rejects them.
		return checkKind(f, kind)
	default:
		return 0, fmt.Errorf("unsupported value type %T", val)
	}
}

func checkKind(f float64, kind Kind) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value is not finite")
	}
	if kind == Integer && f != math.Trunc(f) {
		return 0, fmt.Errorf("value %v is not an integer", f)
	}
	return f, nil
}
