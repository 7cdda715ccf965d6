// Package features defines the clinical input schema for the diabetes
// classifier: the per-field validation rules, the validator that turns an
// untrusted payload into an ordered feature vector, and the vector type
// itself.
package features

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the numeric type a field must coerce to.
type Kind int

const (
	Real Kind = iota
	Integer
)

// FieldSpec describes one required input feature: its exact JSON key, the
// numeric kind it coerces to, and its inclusive valid range.
type FieldSpec struct {
	Name string
	Kind Kind
	Min  float64
	Max  float64
}

// registry lists every required feature in model input order. The order is
// load-bearing: it defines feature-vector layout and must match the
// feature-name list the model was trained with (model.Load verifies this at
// startup).
var registry = []FieldSpec{
	{Name: "Pregnancies", Kind: Real, Min: 0, Max: 20},
	{Name: "Glucose", Kind: Real, Min: 50, Max: 250},
	{Name: "BloodPressure", Kind: Real, Min: 30, Max: 150},
	{Name: "SkinThickness", Kind: Real, Min: 0, Max: 100},
	{Name: "Insulin", Kind: Real, Min: 0, Max: 900},
	{Name: "BMI", Kind: Real, Min: 10, Max: 70},
	{Name: "DiabetesPedigreeFunction", Kind: Real, Min: 0.05, Max: 2.5},
	{Name: "Age", Kind: Integer, Min: 18, Max: 100},
}

// Registry returns the full field specification set in vector order.
func Registry() []FieldSpec {
	out := make([]FieldSpec, len(registry))
	copy(out, registry)
	return out
}

// Width returns the number of required features, i.e. the model input width.
func Width() int {
	return len(registry)
}

// Names returns the field names in vector order.
func Names() []string {
	names := make([]string, len(registry))
	for i, spec := range registry {
		names[i] = spec.Name
	}
	return names
}

// Vector is a fully validated feature vector in registry order. It is only
// constructible through Validate, so holding one implies every element
// passed its field's type and range checks.
type Vector struct {
	values []float64
}

// Values returns a copy of the vector elements in registry order.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Len returns the number of elements in the vector.
func (v Vector) Len() int {
	return len(v.values)
}

// Map returns the vector as a name→value map.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for i, val := range v.values {
		out[registry[i].Name] = val
	}
	return out
}

// MarshalJSON encodes the vector as a name→value object with keys emitted
// in registry order, matching the order the values were validated in.
func (v Vector) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, val := range v.values {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(registry[i].Name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = strconv.AppendFloat(buf, val, 'f', -1, 64)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON decodes a name→value object produced by MarshalJSON. Every
// registry field must be present and within range; this keeps the only way
// to obtain a Vector equivalent to passing validation.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	vec, errs := Validate(raw)
	if len(errs) > 0 {
		return fmt.Errorf("invalid feature object: %s", errs[0].Message)
	}
	*v = vec
	return nil
}

// formatBound renders a range bound the way it reads in the field rules:
// integral bounds without a decimal point, fractional ones as written.
func formatBound(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
