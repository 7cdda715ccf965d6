package model

import (
	"fmt"
	"math"
)

// StandardScaler applies the per-feature standardization fitted at training
// time: (x - mean) / scale, elementwise in feature order.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) validate(width int) error {
	if len(s.Mean) != width {
		return fmt.Errorf("scaler mean length %d, expected %d", len(s.Mean), width)
	}
	if len(s.Scale) != width {
		return fmt.Errorf("scaler scale length %d, expected %d", len(s.Scale), width)
	}
	for i, sc := range s.Scale {
		if sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("scaler scale[%d] is %v", i, sc)
		}
		if math.IsNaN(s.Mean[i]) || math.IsInf(s.Mean[i], 0) {
			return fmt.Errorf("scaler mean[%d] is %v", i, s.Mean[i])
		}
	}
	return nil
}

// Transform standardizes a feature vector. The input is not modified.
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.Mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.Mean), len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
