package ml

import (
	"errors"
	"fmt"
	"math"
)

// StandardScaler applies exported standardization parameters: each feature
// is centred on its fitted mean and divided by its fitted scale.
type StandardScaler struct {
	columns []string
	mean    []float64
	scale   []float64
}

// NewStandardScaler validates fitted parameters. A zero scale is stored as 1,
// which is how a constant feature is treated at fit time.
func NewStandardScaler(columns []string, mean, scale []float64) (*StandardScaler, error) {
	if len(columns) == 0 {
		return nil, errors.New("scaler has no feature names")
	}
	if len(mean) != len(columns) || len(scale) != len(columns) {
		return nil, fmt.Errorf("scaler parameter lengths disagree: %d names, %d means, %d scales",
			len(columns), len(mean), len(scale))
	}

	s := &StandardScaler{
		columns: append([]string(nil), columns...),
		mean:    append([]float64(nil), mean...),
		scale:   make([]float64, len(scale)),
	}
	for i, v := range scale {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("scaler scale for %q is invalid: %v", columns[i], v)
		}
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// ExpectedColumns returns a copy of the fitted feature order.
func (s *StandardScaler) ExpectedColumns() []string {
	return append([]string(nil), s.columns...)
}

// Transform returns (x - mean) / scale elementwise. x is not modified.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
