package ml

import (
	"errors"
	"fmt"
	"math"
)

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	coef      []float64
	intercept float64
}

// NewLogisticRegression validates exported coefficients.
func NewLogisticRegression(coef []float64, intercept float64) (*LogisticRegression, error) {
	if len(coef) == 0 {
		return nil, errors.New("model has no coefficients")
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("model coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, errors.New("model intercept is not finite")
	}
	return &LogisticRegression{coef: append([]float64(nil), coef...), intercept: intercept}, nil
}

// PredictProba returns sigmoid(coef · x + intercept).
func (m *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(m.coef) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.coef), len(x))
	}
	z := m.intercept
	for i, v := range x {
		z += m.coef[i] * v
	}
	return sigmoid(z), nil
}

// NumFeatures reports the model's input width.
func (m *LogisticRegression) NumFeatures() int {
	return len(m.coef)
}

// sigmoid is evaluated on the branch that cannot overflow exp.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
