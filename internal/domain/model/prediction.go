package model

import "github.com/bibbank/creditrisk/internal/domain/valueobject"

// PredictionResult is the outcome of evaluating one applicant.
type PredictionResult struct {
	Probability    float64
	ProbabilityPct float64
	Tier           valueobject.RiskTier
	Recommendation valueobject.Recommendation
	Insights       []Insight
	Derived        DerivedRecord
}

// CriticalInsights returns the titles of critical findings, in order.
func (r PredictionResult) CriticalInsights() []string {
	var out []string
	for _, in := range r.Insights {
		if in.Severity.Equal(valueobject.SeverityCritical) {
			out = append(out, in.Title)
		}
	}
	return out
}
