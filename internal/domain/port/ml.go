package port

// Scaler applies a fitted standardization transform. Implementations must be
// safe for concurrent use and must not modify the input slice.
type Scaler interface {
	// ExpectedColumns returns the ordered column names the scaler was fitted on.
	ExpectedColumns() []string

	// Transform standardizes a vector laid out in ExpectedColumns order.
	Transform(x []float64) ([]float64, error)
}

// Classifier is a fitted binary classifier. Implementations must be safe for
// concurrent use.
type Classifier interface {
	// PredictProba returns the probability of the positive (default) class.
	PredictProba(x []float64) (float64, error)
}
