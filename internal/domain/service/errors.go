package service

import "errors"

var (
	// ErrConfiguration is fatal: the fitted schema or an adapter is missing or
	// malformed. It is raised at construction time and must not be retried.
	ErrConfiguration = errors.New("invalid prediction configuration")

	// ErrPrediction wraps any failure of the scaler or classifier adapters.
	ErrPrediction = errors.New("prediction failed")
)
