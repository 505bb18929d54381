package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertInDeltaPct checks two percentages agree to within delta points.
func AssertInDeltaPct(t *testing.T, expected, actual, delta float64) {
	t.Helper()
	assert.InDelta(t, expected, actual, delta, "expected %.4f%% got %.4f%%", expected, actual)
}
