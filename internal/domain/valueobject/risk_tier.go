package valueobject

import "fmt"

// RiskTier is the three-level label derived from the default probability.
type RiskTier struct {
	value string
}

var (
	RiskTierLow    = RiskTier{value: "LOW"}
	RiskTierMedium = RiskTier{value: "MEDIUM"}
	RiskTierHigh   = RiskTier{value: "HIGH"}
)

// Tier cut-offs on the probability percentage. Lower bounds are inclusive.
const (
	MediumTierThresholdPct = 30.0
	HighTierThresholdPct   = 60.0
)

// RiskTierFromString reconstructs a RiskTier from its string representation.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "LOW":
		return RiskTierLow, nil
	case "MEDIUM":
		return RiskTierMedium, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %s", s)
	}
}

// RiskTierFromPercent maps a default probability percentage (0-100) to a tier.
func RiskTierFromPercent(pct float64) RiskTier {
	switch {
	case pct < MediumTierThresholdPct:
		return RiskTierLow
	case pct < HighTierThresholdPct:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

// String returns the string representation.
func (r RiskTier) String() string {
	return r.value
}

// Rank orders tiers: LOW=1, MEDIUM=2, HIGH=3. The zero tier ranks 0.
func (r RiskTier) Rank() int {
	switch r.value {
	case "LOW":
		return 1
	case "MEDIUM":
		return 2
	case "HIGH":
		return 3
	default:
		return 0
	}
}

// IsZero returns true if the tier has not been set.
func (r RiskTier) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskTier.
func (r RiskTier) Equal(other RiskTier) bool {
	return r.value == other.value
}

// IsHigh returns true for the HIGH tier.
func (r RiskTier) IsHigh() bool {
	return r.value == "HIGH"
}
