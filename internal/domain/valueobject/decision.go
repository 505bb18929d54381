package valueobject

import "fmt"

// Decision is the lending action recommended for an applicant.
type Decision struct {
	value string
}

var (
	DecisionApprove = Decision{value: "APPROVE"}
	DecisionReview  = Decision{value: "REVIEW"}
	DecisionDecline = Decision{value: "DECLINE"}
)

// DecisionFromString reconstructs a decision from its string representation.
func DecisionFromString(s string) (Decision, error) {
	switch s {
	case "APPROVE":
		return DecisionApprove, nil
	case "REVIEW":
		return DecisionReview, nil
	case "DECLINE":
		return DecisionDecline, nil
	default:
		return Decision{}, fmt.Errorf("invalid decision: %s", s)
	}
}

// String returns the string representation.
func (d Decision) String() string {
	return d.value
}

// IsZero returns true if the decision has not been set.
func (d Decision) IsZero() bool {
	return d.value == ""
}

// Equal checks equality with another Decision.
func (d Decision) Equal(other Decision) bool {
	return d.value == other.value
}

// Recommendation pairs a decision with the text shown to the underwriter.
type Recommendation struct {
	Decision Decision
	Text     string
}

// RecommendationForTier returns the fixed recommendation for a tier.
func RecommendationForTier(tier RiskTier) Recommendation {
	switch tier {
	case RiskTierLow:
		return Recommendation{
			Decision: DecisionApprove,
			Text:     "Strong repayment profile detected. Client shows consistent financial discipline. Approval recommended with standard terms.",
		}
	case RiskTierMedium:
		return Recommendation{
			Decision: DecisionReview,
			Text:     "Moderate risk indicators present. Irregular payment patterns detected. Additional collateral or co-signer recommended before approval.",
		}
	default:
		return Recommendation{
			Decision: DecisionDecline,
			Text:     "High probability of default. Significant repayment risk detected across multiple indicators. Decline recommended.",
		}
	}
}
