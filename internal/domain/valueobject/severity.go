package valueobject

import "fmt"

// Severity grades a single insight.
type Severity struct {
	value string
}

var (
	SeverityGood     = Severity{value: "good"}
	SeverityWarning  = Severity{value: "warning"}
	SeverityCritical = Severity{value: "critical"}
)

// SeverityFromString reconstructs a Severity from its string representation.
func SeverityFromString(s string) (Severity, error) {
	switch s {
	case "good":
		return SeverityGood, nil
	case "warning":
		return SeverityWarning, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

func (s Severity) String() string { return s.value }

// Equal checks equality with another Severity.
func (s Severity) Equal(other Severity) bool { return s.value == other.value }
