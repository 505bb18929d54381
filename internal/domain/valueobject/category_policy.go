package valueobject

import "fmt"

// CategoryPolicy controls how unrecognised categorical values are treated.
type CategoryPolicy string

const (
	// CategoryPolicyStrict rejects unknown values with a validation error.
	CategoryPolicyStrict CategoryPolicy = "strict"
	// CategoryPolicyFallback substitutes Male, University and Married.
	CategoryPolicyFallback CategoryPolicy = "fallback"
)

// CategoryPolicyFromString parses a policy name. Empty means strict.
func CategoryPolicyFromString(s string) (CategoryPolicy, error) {
	switch CategoryPolicy(s) {
	case "", CategoryPolicyStrict:
		return CategoryPolicyStrict, nil
	case CategoryPolicyFallback:
		return CategoryPolicyFallback, nil
	default:
		return "", fmt.Errorf("invalid category policy: %s", s)
	}
}
