package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskTierFromPercent(t *testing.T) {
	tests := []struct {
		pct      float64
		expected RiskTier
	}{
		{0, RiskTierLow},
		{29.999, RiskTierLow},
		{30, RiskTierMedium},
		{45, RiskTierMedium},
		{59.999, RiskTierMedium},
		{60, RiskTierHigh},
		{100, RiskTierHigh},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskTierFromPercent(tt.pct), "pct=%v", tt.pct)
		})
	}
}

func TestRiskTierFromPercent_Monotonic(t *testing.T) {
	prev := 0
	for pct := 0.0; pct <= 100.0; pct += 0.25 {
		rank := RiskTierFromPercent(pct).Rank()
		require.GreaterOrEqual(t, rank, prev, "tier rank decreased at pct=%v", pct)
		prev = rank
	}
}

func TestRiskTierFromString(t *testing.T) {
	for _, s := range []string{"LOW", "MEDIUM", "HIGH"} {
		tier, err := RiskTierFromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, tier.String())
	}

	_, err := RiskTierFromString("CRITICAL")
	assert.Error(t, err)
	assert.True(t, RiskTier{}.IsZero())
	assert.True(t, RiskTierHigh.IsHigh())
	assert.False(t, RiskTierMedium.IsHigh())
}

func TestRecommendationForTier(t *testing.T) {
	assert.Equal(t, DecisionApprove, RecommendationForTier(RiskTierLow).Decision)
	assert.Contains(t, RecommendationForTier(RiskTierLow).Text, "Approval recommended")

	assert.Equal(t, DecisionReview, RecommendationForTier(RiskTierMedium).Decision)
	assert.Contains(t, RecommendationForTier(RiskTierMedium).Text, "co-signer")

	assert.Equal(t, DecisionDecline, RecommendationForTier(RiskTierHigh).Decision)
	assert.Contains(t, RecommendationForTier(RiskTierHigh).Text, "Decline recommended")
}

func TestDecisionFromString(t *testing.T) {
	d, err := DecisionFromString("REVIEW")
	require.NoError(t, err)
	assert.True(t, d.Equal(DecisionReview))

	_, err = DecisionFromString("MAYBE")
	assert.Error(t, err)
}

func TestSeverityFromString(t *testing.T) {
	s, err := SeverityFromString("critical")
	require.NoError(t, err)
	assert.True(t, s.Equal(SeverityCritical))

	_, err = SeverityFromString("info")
	assert.Error(t, err)
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name   string
		parse  func(string, CategoryPolicy) (Category, error)
		input  string
		column string
	}{
		{"gender label", ParseGender, "Female", "SEX_2"},
		{"gender lower case", ParseGender, "male", "SEX_1"},
		{"gender code", ParseGender, "2", "SEX_2"},
		{"education hyphenated", ParseEducation, "Post-Graduate", "EDUCATION_1"},
		{"education spaced", ParseEducation, " high school ", "EDUCATION_3"},
		{"education others", ParseEducation, "Others", "EDUCATION_4"},
		{"marital single", ParseMaritalStatus, "Single", "MARRIAGE_1"},
		{"marital code", ParseMaritalStatus, "3", "MARRIAGE_3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.parse(tt.input, CategoryPolicyStrict)
			require.NoError(t, err)
			assert.Equal(t, tt.column, c.Column())
		})
	}
}

func TestParseCategories_UnknownValue(t *testing.T) {
	_, err := ParseGender("Unknown", CategoryPolicyStrict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sex")

	_, err = ParseEducation("5", CategoryPolicyStrict)
	assert.Error(t, err)

	g, err := ParseGender("Unknown", CategoryPolicyFallback)
	require.NoError(t, err)
	assert.Equal(t, GenderMale, g)

	e, err := ParseEducation("PhD", CategoryPolicyFallback)
	require.NoError(t, err)
	assert.Equal(t, EducationUniversity, e)

	m, err := ParseMaritalStatus("", CategoryPolicyFallback)
	require.NoError(t, err)
	assert.Equal(t, MaritalMarried, m)
}

func TestCategoriesFor(t *testing.T) {
	edu := CategoriesFor(EducationPrefix)
	require.Len(t, edu, 4)
	assert.Equal(t, "Post-Graduate", edu[0].Label())

	edu[0] = Category{}
	assert.Equal(t, EducationPostGraduate, CategoriesFor(EducationPrefix)[0], "returned slice must be a copy")
}

func TestCategoryPolicyFromString(t *testing.T) {
	p, err := CategoryPolicyFromString("")
	require.NoError(t, err)
	assert.Equal(t, CategoryPolicyStrict, p)

	p, err = CategoryPolicyFromString("fallback")
	require.NoError(t, err)
	assert.Equal(t, CategoryPolicyFallback, p)

	_, err = CategoryPolicyFromString("lenient")
	assert.Error(t, err)
}
