package valueobject

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is a coded categorical attribute. Each category belongs to a
// column prefix (SEX, EDUCATION, MARRIAGE) and carries the integer code the
// model was fitted on.
type Category struct {
	prefix string
	code   int
	label  string
}

// Column prefixes of the categorical attributes.
const (
	GenderPrefix    = "SEX"
	EducationPrefix = "EDUCATION"
	MaritalPrefix   = "MARRIAGE"
)

var (
	GenderMale   = Category{prefix: GenderPrefix, code: 1, label: "Male"}
	GenderFemale = Category{prefix: GenderPrefix, code: 2, label: "Female"}

	EducationPostGraduate = Category{prefix: EducationPrefix, code: 1, label: "Post-Graduate"}
	EducationUniversity   = Category{prefix: EducationPrefix, code: 2, label: "University"}
	EducationHighSchool   = Category{prefix: EducationPrefix, code: 3, label: "High School"}
	EducationOthers       = Category{prefix: EducationPrefix, code: 4, label: "Others"}

	MaritalSingle  = Category{prefix: MaritalPrefix, code: 1, label: "Single"}
	MaritalMarried = Category{prefix: MaritalPrefix, code: 2, label: "Married"}
	MaritalOthers  = Category{prefix: MaritalPrefix, code: 3, label: "Others"}
)

var categoryUniverse = map[string][]Category{
	GenderPrefix:    {GenderMale, GenderFemale},
	EducationPrefix: {EducationPostGraduate, EducationUniversity, EducationHighSchool, EducationOthers},
	MaritalPrefix:   {MaritalSingle, MaritalMarried, MaritalOthers},
}

// fallbackCategories are the codes substituted under CategoryPolicyFallback.
var fallbackCategories = map[string]Category{
	GenderPrefix:    GenderMale,
	EducationPrefix: EducationUniversity,
	MaritalPrefix:   MaritalMarried,
}

// ParseGender parses a gender label or code.
func ParseGender(s string, policy CategoryPolicy) (Category, error) {
	return parseCategory(GenderPrefix, s, policy)
}

// ParseEducation parses an education label or code.
func ParseEducation(s string, policy CategoryPolicy) (Category, error) {
	return parseCategory(EducationPrefix, s, policy)
}

// ParseMaritalStatus parses a marital status label or code.
func ParseMaritalStatus(s string, policy CategoryPolicy) (Category, error) {
	return parseCategory(MaritalPrefix, s, policy)
}

// CategoriesFor lists the known categories of a prefix in code order.
func CategoriesFor(prefix string) []Category {
	return append([]Category(nil), categoryUniverse[prefix]...)
}

func parseCategory(prefix, raw string, policy CategoryPolicy) (Category, error) {
	s := strings.TrimSpace(raw)
	code, codeErr := strconv.Atoi(s)
	for _, c := range categoryUniverse[prefix] {
		if strings.EqualFold(c.label, s) || (codeErr == nil && c.code == code) {
			return c, nil
		}
	}
	if policy == CategoryPolicyFallback {
		return fallbackCategories[prefix], nil
	}
	return Category{}, fmt.Errorf("unknown %s value %q", strings.ToLower(prefix), raw)
}

// Prefix returns the column prefix, e.g. "SEX".
func (c Category) Prefix() string { return c.prefix }

// Code returns the fitted integer code.
func (c Category) Code() int { return c.code }

// Label returns the human readable label.
func (c Category) Label() string { return c.label }

// Column returns the one-hot column name, e.g. "SEX_1".
func (c Category) Column() string {
	return c.prefix + "_" + strconv.Itoa(c.code)
}

func (c Category) String() string { return c.label }

// IsZero returns true if the category has not been set.
func (c Category) IsZero() bool { return c.prefix == "" }

// Equal checks equality with another Category.
func (c Category) Equal(other Category) bool {
	return c.prefix == other.prefix && c.code == other.code
}
