package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

func TestNewSchemaAligner_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		schema []string
	}{
		{name: "nil schema", schema: nil},
		{name: "empty schema", schema: []string{}},
		{name: "blank column", schema: []string{"AGE", " "}},
		{name: "duplicate column", schema: []string{"AGE", "LIMIT_BAL", "AGE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchemaAligner(tt.schema)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestSchemaAligner_ExpandOnlyPresentCategories(t *testing.T) {
	aligner, err := NewSchemaAligner(referenceSchema())
	require.NoError(t, err)

	expanded := aligner.Expand(DeriveFeatures(mustApplicant(t, scenarioInput())))

	assert.EqualValues(t, 1, expanded["SEX_1"])
	assert.EqualValues(t, 1, expanded["EDUCATION_2"])
	assert.EqualValues(t, 1, expanded["MARRIAGE_1"])
	assert.NotContains(t, expanded, "SEX_2")
	assert.NotContains(t, expanded, "EDUCATION_1")
	assert.NotContains(t, expanded, "MARRIAGE_3")
}

func TestSchemaAligner_AlignOrderAndBackfill(t *testing.T) {
	schema := []string{"MARRIAGE_3", "AGE", "SEX_1", "UNSEEN_COLUMN", "LIMIT_BAL", "SEX_2"}
	aligner, err := NewSchemaAligner(schema)
	require.NoError(t, err)

	vec := aligner.Align(DeriveFeatures(mustApplicant(t, scenarioInput())))

	assert.Equal(t, []float64{0, 32, 1, 0, 80000, 0}, vec)
}

func TestSchemaAligner_LengthInvariant(t *testing.T) {
	schema := referenceSchema()
	aligner, err := NewSchemaAligner(schema)
	require.NoError(t, err)

	for _, g := range valueobject.CategoriesFor(valueobject.GenderPrefix) {
		for _, e := range valueobject.CategoriesFor(valueobject.EducationPrefix) {
			for _, m := range valueobject.CategoriesFor(valueobject.MaritalPrefix) {
				in := scenarioInput()
				in.Gender, in.Education, in.MaritalStatus = g.Label(), e.Label(), m.Label()
				vec := aligner.Align(DeriveFeatures(mustApplicant(t, in)))

				require.Len(t, vec, len(schema))
				var hot float64
				for i, name := range schema {
					if name == g.Column() || name == e.Column() || name == m.Column() {
						hot += vec[i]
					}
				}
				assert.EqualValues(t, 3, hot, "%s/%s/%s", g, e, m)
			}
		}
	}
}

func TestSchemaAligner_ColumnsIsACopy(t *testing.T) {
	schema := []string{"AGE", "LIMIT_BAL"}
	aligner, err := NewSchemaAligner(schema)
	require.NoError(t, err)

	schema[0] = "MUTATED"
	cols := aligner.Columns()
	cols[1] = "MUTATED"

	assert.Equal(t, []string{"AGE", "LIMIT_BAL"}, aligner.Columns())
}

func TestSchemaAligner_DropsUnexpectedColumns(t *testing.T) {
	aligner, err := NewSchemaAligner([]string{model.ColumnAge})
	require.NoError(t, err)

	vec := aligner.Align(DeriveFeatures(mustApplicant(t, scenarioInput())))
	assert.Equal(t, []float64{32}, vec)
}
