package service

import (
	"fmt"
	"strings"

	"github.com/bibbank/creditrisk/internal/domain/model"
)

// SchemaAligner maps derived records onto the ordered column set a fitted
// scaler expects.
type SchemaAligner struct {
	schema []string
}

// NewSchemaAligner validates the expected schema. An empty schema, a blank
// column name or a duplicate name is a configuration error.
func NewSchemaAligner(schema []string) (*SchemaAligner, error) {
	if len(schema) == 0 {
		return nil, fmt.Errorf("%w: expected schema is empty", ErrConfiguration)
	}

	seen := make(map[string]struct{}, len(schema))
	for i, name := range schema {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: schema column %d has no name", ErrConfiguration, i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate schema column %q", ErrConfiguration, name)
		}
		seen[name] = struct{}{}
	}

	return &SchemaAligner{schema: append([]string(nil), schema...)}, nil
}

// Columns returns a copy of the expected schema.
func (s *SchemaAligner) Columns() []string {
	return append([]string(nil), s.schema...)
}

// Expand one-hot encodes the categorical attributes present on the record
// and merges them with the numeric columns. Only the categories actually
// present produce an indicator column.
func (s *SchemaAligner) Expand(d model.DerivedRecord) map[string]float64 {
	cols := d.Numeric()
	for _, c := range d.Categorical() {
		cols[c.Column()] = 1
	}
	return cols
}

// Align returns the record as a vector in schema order. Columns the record
// lacks are 0; columns outside the schema are dropped.
func (s *SchemaAligner) Align(d model.DerivedRecord) []float64 {
	expanded := s.Expand(d)
	vec := make([]float64, len(s.schema))
	for i, name := range s.schema {
		vec[i] = expanded[name]
	}
	return vec
}
