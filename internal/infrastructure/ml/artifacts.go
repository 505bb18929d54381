package ml

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bibbank/creditrisk/internal/domain/service"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

// Supported artifact kinds.
const (
	KindStandardScaler     = "standard_scaler"
	KindLogisticRegression = "logistic_regression"
)

// ScalerFile is the exported form of a fitted standardization transform.
// JSON documents decode as well, since JSON is valid YAML.
type ScalerFile struct {
	Kind         string    `yaml:"kind" json:"kind"`
	FeatureNames []string  `yaml:"feature_names_in" json:"feature_names_in"`
	Mean         []float64 `yaml:"mean" json:"mean"`
	Scale        []float64 `yaml:"scale" json:"scale"`
}

// ModelFile is the exported form of a fitted logistic regression.
type ModelFile struct {
	Kind         string    `yaml:"kind" json:"kind"`
	Version      string    `yaml:"version,omitempty" json:"version,omitempty"`
	FeatureNames []string  `yaml:"feature_names_in,omitempty" json:"feature_names_in,omitempty"`
	Coef         []float64 `yaml:"coef" json:"coef"`
	Intercept    float64   `yaml:"intercept" json:"intercept"`
}

// Artifacts is the immutable handle on the fitted scaler and model, built
// once at start-up and injected into the evaluator.
type Artifacts struct {
	Scaler   *StandardScaler
	Model    *LogisticRegression
	Version  string
	Checksum string
}

// LoadArtifacts reads and cross-checks the scaler and model files. Every
// failure wraps service.ErrConfiguration.
func LoadArtifacts(scalerPath, modelPath string) (*Artifacts, error) {
	scalerRaw, err := os.ReadFile(scalerPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read scaler: %w", service.ErrConfiguration, err)
	}
	modelRaw, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read model: %w", service.ErrConfiguration, err)
	}
	return ParseArtifacts(scalerRaw, modelRaw)
}

// ParseArtifacts builds Artifacts from already-read documents.
func ParseArtifacts(scalerRaw, modelRaw []byte) (*Artifacts, error) {
	var sf ScalerFile
	if err := decodeStrict(scalerRaw, &sf); err != nil {
		return nil, fmt.Errorf("%w: decode scaler: %w", service.ErrConfiguration, err)
	}
	if sf.Kind != KindStandardScaler {
		return nil, fmt.Errorf("%w: unsupported scaler kind %q", service.ErrConfiguration, sf.Kind)
	}

	var mf ModelFile
	if err := decodeStrict(modelRaw, &mf); err != nil {
		return nil, fmt.Errorf("%w: decode model: %w", service.ErrConfiguration, err)
	}
	if mf.Kind != KindLogisticRegression {
		return nil, fmt.Errorf("%w: unsupported model kind %q", service.ErrConfiguration, mf.Kind)
	}

	scaler, err := NewStandardScaler(sf.FeatureNames, sf.Mean, sf.Scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrConfiguration, err)
	}
	model, err := NewLogisticRegression(mf.Coef, mf.Intercept)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrConfiguration, err)
	}

	if model.NumFeatures() != len(sf.FeatureNames) {
		return nil, fmt.Errorf("%w: model has %d coefficients but scaler has %d features",
			service.ErrConfiguration, model.NumFeatures(), len(sf.FeatureNames))
	}
	if len(mf.FeatureNames) > 0 && !slices.Equal(mf.FeatureNames, sf.FeatureNames) {
		return nil, fmt.Errorf("%w: model feature names differ from scaler feature names", service.ErrConfiguration)
	}

	sum := sha256.New()
	sum.Write(scalerRaw)
	sum.Write(modelRaw)

	return &Artifacts{
		Scaler:   scaler,
		Model:    model,
		Version:  mf.Version,
		Checksum: hex.EncodeToString(sum.Sum(nil))[:16],
	}, nil
}

// Evaluator builds the prediction orchestrator over these artifacts.
func (a *Artifacts) Evaluator(policy valueobject.CategoryPolicy) (*service.Evaluator, error) {
	return service.NewEvaluator(a.Scaler, a.Model, service.WithCategoryPolicy(policy))
}

func decodeStrict(raw []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(out)
}
