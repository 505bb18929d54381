package usecase

import (
	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/service"
	"github.com/bibbank/creditrisk/internal/domain/valueobject"
)

// DescribeModel reports the fitted schema and artifact identity in use.
type DescribeModel struct {
	evaluator *service.Evaluator
	version   string
	checksum  string
	policy    valueobject.CategoryPolicy
}

// NewDescribeModel creates a new DescribeModel use case.
func NewDescribeModel(evaluator *service.Evaluator, version, checksum string, policy valueobject.CategoryPolicy) *DescribeModel {
	return &DescribeModel{evaluator: evaluator, version: version, checksum: checksum, policy: policy}
}

// Execute returns the model description.
func (uc *DescribeModel) Execute() dto.ModelInfoResponse {
	return dto.ModelInfoResponse{
		Version:        uc.version,
		Checksum:       uc.checksum,
		CategoryPolicy: string(uc.policy),
		Columns:        uc.evaluator.ExpectedColumns(),
	}
}
