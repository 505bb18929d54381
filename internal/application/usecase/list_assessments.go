package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/port"
)

// Page size bounds for ListAssessments.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListAssessments pages through a tenant's assessments.
type ListAssessments struct {
	repo port.AssessmentRepository
}

// NewListAssessments creates a new ListAssessments use case.
func NewListAssessments(repo port.AssessmentRepository) *ListAssessments {
	return &ListAssessments{repo: repo}
}

// Execute returns one page, newest first.
func (uc *ListAssessments) Execute(ctx context.Context, req dto.ListAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	limit := req.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset := max(req.Offset, 0)

	assessments, total, err := uc.repo.ListByTenant(ctx, req.TenantID, limit, offset)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{
		Assessments: make([]dto.AssessmentResponse, 0, len(assessments)),
		TotalCount:  total,
	}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	return resp, nil
}
