package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/application/usecase"
	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/internal/domain/port"
	"github.com/bibbank/creditrisk/pkg/auth"
)

// Compile-time assertion that CreditRiskHandler implements CreditRiskServiceServer.
var _ CreditRiskServiceServer = (*CreditRiskHandler)(nil)

// CreditRiskHandler implements the gRPC CreditRiskServiceServer interface.
type CreditRiskHandler struct {
	UnimplementedCreditRiskServiceServer
	scoreApplicant  *usecase.ScoreApplicant
	assessApplicant *usecase.AssessApplicant
	getAssessment   *usecase.GetAssessment
	listAssessments *usecase.ListAssessments
	logger          *slog.Logger

	// authDisabled trusts the tenant_id carried in requests. Only for local
	// development without a token issuer.
	authDisabled bool
}

// HandlerOption configures a CreditRiskHandler.
type HandlerOption func(*CreditRiskHandler)

// WithAuthDisabled makes the handler accept requests without JWT claims.
func WithAuthDisabled() HandlerOption {
	return func(h *CreditRiskHandler) { h.authDisabled = true }
}

// NewCreditRiskHandler creates a new gRPC handler.
func NewCreditRiskHandler(
	scoreApplicant *usecase.ScoreApplicant,
	assessApplicant *usecase.AssessApplicant,
	getAssessment *usecase.GetAssessment,
	listAssessments *usecase.ListAssessments,
	logger *slog.Logger,
	opts ...HandlerOption,
) *CreditRiskHandler {
	h := &CreditRiskHandler{
		scoreApplicant:  scoreApplicant,
		assessApplicant: assessApplicant,
		getAssessment:   getAssessment,
		listAssessments: listAssessments,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// requireRole checks that the caller has at least one of the given roles.
func (h *CreditRiskHandler) requireRole(ctx context.Context, roles ...string) error {
	if h.authDisabled {
		return nil
	}
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(roles...) {
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return nil
}

// tenantID resolves the caller's tenant: from JWT claims, or from the request
// when authentication is disabled.
func (h *CreditRiskHandler) tenantID(ctx context.Context, requested string) (uuid.UUID, error) {
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		return claims.TenantID, nil
	}
	if !h.authDisabled {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	id, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid tenant_id: %v", err)
	}
	return id, nil
}

// toStatus maps application errors onto gRPC status codes.
func (h *CreditRiskHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case errors.Is(err, port.ErrConflict):
		return status.Error(codes.Aborted, "assessment modified concurrently")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}

	h.logger.ErrorContext(ctx, "request failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return status.Error(codes.Internal, "internal error")
}

// Proto-aligned request/response message types.

// ApplicantMsg represents the proto Applicant message.
type ApplicantMsg struct {
	Name               string    `json:"name"`
	Gender             string    `json:"gender"`
	Education          string    `json:"education"`
	MaritalStatus      string    `json:"marital_status"`
	BillAmounts        []float64 `json:"bill_amounts"`
	PaymentAmounts     []float64 `json:"payment_amounts"`
	CreditLimit        float64   `json:"credit_limit"`
	Age                int32     `json:"age"`
	PaymentDelayStatus int32     `json:"payment_delay_status"`
}

func (m *ApplicantMsg) toDTO() dto.ApplicantRequest {
	return dto.ApplicantRequest{
		Name:               m.Name,
		CreditLimit:        m.CreditLimit,
		Age:                int(m.Age),
		Gender:             m.Gender,
		Education:          m.Education,
		MaritalStatus:      m.MaritalStatus,
		PaymentDelayStatus: int(m.PaymentDelayStatus),
		BillAmounts:        m.BillAmounts,
		PaymentAmounts:     m.PaymentAmounts,
	}
}

// InsightMsg represents the proto Insight message.
type InsightMsg struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// ScoreMsg represents the proto Score message.
type ScoreMsg struct {
	RiskTier              string        `json:"risk_tier"`
	Decision              string        `json:"decision"`
	Recommendation        string        `json:"recommendation"`
	Insights              []*InsightMsg `json:"insights"`
	Probability           float64       `json:"probability"`
	DefaultProbabilityPct float64       `json:"default_probability_pct"`
	UtilizationPct        int32         `json:"utilization_pct"`
	PaymentRatioPct       int32         `json:"payment_ratio_pct"`
}

// AssessmentMsg represents the proto CreditAssessment message.
type AssessmentMsg struct {
	ID                    string        `json:"id"`
	TenantID              string        `json:"tenant_id"`
	ApplicationID         string        `json:"application_id"`
	ApplicantName         string        `json:"applicant_name"`
	RiskTier              string        `json:"risk_tier"`
	Decision              string        `json:"decision"`
	Recommendation        string        `json:"recommendation"`
	AssessedAt            string        `json:"assessed_at"`
	Insights              []*InsightMsg `json:"insights"`
	Probability           float64       `json:"probability"`
	DefaultProbabilityPct float64       `json:"default_probability_pct"`
	Version               int32         `json:"version"`
}

// ScoreApplicantRequest represents the proto ScoreApplicantRequest message.
type ScoreApplicantRequest struct {
	Applicant *ApplicantMsg `json:"applicant"`
}

// ScoreApplicantResponse represents the proto ScoreApplicantResponse message.
type ScoreApplicantResponse struct {
	Score *ScoreMsg `json:"score"`
}

// AssessApplicantRequest represents the proto AssessApplicantRequest message.
type AssessApplicantRequest struct {
	TenantID      string        `json:"tenant_id"`
	ApplicationID string        `json:"application_id"`
	Applicant     *ApplicantMsg `json:"applicant"`
}

// AssessApplicantResponse represents the proto AssessApplicantResponse message.
type AssessApplicantResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	TenantID string `json:"tenant_id"`
	ID       string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListAssessmentsRequest represents the proto ListAssessmentsRequest message.
type ListAssessmentsRequest struct {
	TenantID string `json:"tenant_id"`
	PageSize int32  `json:"page_size"`
	Offset   int32  `json:"offset"`
}

// ListAssessmentsResponse represents the proto ListAssessmentsResponse message.
type ListAssessmentsResponse struct {
	Assessments []*AssessmentMsg `json:"assessments"`
	TotalCount  int32            `json:"total_count"`
}

// ScoreApplicant scores an applicant without persisting anything.
func (h *CreditRiskHandler) ScoreApplicant(ctx context.Context, req *ScoreApplicantRequest) (*ScoreApplicantResponse, error) {
	if err := h.requireRole(ctx, auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil || req.Applicant == nil {
		return nil, status.Error(codes.InvalidArgument, "applicant is required")
	}

	result, err := h.scoreApplicant.Execute(ctx, req.Applicant.toDTO())
	if err != nil {
		return nil, h.toStatus(ctx, "ScoreApplicant", err)
	}

	return &ScoreApplicantResponse{Score: toScoreMsg(result)}, nil
}

// AssessApplicant scores, persists and publishes an application assessment.
func (h *CreditRiskHandler) AssessApplicant(ctx context.Context, req *AssessApplicantRequest) (*AssessApplicantResponse, error) {
	if err := h.requireRole(ctx, auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil || req.Applicant == nil {
		return nil, status.Error(codes.InvalidArgument, "applicant is required")
	}

	tenantID, err := h.tenantID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid application_id: %v", err)
	}

	h.logger.InfoContext(ctx, "assessing application",
		slog.String("tenant_id", tenantID.String()),
		slog.String("application_id", applicationID.String()),
	)

	result, err := h.assessApplicant.Execute(ctx, dto.AssessApplicantRequest{
		TenantID:      tenantID,
		ApplicationID: applicationID,
		Applicant:     req.Applicant.toDTO(),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "AssessApplicant", err)
	}

	return &AssessApplicantResponse{Assessment: toAssessmentMsg(result)}, nil
}

// GetAssessment returns a persisted assessment.
func (h *CreditRiskHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if err := h.requireRole(ctx, auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleAuditor, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	tenantID, err := h.tenantID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{
		TenantID:     tenantID,
		AssessmentID: assessmentID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "GetAssessment", err)
	}

	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListAssessments pages through the caller's assessments.
func (h *CreditRiskHandler) ListAssessments(ctx context.Context, req *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	if err := h.requireRole(ctx, auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleAuditor); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	tenantID, err := h.tenantID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	result, err := h.listAssessments.Execute(ctx, dto.ListAssessmentsRequest{
		TenantID: tenantID,
		PageSize: int(req.PageSize),
		Offset:   int(req.Offset),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "ListAssessments", err)
	}

	resp := &ListAssessmentsResponse{
		Assessments: make([]*AssessmentMsg, 0, len(result.Assessments)),
		TotalCount:  int32(result.TotalCount),
	}
	for _, a := range result.Assessments {
		resp.Assessments = append(resp.Assessments, toAssessmentMsg(a))
	}
	return resp, nil
}

func toInsightMsgs(in []dto.InsightDTO) []*InsightMsg {
	out := make([]*InsightMsg, 0, len(in))
	for _, i := range in {
		out = append(out, &InsightMsg{Kind: i.Kind, Severity: i.Severity, Title: i.Title, Detail: i.Detail})
	}
	return out
}

func toScoreMsg(r dto.ScoreResponse) *ScoreMsg {
	return &ScoreMsg{
		Probability:           r.Probability,
		DefaultProbabilityPct: r.ProbabilityPct,
		RiskTier:              r.RiskTier,
		Decision:              r.Decision,
		Recommendation:        r.Recommendation,
		Insights:              toInsightMsgs(r.Insights),
		UtilizationPct:        int32(r.Indicators.UtilizationPct),
		PaymentRatioPct:       int32(r.Indicators.PaymentRatioPct),
	}
}

func toAssessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	msg := &AssessmentMsg{
		ID:                    a.ID.String(),
		TenantID:              a.TenantID.String(),
		ApplicationID:         a.ApplicationID.String(),
		ApplicantName:         a.ApplicantName,
		Probability:           a.Probability,
		DefaultProbabilityPct: a.ProbabilityPct,
		RiskTier:              a.RiskTier,
		Decision:              a.Decision,
		Recommendation:        a.Recommendation,
		Insights:              toInsightMsgs(a.Insights),
		Version:               int32(a.Version),
	}
	if !a.AssessedAt.IsZero() {
		msg.AssessedAt = a.AssessedAt.Format(time.RFC3339)
	}
	return msg
}
