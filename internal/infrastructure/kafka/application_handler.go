package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/model"
	pkgkafka "github.com/bibbank/creditrisk/pkg/kafka"
)

// Assessor runs the assessment flow for one application.
type Assessor interface {
	Execute(ctx context.Context, req dto.AssessApplicantRequest) (dto.AssessmentResponse, error)
}

// ApplicationHandler consumes credit applications and assesses each one.
type ApplicationHandler struct {
	assessor Assessor
	logger   *slog.Logger
}

// NewApplicationHandler creates a handler for the applications topic.
func NewApplicationHandler(assessor Assessor, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{assessor: assessor, logger: logger}
}

// Handle processes one message. Malformed or invalid applications are logged
// and acknowledged so they do not block the partition. Any other failure is
// returned and the consumer retries the message before reading past it.
func (h *ApplicationHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.AssessApplicantRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed application", slog.String("error", err.Error()))
		return nil
	}

	resp, err := h.assessor.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			h.logger.WarnContext(ctx, "dropping invalid application",
				slog.String("application_id", req.ApplicationID.String()),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("assess application %s: %w", req.ApplicationID, err)
	}

	h.logger.InfoContext(ctx, "application assessed",
		slog.String("application_id", req.ApplicationID.String()),
		slog.String("assessment_id", resp.ID.String()),
		slog.String("risk_tier", resp.RiskTier),
	)
	return nil
}
