package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/application/usecase"
	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/pkg/auth"
)

// maxBodyBytes bounds request bodies on the scoring endpoint.
const maxBodyBytes = 1 << 20

// ScoreHandler exposes scoring and model description over HTTP.
type ScoreHandler struct {
	score    *usecase.ScoreApplicant
	describe *usecase.DescribeModel
	jwt      *auth.JWTService
	logger   *slog.Logger
}

// NewScoreHandler creates the scoring handler. When jwt is nil the routes
// are served without authentication.
func NewScoreHandler(score *usecase.ScoreApplicant, describe *usecase.DescribeModel, jwt *auth.JWTService, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{score: score, describe: describe, jwt: jwt, logger: logger}
}

// RegisterRoutes registers the scoring endpoints on the provided ServeMux.
func (h *ScoreHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /v1/score", h.protect(http.HandlerFunc(h.Score)))
	mux.Handle("GET /v1/model", h.protect(http.HandlerFunc(h.Model)))
}

func (h *ScoreHandler) protect(next http.Handler) http.Handler {
	if h.jwt == nil {
		return next
	}
	return auth.HTTPMiddleware(h.jwt, next)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Score handles POST /v1/score with an applicant JSON body.
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplicantRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	resp, err := h.score.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.ErrorContext(r.Context(), "scoring failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "prediction failed"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Model handles GET /v1/model.
func (h *ScoreHandler) Model(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.describe.Execute())
}
