package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/domain"
	"github.com/lexigraph/engine/internal/service/session"
	"github.com/lexigraph/engine/pkg/ctxutil"
)

// sessionService defines the minimal interface needed by SessionHandler.
type sessionService interface {
	StartSession(ctx context.Context, learnerID uuid.UUID, mode domain.SessionMode) (session.SessionPlan, error)
	SubmitAnswer(ctx context.Context, in session.SubmitInput) (session.SubmitResult, error)
}

// SessionHandler serves session and attempt REST endpoints.
type SessionHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "session")}
}

type startSessionRequest struct {
	Mode string `json:"mode"`
}

type sessionResponse struct {
	LearnerID string         `json:"learnerId"`
	Mode      string         `json:"mode"`
	Items     []itemResponse `json:"items"`
	Degraded  bool           `json:"degraded"`
	CreatedAt string         `json:"createdAt"`
}

// itemResponse is the learner-facing view of a verification item. Option
// grades and the correct index never leave the server.
type itemResponse struct {
	ID           string   `json:"id"`
	BlockID      string   `json:"blockId"`
	QuestionType string   `json:"questionType"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	Review       bool     `json:"review"`
}

type submitRequest struct {
	ItemID              string `json:"itemId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	ResponseTimeMs      int    `json:"responseTimeMs"`
}

type submitResponse struct {
	Verdict  string        `json:"verdict"`
	Grade    float64       `json:"grade"`
	XPDelta  int           `json:"xpDelta"`
	State    stateResponse `json:"state"`
	Replayed bool          `json:"replayed,omitempty"`
}

type stateResponse struct {
	BlockID            string  `json:"blockId"`
	Status             string  `json:"status"`
	EaseFactor         float64 `json:"easeFactor"`
	IntervalDays       int     `json:"intervalDays"`
	ConsecutiveCorrect int     `json:"consecutiveCorrect"`
	ConfidenceScore    float64 `json:"confidenceScore"`
	NextReviewAt       *string `json:"nextReviewAt,omitempty"`
}

// Start handles POST /v1/sessions.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req startSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	plan, err := h.svc.StartSession(r.Context(), learnerID, domain.SessionMode(req.Mode))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(plan))
}

// Submit handles POST /v1/attempts.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	result, err := h.svc.SubmitAnswer(r.Context(), session.SubmitInput{
		LearnerID:           learnerID,
		ItemID:              itemID,
		SelectedOptionIndex: req.SelectedOptionIndex,
		ResponseTimeMs:      req.ResponseTimeMs,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmitResponse(result))
}

func (h *SessionHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict, retry the request")
	case errors.Is(err, domain.ErrUpstream):
		h.log.ErrorContext(r.Context(), "upstream failure", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "upstream unavailable")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toSessionResponse(plan session.SessionPlan) sessionResponse {
	items := make([]itemResponse, 0, len(plan.Items))
	for _, pi := range plan.Items {
		opts := make([]string, 0, len(pi.Item.Options))
		for _, o := range pi.Item.Options {
			opts = append(opts, o.Text)
		}
		items = append(items, itemResponse{
			ID:           pi.Item.ID.String(),
			BlockID:      pi.BlockID,
			QuestionType: pi.Item.QuestionType.String(),
			Prompt:       pi.Item.Prompt,
			Options:      opts,
			Review:       pi.Review,
		})
	}
	return sessionResponse{
		LearnerID: plan.LearnerID.String(),
		Mode:      plan.Mode.String(),
		Items:     items,
		Degraded:  plan.Degraded,
		CreatedAt: plan.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toSubmitResponse(result session.SubmitResult) submitResponse {
	state := stateResponse{
		BlockID:            result.Delta.BlockID,
		Status:             result.Delta.NewStatus.String(),
		EaseFactor:         result.Delta.EaseFactor,
		IntervalDays:       result.Delta.IntervalDays,
		ConsecutiveCorrect: result.Delta.ConsecutiveCorrect,
		ConfidenceScore:    result.Delta.ConfidenceScore,
	}
	if result.Delta.NextReviewAt != nil {
		s := result.Delta.NextReviewAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		state.NextReviewAt = &s
	}
	return submitResponse{
		Verdict:  result.Verdict.String(),
		Grade:    result.Grade,
		XPDelta:  result.XPDelta,
		State:    state,
		Replayed: result.Replayed,
	}
}
