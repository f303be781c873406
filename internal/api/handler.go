// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/paesprep/backend/internal/auth"
	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/explainer"
	"github.com/paesprep/backend/internal/payment"
	"github.com/paesprep/backend/internal/service"
	"github.com/paesprep/backend/internal/store"
)

const maxBodyBytes = 1 << 20

// Services groups the application services the handlers call.
type Services struct {
	Bank         *service.BankService
	Exams        *service.ExamService
	Attempts     *service.AttemptService
	Dashboard    *service.DashboardService
	Explanations *service.ExplanationService
	Payments     *service.PaymentService
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	svc    Services
	appURL string // front-end base URL for payment redirects
	logger *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(svc Services, appURL string, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		appURL: appURL,
		logger: logger,
	}
}

type ErrorResponse struct {
	Error string `json:"error" example:"question_count: must be between 1 and 200"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads the request body into v. It writes a 400 and returns
// false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

type validator interface {
	Validate() error
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// userID returns the authenticated caller. Routes behind auth.Middleware
// always have one.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := auth.UserID(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return id, true
}

// handleError maps service errors to HTTP responses. Returns true if an
// error was handled (caller should return). Data access failures get a
// generic message; the detail only goes to the log.
func (h *Handler) handleError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	var (
		rateLimited *service.RateLimitError
		explainErr  *explainer.ExplainError
		gatewayErr  *payment.GatewayError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, exam.ErrEmptyPool),
		errors.Is(err, exam.ErrInvalidInput),
		errors.Is(err, attempt.ErrInvalidQuestion):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, exam.ErrNotOwner):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, attempt.ErrAlreadyFinalized),
		errors.Is(err, attempt.ErrNotFinished):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &rateLimited):
		retry := int(time.Until(rateLimited.Reset).Seconds())
		w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
		respondError(w, http.StatusTooManyRequests, "daily explanation limit reached")
	case errors.As(err, &explainErr):
		h.logger.Warn("explanation model failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "explanation service unavailable, try again later")
	case errors.As(err, &gatewayErr):
		h.logger.Error("payment gateway error", "error", err)
		respondError(w, http.StatusBadGateway, "payment gateway error")
	default:
		h.logger.Error("request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
