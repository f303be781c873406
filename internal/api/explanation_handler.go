package api

import (
	"net/http"
	"time"

	"github.com/paesprep/backend/internal/domain/explanation"
)

type ExplanationResponse struct {
	ID             string    `json:"id"`
	QuestionID     string    `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	Explanation    string    `json:"explanation"`
	Model          string    `json:"model" example:"gpt-4o-mini"`
	CreatedAt      time.Time `json:"created_at"`
}

type MissedExplanationResponse struct {
	QuestionID  string               `json:"question_id"`
	Explanation *ExplanationResponse `json:"explanation,omitempty"`
	Skipped     bool                 `json:"skipped"`
	Error       string               `json:"error,omitempty"`
}

func toExplanationResponse(e *explanation.Explanation) *ExplanationResponse {
	return &ExplanationResponse{
		ID:             e.ID,
		QuestionID:     e.QuestionID,
		SelectedAnswer: e.SelectedAnswer,
		Explanation:    e.Text,
		Model:          e.Model,
		CreatedAt:      e.CreatedAt,
	}
}

// explain asks the model why a selected answer is wrong.
// @Summary      Explain a wrong answer
// @Tags         Explanations
// @Accept       json
// @Produce      json
// @Param        body  body      explanation.Request  true  "Question and wrong answer"
// @Success      200   {object}  ExplanationResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse  "daily limit reached"
// @Failure      503   {object}  ErrorResponse  "model unavailable"
// @Security     BearerAuth
// @Router       /explanations [post]
func (h *Handler) explain(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req explanation.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.svc.Explanations.Explain(r.Context(), userID, req)
	if h.handleError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toExplanationResponse(e))
}

// explainMissed explains every wrong answer of a finished attempt, as far
// as the caller's quota allows.
// @Summary      Explain all wrong answers of an attempt
// @Tags         Explanations
// @Produce      json
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {array}   MissedExplanationResponse
// @Failure      409        {object}  ErrorResponse  "attempt still in progress"
// @Security     BearerAuth
// @Router       /attempts/{attemptID}/explanations [post]
func (h *Handler) explainMissed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	results, err := h.svc.Explanations.ExplainMissed(r.Context(), userID, r.PathValue("attemptID"))
	if h.handleError(w, err, "attempt") {
		return
	}
	resp := make([]MissedExplanationResponse, len(results))
	for i, res := range results {
		resp[i] = MissedExplanationResponse{QuestionID: res.QuestionID, Skipped: res.Skipped}
		switch {
		case res.Explanation != nil:
			resp[i].Explanation = toExplanationResponse(res.Explanation)
		case res.Err != nil:
			h.logger.Warn("explanation failed", "question_id", res.QuestionID, "error", res.Err)
			resp[i].Error = "explanation unavailable"
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
