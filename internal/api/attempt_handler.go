package api

import (
	"net/http"
	"time"

	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/scoring"
	"github.com/paesprep/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type AttemptQuestionResponse struct {
	ID       string            `json:"id"`
	TopicID  string            `json:"topic_id"`
	Content  string            `json:"content"`
	ImageURL *string           `json:"image_url,omitempty"`
	Options  []question.Option `json:"options"`
	Selected *string           `json:"selected"`
}

type AttemptResponse struct {
	ID               string                    `json:"id"`
	ExamID           string                    `json:"exam_id"`
	Status           string                    `json:"status" example:"in_progress"`
	StartedAt        time.Time                 `json:"started_at"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
	RemainingSeconds int                       `json:"remaining_seconds" example:"3540"`
	Result           *scoring.Result           `json:"result,omitempty"`
	Questions        []AttemptQuestionResponse `json:"questions"`
}

type SelectAnswerRequest struct {
	// Selected is the option value; null clears the selection.
	Selected *string `json:"selected"`
}

type FinishResponse struct {
	ID          string         `json:"id"`
	Status      string         `json:"status" example:"completed"`
	CompletedAt *time.Time     `json:"completed_at"`
	Result      scoring.Result `json:"result"`
}

type QuestionResultResponse struct {
	ID            string   `json:"id"`
	TopicID       string   `json:"topic_id"`
	Content       string   `json:"content"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Difficulty    string   `json:"difficulty"`
	CorrectAnswer string   `json:"correct_answer"`
	Distractors   []string `json:"distractors"`
	Explanation   string   `json:"explanation"`
	Selected      *string  `json:"selected"`
	IsCorrect     bool     `json:"is_correct"`
	Omitted       bool     `json:"omitted"`
}

type ResultsResponse struct {
	AttemptID   string                   `json:"attempt_id"`
	ExamID      string                   `json:"exam_id"`
	ExamTitle   string                   `json:"exam_title"`
	CompletedAt *time.Time               `json:"completed_at"`
	Result      scoring.Result           `json:"result"`
	Questions   []QuestionResultResponse `json:"questions"`
}

type AttemptSummaryResponse struct {
	ID            string          `json:"id"`
	ExamID        string          `json:"exam_id"`
	ExamTitle     string          `json:"exam_title"`
	Status        string          `json:"status"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	QuestionCount int             `json:"question_count"`
	Result        *scoring.Result `json:"result,omitempty"`
}

func toAttemptResponse(v attempt.View) AttemptResponse {
	resp := AttemptResponse{
		ID:               v.Attempt.ID,
		ExamID:           v.Attempt.ExamID,
		Status:           string(v.Attempt.Status),
		StartedAt:        v.Attempt.StartedAt,
		CompletedAt:      v.Attempt.CompletedAt,
		RemainingSeconds: v.Remaining,
		Result:           v.Attempt.Result,
		Questions:        make([]AttemptQuestionResponse, len(v.Questions)),
	}
	for i, q := range v.Questions {
		resp.Questions[i] = AttemptQuestionResponse{
			ID:       q.ID,
			TopicID:  q.TopicID,
			Content:  q.Content,
			ImageURL: q.ImageURL,
			Options:  q.Options,
			Selected: q.Selected,
		}
	}
	return resp
}

func toResultsResponse(res *service.Results) ResultsResponse {
	resp := ResultsResponse{
		AttemptID:   res.Attempt.ID,
		ExamID:      res.Attempt.ExamID,
		ExamTitle:   res.ExamTitle,
		CompletedAt: res.Attempt.CompletedAt,
		Questions:   make([]QuestionResultResponse, len(res.Questions)),
	}
	if res.Attempt.Result != nil {
		resp.Result = *res.Attempt.Result
	}
	for i, qr := range res.Questions {
		q := qr.Question
		resp.Questions[i] = QuestionResultResponse{
			ID:            q.ID,
			TopicID:       q.TopicID,
			Content:       q.Content,
			ImageURL:      q.ImageURL,
			Difficulty:    string(q.Difficulty),
			CorrectAnswer: q.CorrectAnswer,
			Distractors:   q.Distractors,
			Explanation:   q.Explanation,
			Selected:      qr.Selected,
			IsCorrect:     qr.IsCorrect,
			Omitted:       qr.Omitted(),
		}
	}
	return resp
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startAttempt opens a timed attempt on an exam.
// @Summary      Start an attempt
// @Tags         Attempts
// @Produce      json
// @Param        examID  path      string  true  "Exam ID"
// @Success      201     {object}  AttemptResponse
// @Failure      400     {object}  ErrorResponse  "exam inactive"
// @Failure      404     {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /exams/{examID}/attempts [post]
func (h *Handler) startAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Attempts.Start(r.Context(), userID, r.PathValue("examID"))
	if h.handleError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusCreated, toAttemptResponse(v))
}

// getAttempt returns the attempt with its remaining time and selections.
// @Summary      Get an attempt
// @Tags         Attempts
// @Produce      json
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {object}  AttemptResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /attempts/{attemptID} [get]
func (h *Handler) getAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Attempts.Get(r.Context(), userID, r.PathValue("attemptID"))
	if h.handleError(w, err, "attempt") {
		return
	}
	respondJSON(w, http.StatusOK, toAttemptResponse(v))
}

// selectAnswer records, replaces or clears the selection for one question.
// @Summary      Select an answer
// @Tags         Attempts
// @Accept       json
// @Param        attemptID   path  string               true  "Attempt ID"
// @Param        questionID  path  string               true  "Question ID"
// @Param        body        body  SelectAnswerRequest  true  "Selection"
// @Success      204
// @Failure      400  {object}  ErrorResponse  "question not in this attempt"
// @Failure      409  {object}  ErrorResponse  "attempt already finalized"
// @Security     BearerAuth
// @Router       /attempts/{attemptID}/answers/{questionID} [put]
func (h *Handler) selectAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req SelectAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.svc.Attempts.SelectAnswer(r.Context(), userID, r.PathValue("attemptID"), r.PathValue("questionID"), req.Selected)
	if h.handleError(w, err, "attempt") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// finishAttempt finalizes and scores the attempt. Calling it again returns
// the same result.
// @Summary      Finish an attempt
// @Tags         Attempts
// @Produce      json
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {object}  FinishResponse
// @Failure      404        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /attempts/{attemptID}/finish [post]
func (h *Handler) finishAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Attempts.Finish(r.Context(), userID, r.PathValue("attemptID"))
	if h.handleError(w, err, "attempt") {
		return
	}
	resp := FinishResponse{ID: a.ID, Status: string(a.Status), CompletedAt: a.CompletedAt}
	if a.Result != nil {
		resp.Result = *a.Result
	}
	respondJSON(w, http.StatusOK, resp)
}

// attemptResults returns the per-question breakdown of a finished attempt.
// @Summary      Attempt results
// @Tags         Attempts
// @Produce      json
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {object}  ResultsResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      409        {object}  ErrorResponse  "attempt still in progress"
// @Security     BearerAuth
// @Router       /attempts/{attemptID}/results [get]
func (h *Handler) attemptResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Attempts.Results(r.Context(), userID, r.PathValue("attemptID"))
	if h.handleError(w, err, "attempt") {
		return
	}
	respondJSON(w, http.StatusOK, toResultsResponse(res))
}

// listMyAttempts lists the caller's attempts, newest first.
// @Summary      Attempt history
// @Tags         Attempts
// @Produce      json
// @Success      200  {array}  AttemptSummaryResponse
// @Security     BearerAuth
// @Router       /me/attempts [get]
func (h *Handler) listMyAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	history, err := h.svc.Attempts.History(r.Context(), userID)
	if h.handleError(w, err, "attempts") {
		return
	}
	resp := make([]AttemptSummaryResponse, len(history))
	for i, s := range history {
		resp[i] = AttemptSummaryResponse{
			ID:            s.Attempt.ID,
			ExamID:        s.Attempt.ExamID,
			ExamTitle:     s.ExamTitle,
			Status:        string(s.Attempt.Status),
			StartedAt:     s.Attempt.StartedAt,
			CompletedAt:   s.Attempt.CompletedAt,
			QuestionCount: s.QuestionCount,
			Result:        s.Attempt.Result,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
