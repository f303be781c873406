package api

import (
	"net/http"
	"time"

	"github.com/paesprep/backend/internal/domain/exam"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateExamRequest struct {
	Title           string   `json:"title" example:"Ensayo álgebra"`
	DurationMinutes int      `json:"duration_minutes" example:"60"`
	SubjectIDs      []string `json:"subject_ids,omitempty"`
	TopicIDs        []string `json:"topic_ids,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty" example:"hard"`
	QuestionCount   int      `json:"question_count" example:"20"`
}

type ExamResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" example:"Ensayo álgebra"`
	Kind            string    `json:"kind" example:"custom"`
	DurationMinutes int       `json:"duration_minutes" example:"60"`
	Active          bool      `json:"active"`
	CreatedBy       *string   `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	QuestionCount   int       `json:"question_count" example:"20"`
	QuestionIDs     []string  `json:"question_ids,omitempty"`
}

func toExamResponse(e *exam.Exam) ExamResponse {
	count := e.QuestionCount
	if len(e.QuestionIDs) > 0 {
		count = len(e.QuestionIDs)
	}
	return ExamResponse{
		ID:              e.ID,
		Title:           e.Title,
		Kind:            string(e.Kind),
		DurationMinutes: e.DurationMinutes,
		Active:          e.Active,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		QuestionCount:   count,
		QuestionIDs:     e.QuestionIDs,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listExams lists exams open for new attempts.
// @Summary      List active exams
// @Tags         Exams
// @Produce      json
// @Success      200  {array}   ExamResponse
// @Router       /exams [get]
func (h *Handler) listExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.svc.Exams.List(r.Context())
	if h.handleError(w, err, "exams") {
		return
	}
	resp := make([]ExamResponse, len(exams))
	for i := range exams {
		resp[i] = toExamResponse(&exams[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// createExam composes a custom exam from the bank.
// @Summary      Compose a custom exam
// @Description  Samples question_count questions matching the filters. Topics take precedence over subjects; no filter means the whole bank. Fewer matches than requested is not an error.
// @Tags         Exams
// @Accept       json
// @Produce      json
// @Param        body  body      CreateExamRequest  true  "Composition criteria"
// @Success      201   {object}  ExamResponse
// @Failure      400   {object}  ErrorResponse  "invalid criteria or no matching questions"
// @Security     BearerAuth
// @Router       /exams [post]
func (h *Handler) createExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req CreateExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = exam.DifficultyAny
	}

	e, err := h.svc.Exams.Compose(r.Context(), userID, exam.Criteria{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		SubjectIDs:      req.SubjectIDs,
		TopicIDs:        req.TopicIDs,
		Difficulty:      req.Difficulty,
		QuestionCount:   req.QuestionCount,
	})
	if h.handleError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusCreated, toExamResponse(e))
}

// getExam returns one exam with its question ids.
// @Summary      Get an exam
// @Tags         Exams
// @Produce      json
// @Param        examID  path      string  true  "Exam ID"
// @Success      200     {object}  ExamResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /exams/{examID} [get]
func (h *Handler) getExam(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Exams.Get(r.Context(), r.PathValue("examID"))
	if h.handleError(w, err, "exam") {
		return
	}
	respondJSON(w, http.StatusOK, toExamResponse(e))
}

// deactivateExam hides one of the caller's custom exams.
// @Summary      Deactivate an exam
// @Tags         Exams
// @Param        examID  path  string  true  "Exam ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /exams/{examID} [delete]
func (h *Handler) deactivateExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	err := h.svc.Exams.Deactivate(r.Context(), userID, r.PathValue("examID"))
	if h.handleError(w, err, "exam") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
