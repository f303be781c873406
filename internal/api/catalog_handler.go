package api

import (
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type SubjectResponse struct {
	ID   string `json:"id" example:"mat-m1"`
	Name string `json:"name" example:"Matemática M1"`
}

type TopicResponse struct {
	ID        string `json:"id" example:"algebra"`
	SubjectID string `json:"subject_id" example:"mat-m1"`
	Name      string `json:"name" example:"Álgebra y funciones"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listSubjects lists every subject of the question bank.
// @Summary      List subjects
// @Tags         Catalog
// @Produce      json
// @Success      200  {array}   SubjectResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /subjects [get]
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.svc.Bank.Subjects(r.Context())
	if h.handleError(w, err, "subjects") {
		return
	}
	resp := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		resp[i] = SubjectResponse{ID: s.ID, Name: s.Name}
	}
	respondJSON(w, http.StatusOK, resp)
}

// listTopics lists the topics of one subject.
// @Summary      List topics of a subject
// @Tags         Catalog
// @Produce      json
// @Param        subjectID  path      string  true  "Subject ID"
// @Success      200        {array}   TopicResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /subjects/{subjectID}/topics [get]
func (h *Handler) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.Bank.Topics(r.Context(), r.PathValue("subjectID"))
	if h.handleError(w, err, "subject") {
		return
	}
	resp := make([]TopicResponse, len(topics))
	for i, t := range topics {
		resp[i] = TopicResponse{ID: t.ID, SubjectID: t.SubjectID, Name: t.Name}
	}
	respondJSON(w, http.StatusOK, resp)
}
