// internal/api/routes.go
package api

import (
	"net/http"
)

// RegisterRoutes mounts every endpoint on mux. Routes that act for a user
// are wrapped with authn. The question bank is loaded with cmd/seed, never
// over HTTP.
func RegisterRoutes(mux *http.ServeMux, h *Handler, authn func(http.Handler) http.Handler) {
	protected := func(fn http.HandlerFunc) http.Handler { return authn(fn) }

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog
	mux.HandleFunc("GET /subjects", h.listSubjects)
	mux.HandleFunc("GET /subjects/{subjectID}/topics", h.listTopics)

	// Exams
	mux.HandleFunc("GET /exams", h.listExams)
	mux.Handle("POST /exams", protected(h.createExam))
	mux.HandleFunc("GET /exams/{examID}", h.getExam)
	mux.Handle("DELETE /exams/{examID}", protected(h.deactivateExam))

	// Attempts
	mux.Handle("POST /exams/{examID}/attempts", protected(h.startAttempt))
	mux.Handle("GET /attempts/{attemptID}", protected(h.getAttempt))
	mux.Handle("PUT /attempts/{attemptID}/answers/{questionID}", protected(h.selectAnswer))
	mux.Handle("POST /attempts/{attemptID}/finish", protected(h.finishAttempt))
	mux.Handle("GET /attempts/{attemptID}/results", protected(h.attemptResults))
	mux.Handle("GET /me/attempts", protected(h.listMyAttempts))

	// Progress
	mux.Handle("GET /me/dashboard", protected(h.getDashboard))

	// Explanations
	mux.Handle("POST /explanations", protected(h.explain))
	mux.Handle("POST /attempts/{attemptID}/explanations", protected(h.explainMissed))

	// Payments
	mux.Handle("POST /payments", protected(h.createPayment))
	mux.HandleFunc("GET /payments/confirm", h.confirmPayment)
	mux.HandleFunc("POST /payments/confirm", h.confirmPayment)
}
