package api

import (
	"net/http"

	"github.com/paesprep/backend/internal/domain/progress"
)

type TopicProgressResponse struct {
	TopicID     string `json:"topic_id"`
	TopicName   string `json:"topic_name"`
	SubjectName string `json:"subject_name"`
	Correct     int    `json:"correct"`
	Total       int    `json:"total"`
	Accuracy    int    `json:"accuracy" example:"72"`
	Tier        string `json:"tier" example:"developing"`
}

type DashboardResponse struct {
	Summary progress.Summary        `json:"summary"`
	Topics  []TopicProgressResponse `json:"topics"`
}

// getDashboard returns the caller's aggregate progress.
// @Summary      Progress dashboard
// @Description  Totals over completed attempts, daily streak and per-topic mastery.
// @Tags         Progress
// @Produce      json
// @Success      200  {object}  DashboardResponse
// @Security     BearerAuth
// @Router       /me/dashboard [get]
func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Dashboard.Dashboard(r.Context(), userID)
	if h.handleError(w, err, "dashboard") {
		return
	}
	resp := DashboardResponse{Summary: d.Summary, Topics: make([]TopicProgressResponse, len(d.Topics))}
	for i, t := range d.Topics {
		resp.Topics[i] = TopicProgressResponse{
			TopicID:     t.TopicID,
			TopicName:   t.TopicName,
			SubjectName: t.SubjectName,
			Correct:     t.Correct,
			Total:       t.Total,
			Accuracy:    t.Accuracy,
			Tier:        string(t.Tier),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}
