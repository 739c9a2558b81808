package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"rubberops-backend/internal/repository"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pendingBills":      s.PendingBills,
		"verifiedBills":     s.VerifiedBills,
		"todayBilledAmount": s.TodayBilledAmount,
		"presentStaffToday": s.PresentStaffToday,
		"openTasks":         s.OpenTasks,
	})
}
