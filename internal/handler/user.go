package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/repository"
	"rubberops-backend/internal/server/authctx"
)

type UserHandler struct {
	Repo repository.UserRepository
	Logs repository.ActivityLogRepository
}

func (h UserHandler) RegisterDirectoryRoutes(r chi.Router) {
	r.Get("/users/all-staff", h.allStaff)
}

func (h UserHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/users/{id}/rfid", h.assignRFID)
}

func (h UserHandler) allStaff(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, u := range items {
		resp = append(resp, map[string]any{
			"id":      u.ID,
			"name":    u.Name,
			"email":   u.Email,
			"phone":   u.Phone,
			"staffId": u.StaffID,
			"rfidUid": u.RFIDUid,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// assignRFID attaches a badge uid to a staff account, the maintenance action
// that links the hardware reader to attendance.
func (h UserHandler) assignRFID(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req struct {
		RFIDUid string `json:"rfidUid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.RFIDUid == "" {
		writeError(w, http.StatusBadRequest, "rfidUid is required")
		return
	}

	if err := h.Repo.AssignRFID(r.Context(), id, req.RFIDUid); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case repository.IsDuplicate(err):
			writeError(w, http.StatusConflict, "rfid uid already assigned")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	_, _ = h.Logs.Create(r.Context(), repository.CreateActivityLogInput{
		Title:     "RFID assigned",
		Message:   "badge " + req.RFIDUid + " attached to user " + strconv.FormatInt(id, 10),
		Actor:     user.Email,
		Type:      domain.LogInfo,
		Timestamp: time.Now(),
	})

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
