package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/server/authctx"
	"rubberops-backend/internal/service"
)

type TaskHandler struct {
	Service *service.TaskService
}

func (h TaskHandler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/tasks/my", h.myQueue)
	r.Post("/tasks/{id}/status", h.advance)
}

func (h TaskHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/tasks", h.assign)
	r.Get("/tasks/recent", h.recent)
}

func (h TaskHandler) assign(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Title          string   `json:"title"`
		AssignedTo     int64    `json:"assignedTo"`
		CustomerUserID int64    `json:"customerUserId"`
		PickupAddress  string   `json:"pickupAddress"`
		DropAddress    string   `json:"dropAddress"`
		PickupLat      *float64 `json:"pickupLat"`
		PickupLng      *float64 `json:"pickupLng"`
		Notes          string   `json:"notes"`
		ScheduledFor   *string  `json:"scheduledFor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var scheduledFor *time.Time
	if req.ScheduledFor != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ScheduledFor)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid scheduledFor")
			return
		}
		scheduledFor = &parsed
	}

	task, err := h.Service.Assign(r.Context(), service.AssignTaskInput{
		Title:          req.Title,
		AssignedTo:     req.AssignedTo,
		CustomerUserID: req.CustomerUserID,
		PickupAddress:  req.PickupAddress,
		DropAddress:    req.DropAddress,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		Notes:          req.Notes,
		ScheduledFor:   scheduledFor,
		CreatedBy:      user.ID,
		CreatorName:    user.Email,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskPayload(*task))
}

func (h TaskHandler) advance(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	task, err := h.Service.Advance(r.Context(), id, user.ID, user.Role, domain.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskPayload(*task))
}

func (h TaskHandler) myQueue(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	items, err := h.Service.ListByAssignee(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskPayloads(items))
}

func (h TaskHandler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Service.ListRecent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, taskPayloads(items))
}

func taskPayload(t domain.DeliveryTask) map[string]any {
	return map[string]any{
		"id":             t.ID,
		"title":          t.Title,
		"assignedTo":     t.AssignedTo,
		"assigneeName":   t.AssigneeName,
		"customerUserId": t.CustomerUserID,
		"customerName":   t.CustomerName,
		"pickupAddress":  t.PickupAddress,
		"dropAddress":    t.DropAddress,
		"pickupLat":      t.PickupLat,
		"pickupLng":      t.PickupLng,
		"status":         string(t.Status),
		"notes":          t.Notes,
		"scheduledFor":   timeOrNil(t.ScheduledFor),
		"createdAt":      t.CreatedAt.Format(time.RFC3339),
	}
}

func taskPayloads(items []domain.DeliveryTask) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, t := range items {
		out = append(out, taskPayload(t))
	}
	return out
}
