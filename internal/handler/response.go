package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"rubberops-backend/internal/repository"
	"rubberops-backend/internal/service"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if status >= 400 {
		writeRawJSON(w, status, apiResponse{
			Status:  "error",
			Message: "",
			Data:    payload,
			Error: &apiError{
				Code:   status,
				Status: http.StatusText(status),
			},
		})
		return
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "ok",
		Message: "",
		Data:    payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Data:    nil,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation 400, not-found 404, conflicts 409.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidBillInput),
		errors.Is(err, service.ErrInvalidTaskInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoOpenSession),
		errors.Is(err, service.ErrUnknownBadge):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotAssignee):
		writeError(w, http.StatusForbidden, err.Error())
	case repository.IsDuplicate(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
