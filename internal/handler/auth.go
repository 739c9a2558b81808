package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/server/authctx"
	"rubberops-backend/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/change-password", h.changePassword)
}

func (h AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Phone    string  `json:"phone"`
		StaffID  *string `json:"staffId"`
		Role     string  `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
		Phone:    req.Phone,
		StaffID:  req.StaffID,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Login(r.Context(), service.LoginInput{
		Email:    strings.ToLower(req.Email),
		Password: req.Password,
	})
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Refresh(r.Context(), service.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeAuthResponse(w, res)
}

func (h AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.NewPassword == "" || req.CurrentPassword == "" {
		writeError(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}
	if err := h.Service.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeAuthResponse(w http.ResponseWriter, res *service.AuthResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
		"user": map[string]any{
			"id":      strconv.FormatInt(res.User.ID, 10),
			"name":    res.User.Name,
			"email":   res.User.Email,
			"role":    string(res.User.Role),
			"phone":   res.User.Phone,
			"staffId": res.User.StaffID,
		},
	})
}
