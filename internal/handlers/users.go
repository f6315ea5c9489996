package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler — управление учётными записями.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger}
}

// CreateUserRequest — создание пользователя админом.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// UpdateUserRequest — частичное обновление.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// List — страница пользователей (только админ).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	skip, limit := parsePagination(r, defaultLimitUsers)

	users, total, err := h.UserService.List(r.Context(), actor, skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(users, total, skip, limit))
}

// Create — создание пользователя админом.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.UserService.Create(r.Context(), actor, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Me — профиль текущего пользователя.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

// UpdateMe — обновление собственного профиля.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	h.update(w, r, actor, actor.ID)
}

// Get — чтение пользователя: свой профиль или админ.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	user, err := h.UserService.GetForActor(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update — частичное обновление пользователя.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	h.update(w, r, actor, chi.URLParam(r, "id"))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, actor *model.User, id string) {
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.UserService.Update(r.Context(), actor, id, service.UserUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete — удаление пользователя (только админ, не самого себя).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.UserService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
