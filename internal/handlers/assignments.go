package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssignmentHandler — назначения пользователей на проекты.
type AssignmentHandler struct {
	AssignmentService *service.AssignmentService
	UserService       *service.UserService
	Logger            *zap.SugaredLogger
}

// NewAssignmentHandler создаёт хендлер назначений
func NewAssignmentHandler(assignmentService *service.AssignmentService, userService *service.UserService, logger *zap.SugaredLogger) *AssignmentHandler {
	return &AssignmentHandler{AssignmentService: assignmentService, UserService: userService, Logger: logger}
}

// CreateAssignmentRequest — тело создания назначения.
type CreateAssignmentRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpdateAssignmentRequest — смена роли.
type UpdateAssignmentRequest struct {
	Role string `json:"role"`
}

// BatchAssignRequest — массовое назначение одной роли списку пользователей.
type BatchAssignRequest struct {
	UserIDs []string `json:"user_ids"`
	Role    string   `json:"role"`
}

// ListByProject — страница назначений проекта; фильтр role.
func (h *AssignmentHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	skip, limit := parsePagination(r, defaultLimitAssignments)

	assignments, total, err := h.AssignmentService.ListByProject(
		r.Context(), actor, chi.URLParam(r, "id"), r.URL.Query().Get("role"), skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(assignments, total, skip, limit))
}

// Create — новое назначение на проект.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	a, err := h.AssignmentService.Create(r.Context(), actor, chi.URLParam(r, "id"), req.UserID, req.Role)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// BatchAssign — массовое назначение; неизвестные user_id пропускаются.
func (h *AssignmentHandler) BatchAssign(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req BatchAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	assignments, err := h.AssignmentService.BatchAssign(r.Context(), actor, chi.URLParam(r, "id"), req.Role, req.UserIDs)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// Get — назначение с данными пользователя.
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	a, err := h.AssignmentService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Update — смена роли назначения.
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	a, err := h.AssignmentService.UpdateRole(r.Context(), actor, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Delete — снятие назначения.
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.AssignmentService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
