package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/service"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProjectHandler — CRUD проектов.
type ProjectHandler struct {
	ProjectService *service.ProjectService
	UserService    *service.UserService
	Logger         *zap.SugaredLogger
}

// NewProjectHandler создаёт хендлер проектов
func NewProjectHandler(projectService *service.ProjectService, userService *service.UserService, logger *zap.SugaredLogger) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService, UserService: userService, Logger: logger}
}

// CreateProjectRequest — тело создания проекта.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
}

// UpdateProjectRequest — частичное обновление проекта.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	Status      *string `json:"status"`
	StartDate   *string `json:"start_date"`
}

// parseDate принимает дату в формате YYYY-MM-DD или RFC3339.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// List — страница проектов, видимых пользователю; фильтры type/status.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	skip, limit := parsePagination(r, defaultLimitProjects)
	q := r.URL.Query()

	projects, total, err := h.ProjectService.List(r.Context(), actor, q.Get("type"), q.Get("status"), skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(projects, total, skip, limit))
}

// Create — новый проект; создатель становится владельцем.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid start_date"))
		return
	}

	project, err := h.ProjectService.Create(r.Context(), actor, &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		Status:      req.Status,
		StartDate:   startDate,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Get — проект со счётчиками детей.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	project, err := h.ProjectService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Update — частичное обновление проекта.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	upd := service.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		Status:      req.Status,
	}
	if req.StartDate != nil {
		t, perr := parseDate(*req.StartDate)
		if perr != nil {
			writeError(w, h.Logger, apperr.Validation("invalid start_date"))
			return
		}
		upd.StartDate = &t
	}

	project, err := h.ProjectService.Update(r.Context(), actor, chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete — удаление проекта с каскадом.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.ProjectService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
