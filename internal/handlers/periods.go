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

// PeriodHandler — периоды наблюдений проекта.
type PeriodHandler struct {
	PeriodService *service.PeriodService
	UserService   *service.UserService
	Logger        *zap.SugaredLogger
}

// NewPeriodHandler создаёт хендлер периодов
func NewPeriodHandler(periodService *service.PeriodService, userService *service.UserService, logger *zap.SugaredLogger) *PeriodHandler {
	return &PeriodHandler{PeriodService: periodService, UserService: userService, Logger: logger}
}

// CreatePeriodRequest — тело создания периода.
type CreatePeriodRequest struct {
	Name      string   `json:"name"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Volume    *float64 `json:"volume"`
	StartTime *string  `json:"start_time"`
	Width     *float64 `json:"width"`
	MaxDepth  *float64 `json:"max_depth"`
	Notes     *string  `json:"notes"`
}

// UpdatePeriodRequest — частичное обновление периода.
type UpdatePeriodRequest struct {
	Name      *string  `json:"name"`
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
	Volume    *float64 `json:"volume"`
	StartTime *string  `json:"start_time"`
	Width     *float64 `json:"width"`
	MaxDepth  *float64 `json:"max_depth"`
	Notes     *string  `json:"notes"`
	KmlFileID *string  `json:"kml_file_id"`
}

// ListByProject — страница периодов проекта.
func (h *PeriodHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	skip, limit := parsePagination(r, defaultLimitPeriods)

	periods, total, err := h.PeriodService.ListByProject(r.Context(), actor, chi.URLParam(r, "id"), skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(periods, total, skip, limit))
}

// Create — новый период внутри проекта.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid start_date"))
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid end_date"))
		return
	}

	period, err := h.PeriodService.Create(r.Context(), actor, chi.URLParam(r, "id"), &model.Period{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Volume:    req.Volume,
		StartTime: req.StartTime,
		Width:     req.Width,
		MaxDepth:  req.MaxDepth,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, period)
}

// Get — период с количеством файлов.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	period, err := h.PeriodService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

// Update — частичное обновление периода.
func (h *PeriodHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req UpdatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	upd := service.PeriodUpdate{
		Name:      req.Name,
		Volume:    req.Volume,
		StartTime: req.StartTime,
		Width:     req.Width,
		MaxDepth:  req.MaxDepth,
		Notes:     req.Notes,
		KmlFileID: req.KmlFileID,
	}
	if req.StartDate != nil {
		t, perr := parseDate(*req.StartDate)
		if perr != nil {
			writeError(w, h.Logger, apperr.Validation("invalid start_date"))
			return
		}
		upd.StartDate = &t
	}
	if req.EndDate != nil {
		t, perr := parseDate(*req.EndDate)
		if perr != nil {
			writeError(w, h.Logger, apperr.Validation("invalid end_date"))
			return
		}
		upd.EndDate = &t
	}

	period, err := h.PeriodService.Update(r.Context(), actor, chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

// Delete — удаление периода с каскадом файлов и геоточек.
func (h *PeriodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.PeriodService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
