package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/config"
	"Niquel/internal/model"
	"Niquel/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GeoPointHandler — геоточки периодов и их изображения.
type GeoPointHandler struct {
	GeoPointService *service.GeoPointService
	UserService     *service.UserService
	Logger          *zap.SugaredLogger
	Config          *config.Config
}

// NewGeoPointHandler создаёт хендлер геоточек
func NewGeoPointHandler(geoPointService *service.GeoPointService, userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *GeoPointHandler {
	return &GeoPointHandler{GeoPointService: geoPointService, UserService: userService, Logger: logger, Config: cfg}
}

// CreateGeoPointRequest — тело создания геоточки.
type CreateGeoPointRequest struct {
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	GravityLevel int      `json:"gravity_level"`
	Description  *string  `json:"description"`
	Kilometer    *float64 `json:"kilometer"`
	Section      *string  `json:"section"`
}

// UpdateGeoPointRequest — частичное обновление геоточки.
type UpdateGeoPointRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	GravityLevel *int     `json:"gravity_level"`
	Description  *string  `json:"description"`
	Kilometer    *float64 `json:"kilometer"`
	Section      *string  `json:"section"`
}

// ListByPeriod — страница геоточек периода.
func (h *GeoPointHandler) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	skip, limit := parsePagination(r, defaultLimitGeoPoints)

	points, total, err := h.GeoPointService.ListByPeriod(r.Context(), actor, chi.URLParam(r, "id"), skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(points, total, skip, limit))
}

// Create — новая геоточка внутри периода.
func (h *GeoPointHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req CreateGeoPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	gp, err := h.GeoPointService.Create(r.Context(), actor, chi.URLParam(r, "id"), &model.GeoPoint{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		GravityLevel: req.GravityLevel,
		Description:  req.Description,
		Kilometer:    req.Kilometer,
		Section:      req.Section,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, gp)
}

// Get — геоточка вместе с изображениями.
func (h *GeoPointHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	gp, err := h.GeoPointService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, gp)
}

// Update — частичное обновление геоточки.
func (h *GeoPointHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req UpdateGeoPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	gp, err := h.GeoPointService.Update(r.Context(), actor, chi.URLParam(r, "id"), service.GeoPointUpdate{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		GravityLevel: req.GravityLevel,
		Description:  req.Description,
		Kilometer:    req.Kilometer,
		Section:      req.Section,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, gp)
}

// Delete — удаление геоточки с изображениями.
func (h *GeoPointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.GeoPointService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage принимает multipart/form-data с полем file (только image/*).
func (h *GeoPointHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	maxBody := h.Config.MaxUploadSizeBytes() + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid multipart form"))
		return
	}
	src, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.Logger, apperr.Validation("missing file"))
		return
	}
	defer src.Close()

	img, err := h.GeoPointService.UploadImage(r.Context(), actor, chi.URLParam(r, "id"), src, header.Filename)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// ListImages — изображения геоточки.
func (h *GeoPointHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	images, err := h.GeoPointService.ListImages(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if images == nil {
		images = []model.GeoPointImage{}
	}
	writeJSON(w, http.StatusOK, images)
}

// DeleteImage — удаление изображения геоточки.
func (h *GeoPointHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.GeoPointService.DeleteImage(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "imageID")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
