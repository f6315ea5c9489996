package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/config"
	"Niquel/internal/repo"
	"Niquel/internal/service"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler — загрузка, выдача и скачивание файлов.
type FileHandler struct {
	FileService *service.FileService
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewFileHandler создаёт хендлер файлов
func NewFileHandler(fileService *service.FileService, userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{FileService: fileService, UserService: userService, Logger: logger, Config: cfg}
}

// UpdateFileRequest — обновление метаданных файла.
type UpdateFileRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

// List — страница файлов; фильтры project_id/period_id/category.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	skip, limit := parsePagination(r, defaultLimitFiles)
	q := r.URL.Query()
	filter := repo.FileFilter{
		ProjectID: q.Get("project_id"),
		PeriodID:  q.Get("period_id"),
		Category:  q.Get("category"),
	}

	files, total, err := h.FileService.List(r.Context(), actor, filter, skip, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(files, total, skip, limit))
}

// Upload принимает multipart/form-data: file, category и project_id
// или period_id. Лимит тела запроса — лимит загрузки плюс мегабайт
// на служебные поля.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	file, err := h.FileService.Upload(
		r.Context(), actor, src,
		header.Filename,
		r.FormValue("category"),
		r.FormValue("project_id"),
		r.FormValue("period_id"),
	)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

// Get — метаданные файла.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	file, err := h.FileService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// Download отдаёт содержимое файла как attachment.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	file, err := h.FileService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	f, err := os.Open(file.Path)
	if err != nil {
		// запись есть, содержимого на диске нет
		writeError(w, h.Logger, apperr.NotFound("file content not found"))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	http.ServeContent(w, r, file.Name, file.UploadDate, f)
}

// Update — обновление метаданных файла.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	file, err := h.FileService.UpdateMeta(r.Context(), actor, chi.URLParam(r, "id"), service.FileUpdate{
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// Delete — удаление файла с диска и из БД.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r, h.UserService)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.FileService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
