package handlers

import (
	"Niquel/internal/apperr"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// writeJSON сериализует ответ с заданным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError переводит доменную ошибку в HTTP-ответ {"detail": ...}.
// Неизвестные ошибки логируются и отдаются как 500 без деталей.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	if appErr, ok := apperr.As(err); ok {
		if appErr.Kind == apperr.KindAuthentication {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		writeJSON(w, appErr.HTTPStatus(), map[string]string{"detail": appErr.Msg})
		return
	}
	logger.Errorw("unhandled error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
}
