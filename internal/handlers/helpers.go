package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/middleware"
	"Niquel/internal/model"
	"Niquel/internal/service"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// currentUser возвращает аутентифицированного активного пользователя
// запроса. Отсутствие токена, неизвестный или отключённый пользователь —
// ошибка аутентификации.
func currentUser(r *http.Request, users *service.UserService) (*model.User, error) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, apperr.Authentication("not authenticated")
	}
	user, err := users.GetByID(r.Context(), userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("could not validate credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Authentication("inactive user")
	}
	return user, nil
}
