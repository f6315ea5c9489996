package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// ключ user_id в контексте запроса
const userIDKey contextKey = "user_id"

// Claims — полезная нагрузка токена доступа.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// BuildJWTString выпускает подписанный токен доступа для пользователя.
func BuildJWTString(userID, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок действия токена и возвращает user_id.
func ParseToken(tokenString, secret string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	return claims.UserID, nil
}

// WithAuth извлекает bearer-токен из заголовка Authorization и кладёт
// user_id в контекст. Невалидный или отсутствующий токен оставляет
// запрос анонимным; отказ решается на уровне хендлера.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil || userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext возвращает user_id аутентифицированного запроса.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
