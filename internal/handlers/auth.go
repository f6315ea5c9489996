package handlers

import (
	"Niquel/internal/apperr"
	"Niquel/internal/config"
	"Niquel/internal/middleware"
	"Niquel/internal/model"
	"Niquel/internal/service"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthHandler обрабатывает выдачу токенов и самостоятельную регистрацию.
type AuthHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewAuthHandler создаёт хендлер аутентификации
func NewAuthHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{UserService: userService, Logger: logger, Config: cfg}
}

// TokenResponse — выданный токен доступа.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest — тело самостоятельной регистрации.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterResponse — созданный пользователь вместе с токеном.
type RegisterResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

// Token выдаёт токен по форме username/password (OAuth2 password flow).
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid form body"))
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.UserService.Authenticate(r.Context(), email, password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	token, err := h.buildToken(user.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Register — самостоятельная регистрация; новый пользователь получает
// роль regular и сразу токен.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password, req.Name, model.RoleRegular)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	token, err := h.buildToken(user.ID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{User: user, AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) buildToken(userID string) (string, error) {
	ttl := time.Duration(h.Config.TokenTTLMinutes) * time.Minute
	return middleware.BuildJWTString(userID, h.Config.AuthSecret, ttl)
}
