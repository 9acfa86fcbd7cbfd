// auth.go — обработчики аутентификации.
// GET /connect — вход по Basic-авторизации, выдаёт токен сессии
// GET /disconnect — отзыв токена сессии
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/filehub/internal/api/errors"
	"github.com/bigkaa/filehub/internal/api/middleware"
	"github.com/bigkaa/filehub/internal/service"
)

// AuthHandler — обработчик endpoints аутентификации.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler создаёт обработчик endpoints аутентификации.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// connectResponse — ответ на успешный вход.
type connectResponse struct {
	Token string `json:"token"`
}

// Connect — вход по заголовку Authorization: Basic base64(email:password).
// Успех — 200 с токеном сессии. Любой дефект учётных данных — 401,
// неотличимый от неверного пароля.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok || email == "" || password == "" {
		apierrors.Unauthorized(w)
		return
	}

	token, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, connectResponse{Token: token})
}

// Disconnect — отзыв текущего токена сессии. Успех — 204 без тела.
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.TokenHeader)

	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
