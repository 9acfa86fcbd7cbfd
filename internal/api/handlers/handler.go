// handler.go — сборка всех доменных handlers и маршрутизация chi.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/filehub/internal/api/middleware"
)

// APIHandler — единый обработчик всех endpoints FileHub.
type APIHandler struct {
	auth   *AuthHandler
	users  *UsersHandler
	files  *FilesHandler
	system *SystemHandler
	health *HealthHandler
	authMW *middleware.Auth
}

// NewAPIHandler создаёт единый handler для всех endpoints.
func NewAPIHandler(
	auth *AuthHandler,
	users *UsersHandler,
	files *FilesHandler,
	system *SystemHandler,
	health *HealthHandler,
	authMW *middleware.Auth,
) *APIHandler {
	return &APIHandler{
		auth:   auth,
		users:  users,
		files:  files,
		system: system,
		health: health,
		authMW: authMW,
	}
}

// Routes собирает маршруты API.
//
// Аутентификация:
//   - Require — endpoint доступен только с действительным токеном
//   - Optional — выдача содержимого публичных записей работает анонимно
func (h *APIHandler) Routes(r chi.Router) {
	// Аутентификация
	r.Get("/connect", h.auth.Connect)
	r.With(h.authMW.Require).Get("/disconnect", h.auth.Disconnect)

	// Пользователи
	r.Post("/users", h.users.Create)
	r.With(h.authMW.Require).Get("/users/me", h.users.Me)

	// Статус и статистика
	r.Get("/status", h.system.Status)
	r.Get("/stats", h.system.Stats)

	// Файловый реестр
	r.Route("/files", func(r chi.Router) {
		r.With(h.authMW.Require).Post("/", h.files.Upload)
		r.With(h.authMW.Require).Get("/", h.files.List)
		r.With(h.authMW.Optional).Get("/{id}", h.files.Show)
		r.With(h.authMW.Require).Put("/{id}/publish", h.files.Publish)
		r.With(h.authMW.Require).Put("/{id}/unpublish", h.files.Unpublish)
		r.With(h.authMW.Optional).Get("/{id}/data", h.files.Data)
	})

	// Health и метрики
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)
	r.Get("/metrics", h.health.GetMetrics)
}

// Handler возвращает http.Handler с маршрутами API.
func (h *APIHandler) Handler() http.Handler {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}
