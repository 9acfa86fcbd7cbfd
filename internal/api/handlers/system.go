// system.go — обработчики статуса и статистики.
// GET /status — доступность зависимостей (redis, db)
// GET /stats — счётчики пользователей и записей
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/filehub/internal/service"
)

// SystemHandler — обработчик системных endpoints.
type SystemHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

// NewSystemHandler создаёт обработчик системных endpoints.
func NewSystemHandler(stats *service.StatsService, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{
		stats:  stats,
		logger: logger.With(slog.String("component", "system_handler")),
	}
}

// Status — доступность зависимостей. Всегда 200; недоступность
// зависимости отражается значением false в теле.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.Status(r.Context()))
}

// Stats — количество пользователей и записей реестра.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
