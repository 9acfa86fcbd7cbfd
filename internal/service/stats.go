// stats.go — сервис статуса зависимостей и счётчиков реестра.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/filehub/internal/repository"
	"github.com/bigkaa/filehub/internal/session"
)

// Pinger — проверка живости подключения к базе данных.
// Реализуется pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status — доступность зависимостей сервиса.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats — счётчики реестра.
type Stats struct {
	Users int `json:"users"`
	Files int `json:"files"`
}

// StatsService — сервис статуса и статистики.
type StatsService struct {
	users  repository.UserRepository
	files  repository.FileRepository
	store  session.Store
	db     Pinger
	logger *slog.Logger
}

// NewStatsService создаёт сервис статуса и статистики.
func NewStatsService(
	users repository.UserRepository,
	files repository.FileRepository,
	store session.Store,
	db Pinger,
	logger *slog.Logger,
) *StatsService {
	return &StatsService{
		users:  users,
		files:  files,
		store:  store,
		db:     db,
		logger: logger.With(slog.String("component", "stats_service")),
	}
}

// Status проверяет доступность ephemeral-хранилища сессий и базы данных.
// Недоступность зависимости — не ошибка, а false в соответствующем поле.
func (s *StatsService) Status(ctx context.Context) Status {
	st := Status{Redis: true, DB: true}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("Хранилище сессий недоступно", slog.String("error", err.Error()))
		st.Redis = false
	}
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn("База данных недоступна", slog.String("error", err.Error()))
		st.DB = false
	}
	return st
}

// Stats возвращает количество пользователей и записей реестра.
func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("подсчёт пользователей: %w", err)
	}
	files, err := s.files.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("подсчёт записей: %w", err)
	}
	return Stats{Users: users, Files: files}, nil
}
