package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// keyPrefix — префикс ключей сессий в хранилище.
// Формат исторический: auth_<token>.
const keyPrefix = "auth_"

// Manager — менеджер сессионных токенов.
// Единственное место, где по токену восстанавливается личность вызывающего.
type Manager struct {
	store  Store
	logger *slog.Logger
}

// NewManager создаёт менеджер сессий поверх указанного хранилища.
func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.With(slog.String("component", "session_manager")),
	}
}

// Create генерирует криптографически случайный токен и сохраняет
// отображение token -> userID с указанным TTL.
// Пространство токенов (UUID v4) делает коллизии практически невозможными,
// отдельная обработка не требуется.
func (m *Manager) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token := uuid.New().String()

	if err := m.store.Set(ctx, keyPrefix+token, userID, ttl); err != nil {
		return "", fmt.Errorf("ошибка сохранения сессии: %w", err)
	}

	m.logger.Debug("Сессия создана",
		slog.String("user_id", userID),
		slog.Duration("ttl", ttl),
	)
	return token, nil
}

// Resolve возвращает userID по токену.
// Истёкший токен неотличим от никогда не существовавшего: оба — ErrNotFound.
// Недоступность хранилища возвращается отдельной ошибкой.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := m.store.Get(ctx, keyPrefix+token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	return userID, nil
}

// Revoke немедленно удаляет сессию.
// Отсутствующий или уже истёкший токен — ErrNotFound, не сбой.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	err := m.store.Del(ctx, keyPrefix+token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}

	m.logger.Debug("Сессия отозвана")
	return nil
}
