// auth.go — сервис аутентификации: выдача и отзыв токенов сессий.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bigkaa/filehub/internal/repository"
	"github.com/bigkaa/filehub/internal/security"
	"github.com/bigkaa/filehub/internal/session"
)

// AuthService — сервис аутентификации.
// Проверяет учётные данные по bcrypt-хэшу и управляет сессиями
// через session.Manager (токены с TTL в ephemeral-хранилище).
type AuthService struct {
	users    repository.UserRepository
	sessions *session.Manager
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
// ttl — время жизни выдаваемых токенов (FH_SESSION_TTL).
func NewAuthService(users repository.UserRepository, sessions *session.Manager, ttl time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Login проверяет пару email/пароль и выдаёт новый токен сессии.
// Повторные вызовы создают независимые сессии: у одного пользователя
// может быть несколько активных токенов одновременно.
// Возвращает ErrInvalidCredentials при неизвестном email или неверном пароле.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("поиск пользователя: %w", err)
	}

	if !security.VerifyPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID, s.ttl)
	if err != nil {
		return "", fmt.Errorf("создание сессии: %w", err)
	}

	s.logger.Info("Пользователь аутентифицирован", slog.String("user_id", user.ID))
	return token, nil
}

// Logout отзывает токен сессии. Остальные сессии пользователя не затрагиваются.
// Возвращает ErrInvalidCredentials, если токен не существует или уже истёк.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("отзыв сессии: %w", err)
	}
	return nil
}

// Resolve возвращает ID пользователя по токену сессии.
// Возвращает ErrInvalidCredentials для неизвестного или истёкшего токена.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidCredentials
	}
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("проверка сессии: %w", err)
	}
	return userID, nil
}
