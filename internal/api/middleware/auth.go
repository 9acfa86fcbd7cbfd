// auth.go — middleware аутентификации по токену сессии.
// Токен передаётся в заголовке X-Token и резолвится в ID пользователя
// через ephemeral-хранилище сессий.
package middleware

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/bigkaa/filehub/internal/api/errors"
	"github.com/bigkaa/filehub/internal/service"
)

// TokenHeader — заголовок с токеном сессии.
const TokenHeader = "X-Token"

// ctxKey — приватный тип ключа контекста.
type ctxKey int

const userIDKey ctxKey = iota

// TokenResolver — резолвер токена сессии в ID пользователя.
// Реализуется service.AuthService: недействительный токен —
// service.ErrInvalidCredentials, недоступность хранилища — любая
// другая ошибка.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Auth — фабрика middleware аутентификации.
type Auth struct {
	resolver TokenResolver
}

// NewAuth создаёт фабрику middleware аутентификации.
func NewAuth(resolver TokenResolver) *Auth {
	return &Auth{resolver: resolver}
}

// Require — middleware, требующий действительный токен сессии.
// При отсутствующем, неизвестном или истёкшем токене — 401 Unauthorized.
// Недоступность хранилища сессий — 500, не 401: сбой сервиса
// не должен маскироваться под отказ в доступе.
// ID пользователя кладётся в контекст запроса (UserIDFromContext).
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			apierrors.Unauthorized(w)
			return
		}

		userID, err := a.resolver.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				apierrors.Unauthorized(w)
			} else {
				apierrors.InternalError(w)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// Optional — middleware, резолвящий токен, если он передан.
// Запрос без токена или с недействительным токеном проходит дальше
// анонимно: публичные записи доступны без аутентификации.
// Недоступность хранилища сессий — 500: деградация действительного
// токена до анонимного превратила бы приватные записи в ложные 404.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token != "" {
			userID, err := a.resolver.Resolve(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(withUserID(r.Context(), userID))
			case errors.Is(err, service.ErrInvalidCredentials):
				// Недействительный токен — анонимный проход
			default:
				apierrors.InternalError(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// withUserID кладёт ID пользователя в контекст.
func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext возвращает ID аутентифицированного пользователя.
// Второе значение false — запрос анонимный.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
