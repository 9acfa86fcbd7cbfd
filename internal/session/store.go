// Пакет session — эфемерное хранилище сессионных токенов.
// Токен живёт в key-value store с нативным TTL: запись после истечения
// неотличима от никогда не существовавшей (lazy expiry, без reaper-процесса).
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound — токен отсутствует или истёк.
var ErrNotFound = errors.New("сессия не найдена")

// Store — key-value хранилище с TTL.
// Get после истечения TTL обязан возвращать ErrNotFound.
// Любая другая ошибка трактуется как недоступность хранилища.
type Store interface {
	// Get возвращает значение по ключу или ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set сохраняет значение с указанным временем жизни.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del удаляет ключ. Возвращает ErrNotFound, если ключа уже нет.
	Del(ctx context.Context, key string) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
