// Пакет model — доменные модели FileHub.
package model

import "time"

// User — учётная запись пользователя сервиса.
// Хранится в таблице users. Email уникален.
type User struct {
	// ID — UUID пользователя
	ID string
	// Email — адрес электронной почты (уникальный)
	Email string
	// PasswordHash — bcrypt-хэш пароля
	PasswordHash string
	// CreatedAt — время регистрации
	CreatedAt time.Time
}
