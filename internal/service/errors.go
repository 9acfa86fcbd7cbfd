// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден либо недоступен текущему пользователю.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrAlreadyExists — пользователь с таким email уже зарегистрирован.
	ErrAlreadyExists = errors.New("пользователь уже существует")
	// ErrInvalidCredentials — неверная пара email/пароль или недействительный токен.
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	// ErrMissingEmail — в запросе отсутствует email.
	ErrMissingEmail = errors.New("отсутствует email")
	// ErrMissingPassword — в запросе отсутствует пароль.
	ErrMissingPassword = errors.New("отсутствует пароль")
	// ErrMissingName — в запросе отсутствует имя файла.
	ErrMissingName = errors.New("отсутствует имя файла")
	// ErrMissingType — отсутствует или некорректен тип записи.
	ErrMissingType = errors.New("отсутствует или некорректен тип записи")
	// ErrMissingData — отсутствует или некорректно содержимое (base64).
	ErrMissingData = errors.New("отсутствует содержимое файла")
	// ErrParentNotFound — родительская запись не найдена.
	ErrParentNotFound = errors.New("родительская запись не найдена")
	// ErrParentNotAFolder — родительская запись не является папкой.
	ErrParentNotAFolder = errors.New("родительская запись не является папкой")
	// ErrIsAFolder — у папки нет содержимого для выдачи.
	ErrIsAFolder = errors.New("у папки нет содержимого")
	// ErrBlobMissing — метаданные есть, но блоб отсутствует на диске.
	ErrBlobMissing = errors.New("блоб отсутствует в хранилище")
)
