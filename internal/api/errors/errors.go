// Пакет errors — конструкторы стандартных ошибок API FileHub.
// Единый плоский формат: {"error": "..."}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors //nolint:revive // TODO: переименовать пакет errors, конфликт со stdlib

import (
	"encoding/json"
	"net/http"
)

// Канонические сообщения ошибок API.
const (
	MsgUnauthorized     = "Unauthorized"
	MsgNotFound         = "Not found"
	MsgMissingEmail     = "Missing email"
	MsgMissingPassword  = "Missing password"
	MsgAlreadyExist     = "Already exist"
	MsgMissingName      = "Missing name"
	MsgMissingType      = "Missing type"
	MsgMissingData      = "Missing data"
	MsgParentNotFound   = "Parent not found"
	MsgParentNotAFolder = "Parent is not a folder"
	MsgFolderNoContent  = "A folder doesn't have content"
	MsgInternalError    = "Internal server error"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError записывает ответ ошибки в стандартном формате FileHub.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// --- Конструкторы для типичных ошибок ---

// BadRequest — 400 некорректные входные данные.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, MsgNotFound)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternalError)
}
