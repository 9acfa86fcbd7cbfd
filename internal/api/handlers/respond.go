// respond.go — общие помощники ответов и маппинг ошибок сервисного слоя.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apierrors "github.com/bigkaa/filehub/internal/api/errors"
	"github.com/bigkaa/filehub/internal/service"
)

// writeJSON записывает JSON-ответ с указанным статус-кодом.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError транслирует ошибку сервисного слоя в HTTP-ответ
// с каноническим сообщением API.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		apierrors.Unauthorized(w)
	case errors.Is(err, service.ErrMissingEmail):
		apierrors.BadRequest(w, apierrors.MsgMissingEmail)
	case errors.Is(err, service.ErrMissingPassword):
		apierrors.BadRequest(w, apierrors.MsgMissingPassword)
	case errors.Is(err, service.ErrAlreadyExists):
		apierrors.BadRequest(w, apierrors.MsgAlreadyExist)
	case errors.Is(err, service.ErrMissingName):
		apierrors.BadRequest(w, apierrors.MsgMissingName)
	case errors.Is(err, service.ErrMissingType):
		apierrors.BadRequest(w, apierrors.MsgMissingType)
	case errors.Is(err, service.ErrMissingData):
		apierrors.BadRequest(w, apierrors.MsgMissingData)
	case errors.Is(err, service.ErrParentNotFound):
		apierrors.BadRequest(w, apierrors.MsgParentNotFound)
	case errors.Is(err, service.ErrParentNotAFolder):
		apierrors.BadRequest(w, apierrors.MsgParentNotAFolder)
	case errors.Is(err, service.ErrIsAFolder):
		apierrors.BadRequest(w, apierrors.MsgFolderNoContent)
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w)
	// Метаданные есть, блоба нет — нарушение целостности, не 404
	case errors.Is(err, service.ErrBlobMissing):
		apierrors.InternalError(w)
	default:
		apierrors.InternalError(w)
	}
}
