// files.go — обработчики файлового реестра.
// POST /files — загрузка файла, изображения или создание папки
// GET /files — страничный листинг внутри родителя
// GET /files/{id} — метаданные записи
// PUT /files/{id}/publish, /unpublish — управление видимостью
// GET /files/{id}/data — выдача содержимого
package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filehub/internal/api/errors"
	"github.com/bigkaa/filehub/internal/api/middleware"
	"github.com/bigkaa/filehub/internal/domain/model"
	"github.com/bigkaa/filehub/internal/service"
)

// FilesHandler — обработчик endpoints файлового реестра.
type FilesHandler struct {
	files  *service.FileService
	logger *slog.Logger
}

// NewFilesHandler создаёт обработчик endpoints файлового реестра.
func NewFilesHandler(files *service.FileService, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		files:  files,
		logger: logger.With(slog.String("component", "files_handler")),
	}
}

// uploadRequest — тело запроса загрузки.
type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// fileResponse — представление записи реестра в API.
// Локальный путь блоба наружу не отдаётся; корень кодируется как parentId "0".
type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func toFileResponse(f *model.File) fileResponse {
	return fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     string(f.Type),
		IsPublic: f.IsPublic,
		ParentID: f.APIParentID(),
	}
}

// Upload — создание новой записи реестра. Успех — 201.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, apierrors.MsgMissingName)
		return
	}

	f, err := h.files.Upload(r.Context(), userID, service.UploadRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileResponse(f))
}

// List — страничный листинг записей пользователя внутри родителя.
// Параметры: parentId (по умолчанию "0" — корень), page (с нуля).
// Страница за пределами данных — пустой массив.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	parentID := r.URL.Query().Get("parentId")
	if parentID == "" {
		parentID = model.RootParentID
	}

	page := 0
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	files, err := h.files.List(r.Context(), userID, parentID, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, toFileResponse(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Show — метаданные записи с учётом видимости. Работает и анонимно:
// публичные записи видны без токена.
func (h *FilesHandler) Show(w http.ResponseWriter, r *http.Request) {
	// Анонимный запрос — пустой viewerID, увидит только публичные записи
	userID, _ := middleware.UserIDFromContext(r.Context())

	f, err := h.files.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(f))
}

// Publish — сделать запись публичной (только владелец, идемпотентно).
func (h *FilesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublish(w, r, true)
}

// Unpublish — сделать запись приватной (только владелец, идемпотентно).
func (h *FilesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublish(w, r, false)
}

func (h *FilesHandler) setPublish(w http.ResponseWriter, r *http.Request, isPublic bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	f, err := h.files.SetPublish(r.Context(), userID, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileResponse(f))
}

// Data — выдача содержимого записи. Работает и анонимно:
// публичные записи доступны без токена.
func (h *FilesHandler) Data(w http.ResponseWriter, r *http.Request) {
	// Анонимный запрос — пустой viewerID, увидит только публичные записи
	userID, _ := middleware.UserIDFromContext(r.Context())

	rc, contentType, f, err := h.files.GetData(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Ошибка выдачи содержимого",
			slog.String("file_id", f.ID),
			slog.String("error", err.Error()),
		)
	}
}
