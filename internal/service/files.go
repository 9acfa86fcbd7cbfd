// files.go — сервис файлового реестра: загрузка, листинг,
// управление видимостью и выдача содержимого.
package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/filehub/internal/domain/model"
	"github.com/bigkaa/filehub/internal/repository"
	"github.com/bigkaa/filehub/internal/storage/filestore"
)

// PageSize — фиксированный размер страницы листинга.
const PageSize = 20

// defaultContentType — тип содержимого, когда расширение имени неизвестно.
const defaultContentType = "application/octet-stream"

// UploadRequest — параметры загрузки новой записи.
type UploadRequest struct {
	// Name — имя записи (обязательное)
	Name string
	// Type — folder, file или image (обязательное)
	Type string
	// ParentID — ID родительской папки или "0" для корня
	ParentID string
	// IsPublic — публичная видимость записи
	IsPublic bool
	// Data — содержимое в base64 (обязательное для type != folder)
	Data string
}

// FileService — сервис файлового реестра.
// Метаданные живут в PostgreSQL, блобы — на диске (filestore),
// горячие чтения метаданных проходят через LRU-кэш.
type FileService struct {
	files  repository.FileRepository
	blobs  *filestore.FileStore
	cache  *CacheService
	logger *slog.Logger
}

// NewFileService создаёт сервис файлового реестра.
func NewFileService(files repository.FileRepository, blobs *filestore.FileStore, cache *CacheService, logger *slog.Logger) *FileService {
	return &FileService{
		files:  files,
		blobs:  blobs,
		cache:  cache,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// Upload создаёт новую запись реестра от имени пользователя userID.
//
// Порядок валидации фиксирован: имя, тип, содержимое, родитель.
// Для папок содержимое не принимается; для файлов и изображений
// блоб пишется на диск ДО вставки метаданных — при ошибке вставки
// блоб удаляется best-effort, осиротевшие блобы не попадают в реестр.
func (s *FileService) Upload(ctx context.Context, userID string, req UploadRequest) (*model.File, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}

	ftype := model.FileType(req.Type)
	if !ftype.IsValid() {
		return nil, ErrMissingType
	}

	var data []byte
	if ftype != model.TypeFolder {
		if req.Data == "" {
			return nil, ErrMissingData
		}
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			// Некорректный base64 неотличим для клиента от отсутствующего содержимого
			return nil, ErrMissingData
		}
		data = decoded
	}

	var parentID *string
	if req.ParentID != "" && req.ParentID != model.RootParentID {
		parent, err := s.files.GetByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("поиск родительской записи: %w", err)
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotAFolder
		}
		parentID = &parent.ID
	}

	f := &model.File{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Type:      ftype,
		IsPublic:  req.IsPublic,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}

	if ftype != model.TypeFolder {
		result, err := s.blobs.Save(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("запись блоба: %w", err)
		}
		f.LocalPath = result.FullPath
	}

	if err := s.files.Create(ctx, f); err != nil {
		if f.LocalPath != "" {
			if delErr := s.blobs.Delete(f.LocalPath); delErr != nil {
				s.logger.Warn("Не удалось удалить блоб после ошибки вставки метаданных",
					slog.String("path", f.LocalPath),
					slog.String("error", delErr.Error()),
				)
			}
		}
		return nil, fmt.Errorf("вставка метаданных: %w", err)
	}

	s.logger.Info("Запись создана",
		slog.String("file_id", f.ID),
		slog.String("user_id", userID),
		slog.String("type", string(ftype)),
	)
	return f, nil
}

// Get возвращает запись по ID с учётом видимости:
// запись доступна владельцу всегда, остальным — только если она публичная.
// Чужая приватная запись неотличима от несуществующей (ErrNotFound).
func (s *FileService) Get(ctx context.Context, viewerID, id string) (*model.File, error) {
	f, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.UserID != viewerID && !f.IsPublic {
		return nil, ErrNotFound
	}
	return f, nil
}

// List возвращает страницу записей пользователя внутри родителя parentID
// ("0" или пустая строка — корень). Страницы нумеруются с нуля,
// размер страницы фиксирован (PageSize). Страница за пределами
// данных — пустой список, не ошибка.
func (s *FileService) List(ctx context.Context, userID, parentID string, page int) ([]*model.File, error) {
	if page < 0 {
		page = 0
	}

	var parent *string
	if parentID != "" && parentID != model.RootParentID {
		parent = &parentID
	}

	files, err := s.files.ListByParent(ctx, userID, parent, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("листинг записей: %w", err)
	}
	return files, nil
}

// SetPublish переключает публичность записи. Доступно только владельцу;
// для остальных запись неотличима от несуществующей (ErrNotFound).
// Операция идемпотентна.
func (s *FileService) SetPublish(ctx context.Context, userID, id string, isPublic bool) (*model.File, error) {
	f, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, ErrNotFound
	}

	updated, err := s.files.SetPublic(ctx, id, isPublic)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("изменение видимости: %w", err)
	}

	// Видимость изменилась — запись в кэше устарела
	s.cache.Set(updated.ID, updated)

	s.logger.Info("Видимость записи изменена",
		slog.String("file_id", id),
		slog.Bool("is_public", isPublic),
	)
	return updated, nil
}

// GetData открывает содержимое записи для чтения с учётом видимости.
// Возвращает поток, MIME-тип (по расширению имени) и метаданные.
// Для папок возвращает ErrIsAFolder, при отсутствии блоба на диске —
// ErrBlobMissing. Закрыть поток обязан вызывающий.
func (s *FileService) GetData(ctx context.Context, viewerID, id string) (io.ReadCloser, string, *model.File, error) {
	f, err := s.lookup(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	if f.UserID != viewerID && !f.IsPublic {
		return nil, "", nil, ErrNotFound
	}
	if f.IsFolder() {
		return nil, "", nil, ErrIsAFolder
	}

	rc, err := s.blobs.Open(f.LocalPath)
	if err != nil {
		s.logger.Error("Блоб отсутствует на диске",
			slog.String("file_id", f.ID),
			slog.String("path", f.LocalPath),
		)
		return nil, "", nil, ErrBlobMissing
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))
	if contentType == "" {
		contentType = defaultContentType
	}

	return rc, contentType, f, nil
}

// lookup возвращает запись по ID через кэш, без проверки видимости.
func (s *FileService) lookup(ctx context.Context, id string) (*model.File, error) {
	if f, ok := s.cache.Get(id); ok {
		return f, nil
	}

	f, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи: %w", err)
	}

	s.cache.Set(f.ID, f)
	return f, nil
}
