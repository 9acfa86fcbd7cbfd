package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filehub/internal/domain/model"
)

// FileRepository — интерфейс доступа к таблице files.
type FileRepository interface {
	// Create создаёт запись файлового реестра.
	Create(ctx context.Context, f *model.File) error
	// GetByID возвращает запись по UUID.
	GetByID(ctx context.Context, id string) (*model.File, error)
	// ListByParent возвращает записи пользователя внутри указанной папки.
	// parentID == nil — корень. Постраничная выборка limit/offset,
	// порядок стабильный (created_at, id).
	ListByParent(ctx context.Context, userID string, parentID *string, limit, offset int) ([]*model.File, error)
	// SetPublic обновляет флаг is_public и возвращает обновлённую запись.
	SetPublic(ctx context.Context, id string, isPublic bool) (*model.File, error)
	// Count возвращает количество записей реестра.
	Count(ctx context.Context) (int, error)
}

// fileRepo — реализация FileRepository.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлового реестра.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

// fileColumns — список колонок для SELECT (единый порядок сканирования).
const fileColumns = `id, user_id, name, type, is_public, parent_id, local_path, created_at`

// scanFile сканирует одну строку в model.File.
func scanFile(row pgx.Row) (*model.File, error) {
	f := &model.File{}
	err := row.Scan(
		&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic,
		&f.ParentID, &f.LocalPath, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fileRepo) Create(ctx context.Context, f *model.File) error {
	query := `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		f.ID, f.UserID, f.Name, f.Type, f.IsPublic, f.ParentID, f.LocalPath,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи файла: %w", err)
	}
	return nil
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*model.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи файла: %w", err)
	}
	return f, nil
}

func (r *fileRepo) ListByParent(ctx context.Context, userID string, parentID *string, limit, offset int) ([]*model.File, error) {
	// Для корня parent_id IS NULL, иначе точное совпадение
	query := fmt.Sprintf(`
		SELECT %s FROM files
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4`, fileColumns)

	rows, err := r.db.Query(ctx, query, userID, parentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	defer rows.Close()

	var result []*model.File
	for rows.Next() {
		f := &model.File{}
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic,
			&f.ParentID, &f.LocalPath, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи файла: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *fileRepo) SetPublic(ctx context.Context, id string, isPublic bool) (*model.File, error) {
	query := fmt.Sprintf(`
		UPDATE files
		SET is_public = $2
		WHERE id = $1
		RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id, isPublic))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления видимости файла: %w", err)
	}
	return f, nil
}

func (r *fileRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта файлов: %w", err)
	}
	return count, nil
}
