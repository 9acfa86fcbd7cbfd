// Пакет filestore — операции с блобами на диске.
// Блоб именуется случайным UUID без расширения и не отражает
// логическую иерархию папок: структура живёт только в реестре метаданных.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore — управление блобами на диске.
type FileStore struct {
	// dataDir — корневая директория хранения блобов (FH_DATA_DIR)
	dataDir string
}

// SaveResult — результат сохранения блоба.
type SaveResult struct {
	// Name — имя блоба в dataDir
	Name string
	// FullPath — абсолютный путь блоба на диске
	FullPath string
	// Size — размер записанных данных в байтах
	Size int64
}

// New создаёт новый FileStore. Проверяет и создаёт директорию,
// если она не существует.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", dataDir, err)
	}

	return &FileStore{dataDir: dataDir}, nil
}

// Save записывает данные из reader в новый блоб со случайным именем.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (fs *FileStore) Save(reader io.Reader) (*SaveResult, error) {
	// Директория могла быть удалена после старта — восстанавливаем
	if err := os.MkdirAll(fs.dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", fs.dataDir, err)
	}

	name := uuid.New().String()
	fullPath := filepath.Join(fs.dataDir, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &SaveResult{
		Name:     name,
		FullPath: fullPath,
		Size:     size,
	}, nil
}

// Open открывает блоб по абсолютному пути и возвращает io.ReadCloser.
// Вызывающий код обязан закрыть ReadCloser.
// Для отсутствующего блоба возвращает os.ErrNotExist.
func (fs *FileStore) Open(fullPath string) (*os.File, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("блоб не найден %s: %w", fullPath, os.ErrNotExist)
		}
		return nil, fmt.Errorf("ошибка открытия блоба %s: %w", fullPath, err)
	}
	return f, nil
}

// Delete удаляет блоб с диска.
// Возвращает nil, если блоб уже не существует.
func (fs *FileStore) Delete(fullPath string) error {
	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления блоба %s: %w", fullPath, err)
	}
	return nil
}

// Exists проверяет существование блоба на диске.
func (fs *FileStore) Exists(fullPath string) bool {
	_, err := os.Stat(fullPath)
	return err == nil
}

// DataDir возвращает путь к директории данных.
func (fs *FileStore) DataDir() string {
	return fs.dataDir
}
