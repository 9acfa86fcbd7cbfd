package model

import "time"

// FileType — тип записи файлового реестра.
type FileType string

// Допустимые типы записей.
const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// IsValid проверяет, что тип входит в допустимый набор.
func (t FileType) IsValid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RootParentID — сентинел корневой директории в API-слое.
// В базе данных корню соответствует NULL parent_id.
const RootParentID = "0"

// File — запись файлового реестра (файл, изображение или папка).
// Хранится в таблице files. Блоб файла лежит на диске отдельно,
// путь к нему — в LocalPath (только для type != folder).
type File struct {
	// ID — UUID записи
	ID string
	// UserID — UUID владельца
	UserID string
	// Name — имя, заданное пользователем при загрузке
	Name string
	// Type — folder, file или image
	Type FileType
	// IsPublic — доступна ли запись без аутентификации
	IsPublic bool
	// ParentID — UUID родительской папки, nil для корня
	ParentID *string
	// LocalPath — абсолютный путь блоба на диске (пустой для папок).
	// Наружу не отдаётся.
	LocalPath string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// IsFolder сообщает, является ли запись папкой.
func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}

// APIParentID возвращает parentId для API-ответов:
// UUID родителя или сентинел "0" для корня.
func (f *File) APIParentID() string {
	if f.ParentID == nil {
		return RootParentID
	}
	return *f.ParentID
}
