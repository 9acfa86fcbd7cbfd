package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/bigkaa/filehub/internal/domain/model"
	"github.com/bigkaa/filehub/internal/repository"
	"github.com/bigkaa/filehub/internal/storage/filestore"
)

// --- Mock repository ---

// mockFileRepo — мок FileRepository для unit-тестов.
type mockFileRepo struct {
	createFn       func(ctx context.Context, f *model.File) error
	getByIDFn      func(ctx context.Context, id string) (*model.File, error)
	listByParentFn func(ctx context.Context, userID string, parentID *string, limit, offset int) ([]*model.File, error)
	setPublicFn    func(ctx context.Context, id string, isPublic bool) (*model.File, error)
	countFn        func(ctx context.Context) (int, error)
}

func (m *mockFileRepo) Create(ctx context.Context, f *model.File) error {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	return nil
}

func (m *mockFileRepo) GetByID(ctx context.Context, id string) (*model.File, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) ListByParent(ctx context.Context, userID string, parentID *string, limit, offset int) ([]*model.File, error) {
	if m.listByParentFn != nil {
		return m.listByParentFn(ctx, userID, parentID, limit, offset)
	}
	return nil, nil
}

func (m *mockFileRepo) SetPublic(ctx context.Context, id string, isPublic bool) (*model.File, error) {
	if m.setPublicFn != nil {
		return m.setPublicFn(ctx, id, isPublic)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFileRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// newTestFileService собирает FileService с реальным filestore во временной директории.
func newTestFileService(t *testing.T, repo repository.FileRepository) *FileService {
	t.Helper()
	blobs, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("создание filestore: %v", err)
	}
	cache := NewCacheService(100, 5*time.Minute)
	return NewFileService(repo, blobs, cache, testLogger())
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// --- Тесты Upload ---

// TestFileService_Upload_File проверяет загрузку файла: блоб на диске, метаданные в реестре.
func TestFileService_Upload_File(t *testing.T) {
	var created *model.File
	repo := &mockFileRepo{
		createFn: func(_ context.Context, f *model.File) error {
			created = f
			return nil
		},
	}
	svc := newTestFileService(t, repo)

	f, err := svc.Upload(context.Background(), "user-1", UploadRequest{
		Name: "notes.txt",
		Type: "file",
		Data: b64("hello"),
	})
	if err != nil {
		t.Fatalf("Upload ошибка: %v", err)
	}

	if f.ID == "" {
		t.Error("ожидался непустой ID")
	}
	if f.UserID != "user-1" {
		t.Errorf("UserID = %q, ожидался user-1", f.UserID)
	}
	if f.ParentID != nil {
		t.Errorf("ParentID = %v, ожидался nil (корень)", f.ParentID)
	}
	if f.APIParentID() != model.RootParentID {
		t.Errorf("APIParentID = %q, ожидался %q", f.APIParentID(), model.RootParentID)
	}
	if created == nil {
		t.Fatal("Create не был вызван")
	}

	// Блоб записан на диск и содержит исходные байты
	if f.LocalPath == "" {
		t.Fatal("ожидался непустой LocalPath")
	}
	rc, err := svc.blobs.Open(f.LocalPath)
	if err != nil {
		t.Fatalf("блоб не открывается: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("чтение блоба: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("содержимое блоба = %q, ожидалось hello", data)
	}
}

// TestFileService_Upload_Folder проверяет создание папки без блоба.
func TestFileService_Upload_Folder(t *testing.T) {
	svc := newTestFileService(t, &mockFileRepo{})

	f, err := svc.Upload(context.Background(), "user-1", UploadRequest{
		Name: "docs",
		Type: "folder",
	})
	if err != nil {
		t.Fatalf("Upload ошибка: %v", err)
	}
	if f.LocalPath != "" {
		t.Errorf("LocalPath = %q, у папки не должно быть блоба", f.LocalPath)
	}
}

// TestFileService_Upload_Validation проверяет порядок валидации: имя, тип, содержимое.
func TestFileService_Upload_Validation(t *testing.T) {
	svc := newTestFileService(t, &mockFileRepo{})
	ctx := context.Background()

	tests := []struct {
		name    string
		req     UploadRequest
		wantErr error
	}{
		{"без имени", UploadRequest{Type: "file", Data: b64("x")}, ErrMissingName},
		{"без типа", UploadRequest{Name: "a.txt", Data: b64("x")}, ErrMissingType},
		{"неизвестный тип", UploadRequest{Name: "a.txt", Type: "video", Data: b64("x")}, ErrMissingType},
		{"файл без содержимого", UploadRequest{Name: "a.txt", Type: "file"}, ErrMissingData},
		{"некорректный base64", UploadRequest{Name: "a.txt", Type: "file", Data: "%%%"}, ErrMissingData},
		// Имя проверяется раньше типа
		{"без имени и типа", UploadRequest{Data: b64("x")}, ErrMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, "user-1", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ожидалось %v, получено %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileService_Upload_Parent проверяет валидацию родительской записи.
func TestFileService_Upload_Parent(t *testing.T) {
	folder := &model.File{ID: "folder-1", UserID: "user-1", Name: "docs", Type: model.TypeFolder}
	plain := &model.File{ID: "file-1", UserID: "user-1", Name: "a.txt", Type: model.TypeFile}

	repo := &mockFileRepo{
		getByIDFn: func(_ context.Context, id string) (*model.File, error) {
			switch id {
			case "folder-1":
				return folder, nil
			case "file-1":
				return plain, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestFileService(t, repo)
	ctx := context.Background()

	// Родитель не существует
	_, err := svc.Upload(ctx, "user-1", UploadRequest{
		Name: "b.txt", Type: "file", Data: b64("x"), ParentID: "ghost",
	})
	if !errors.Is(err, ErrParentNotFound) {
		t.Errorf("ожидался ErrParentNotFound, получено %v", err)
	}

	// Родитель — не папка
	_, err = svc.Upload(ctx, "user-1", UploadRequest{
		Name: "b.txt", Type: "file", Data: b64("x"), ParentID: "file-1",
	})
	if !errors.Is(err, ErrParentNotAFolder) {
		t.Errorf("ожидался ErrParentNotAFolder, получено %v", err)
	}

	// Корректный родитель
	f, err := svc.Upload(ctx, "user-1", UploadRequest{
		Name: "b.txt", Type: "file", Data: b64("x"), ParentID: "folder-1",
	})
	if err != nil {
		t.Fatalf("Upload ошибка: %v", err)
	}
	if f.ParentID == nil || *f.ParentID != "folder-1" {
		t.Errorf("ParentID = %v, ожидался folder-1", f.ParentID)
	}

	// Сентинел "0" — корень, родитель не ищется
	f, err = svc.Upload(ctx, "user-1", UploadRequest{
		Name: "c.txt", Type: "file", Data: b64("x"), ParentID: model.RootParentID,
	})
	if err != nil {
		t.Fatalf("Upload ошибка: %v", err)
	}
	if f.ParentID != nil {
		t.Errorf("ParentID = %v, ожидался nil", f.ParentID)
	}
}

// TestFileService_Upload_MetadataFailureCleansBlob проверяет удаление блоба
// при ошибке вставки метаданных.
func TestFileService_Upload_MetadataFailureCleansBlob(t *testing.T) {
	repo := &mockFileRepo{
		createFn: func(_ context.Context, _ *model.File) error {
			return errors.New("база недоступна")
		},
	}
	svc := newTestFileService(t, repo)

	_, err := svc.Upload(context.Background(), "user-1", UploadRequest{
		Name: "a.txt", Type: "file", Data: b64("x"),
	})
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}

	// Осиротевший блоб удалён
	entries, err := os.ReadDir(svc.blobs.DataDir())
	if err != nil {
		t.Fatalf("чтение директории: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("в хранилище остались блобы: %d", len(entries))
	}
}

// --- Тесты Get / видимость ---

// TestFileService_Get_Visibility проверяет правила видимости записи.
func TestFileService_Get_Visibility(t *testing.T) {
	private := &model.File{ID: "private-1", UserID: "user-1", Name: "a.txt", Type: model.TypeFile}
	public := &model.File{ID: "public-1", UserID: "user-1", Name: "b.txt", Type: model.TypeFile, IsPublic: true}

	repo := &mockFileRepo{
		getByIDFn: func(_ context.Context, id string) (*model.File, error) {
			switch id {
			case "private-1":
				return private, nil
			case "public-1":
				return public, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestFileService(t, repo)
	ctx := context.Background()

	// Владелец видит приватную запись
	if _, err := svc.Get(ctx, "user-1", "private-1"); err != nil {
		t.Errorf("владелец: неожиданная ошибка %v", err)
	}
	// Чужая приватная запись неотличима от несуществующей
	if _, err := svc.Get(ctx, "user-2", "private-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("чужая приватная: ожидался ErrNotFound, получено %v", err)
	}
	// Публичная запись видна всем
	if _, err := svc.Get(ctx, "user-2", "public-1"); err != nil {
		t.Errorf("публичная: неожиданная ошибка %v", err)
	}
	// Несуществующая запись
	if _, err := svc.Get(ctx, "user-1", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("несуществующая: ожидался ErrNotFound, получено %v", err)
	}
}

// TestFileService_Get_CacheHit проверяет, что повторное чтение идёт из кэша.
func TestFileService_Get_CacheHit(t *testing.T) {
	callCount := 0
	repo := &mockFileRepo{
		getByIDFn: func(_ context.Context, _ string) (*model.File, error) {
			callCount++
			return &model.File{ID: "file-1", UserID: "user-1", Name: "a.txt", Type: model.TypeFile}, nil
		},
	}
	svc := newTestFileService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Get(ctx, "user-1", "file-1"); err != nil {
			t.Fatalf("Get ошибка: %v", err)
		}
	}
	if callCount != 1 {
		t.Errorf("репозиторий вызван %d раз, ожидался 1 (кэш)", callCount)
	}
}

// --- Тесты List ---

// TestFileService_List проверяет страничную выборку с фиксированным размером страницы.
func TestFileService_List(t *testing.T) {
	var gotLimit, gotOffset int
	var gotParent *string
	repo := &mockFileRepo{
		listByParentFn: func(_ context.Context, userID string, parentID *string, limit, offset int) ([]*model.File, error) {
			gotLimit, gotOffset, gotParent = limit, offset, parentID
			return []*model.File{{ID: "file-1", UserID: userID}}, nil
		},
	}
	svc := newTestFileService(t, repo)
	ctx := context.Background()

	// Корень, вторая страница
	files, err := svc.List(ctx, "user-1", model.RootParentID, 2)
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("len(files) = %d, ожидался 1", len(files))
	}
	if gotLimit != PageSize {
		t.Errorf("limit = %d, ожидался %d", gotLimit, PageSize)
	}
	if gotOffset != 2*PageSize {
		t.Errorf("offset = %d, ожидался %d", gotOffset, 2*PageSize)
	}
	if gotParent != nil {
		t.Errorf("parentID = %v, ожидался nil для корня", gotParent)
	}

	// Конкретный родитель
	if _, err := svc.List(ctx, "user-1", "folder-1", 0); err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if gotParent == nil || *gotParent != "folder-1" {
		t.Errorf("parentID = %v, ожидался folder-1", gotParent)
	}

	// Отрицательная страница трактуется как нулевая
	if _, err := svc.List(ctx, "user-1", "0", -5); err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if gotOffset != 0 {
		t.Errorf("offset = %d, ожидался 0", gotOffset)
	}
}

// --- Тесты SetPublish ---

// TestFileService_SetPublish проверяет переключение публичности владельцем.
func TestFileService_SetPublish(t *testing.T) {
	f := &model.File{ID: "file-1", UserID: "user-1", Name: "a.txt", Type: model.TypeFile}
	repo := &mockFileRepo{
		getByIDFn: func(_ context.Context, _ string) (*model.File, error) {
			return f, nil
		},
		setPublicFn: func(_ context.Context, id string, isPublic bool) (*model.File, error) {
			updated := *f
			updated.IsPublic = isPublic
			return &updated, nil
		},
	}
	svc := newTestFileService(t, repo)
	ctx := context.Background()

	updated, err := svc.SetPublish(ctx, "user-1", "file-1", true)
	if err != nil {
		t.Fatalf("SetPublish ошибка: %v", err)
	}
	if !updated.IsPublic {
		t.Error("IsPublic = false, ожидался true")
	}

	// Кэш обновлён: следующий Get возвращает новую видимость
	got, err := svc.Get(ctx, "user-2", "file-1")
	if err != nil {
		t.Fatalf("Get после публикации: %v", err)
	}
	if !got.IsPublic {
		t.Error("кэш не обновился после SetPublish")
	}

	// Не владелец — ErrNotFound
	if _, err := svc.SetPublish(ctx, "user-2", "file-1", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("не владелец: ожидался ErrNotFound, получено %v", err)
	}
}

// --- Тесты GetData ---

// TestFileService_GetData проверяет выдачу содержимого с MIME-типом по расширению.
func TestFileService_GetData(t *testing.T) {
	ctx := context.Background()

	// Создаём реальный блоб через Upload
	var stored *model.File
	repo := &mockFileRepo{
		createFn: func(_ context.Context, f *model.File) error {
			stored = f
			return nil
		},
	}
	svc := newTestFileService(t, repo)
	if _, err := svc.Upload(ctx, "user-1", UploadRequest{
		Name: "notes.txt", Type: "file", Data: b64("hello"),
	}); err != nil {
		t.Fatalf("Upload ошибка: %v", err)
	}

	repo.getByIDFn = func(_ context.Context, _ string) (*model.File, error) {
		return stored, nil
	}

	rc, contentType, f, err := svc.GetData(ctx, "user-1", stored.ID)
	if err != nil {
		t.Fatalf("GetData ошибка: %v", err)
	}
	defer rc.Close()

	if contentType != "text/plain; charset=utf-8" {
		t.Errorf("contentType = %q, ожидался text/plain; charset=utf-8", contentType)
	}
	if f.Name != "notes.txt" {
		t.Errorf("Name = %q, ожидался notes.txt", f.Name)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("чтение: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("содержимое = %q, ожидалось hello", data)
	}
}

// TestFileService_GetData_Errors проверяет граничные случаи выдачи содержимого.
func TestFileService_GetData_Errors(t *testing.T) {
	folder := &model.File{ID: "folder-1", UserID: "user-1", Name: "docs", Type: model.TypeFolder}
	orphan := &model.File{ID: "orphan-1", UserID: "user-1", Name: "gone.txt", Type: model.TypeFile, LocalPath: "/nonexistent/blob"}
	private := &model.File{ID: "private-1", UserID: "user-1", Name: "a.txt", Type: model.TypeFile}

	repo := &mockFileRepo{
		getByIDFn: func(_ context.Context, id string) (*model.File, error) {
			switch id {
			case "folder-1":
				return folder, nil
			case "orphan-1":
				return orphan, nil
			case "private-1":
				return private, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := newTestFileService(t, repo)
	ctx := context.Background()

	// Папка — нет содержимого
	if _, _, _, err := svc.GetData(ctx, "user-1", "folder-1"); !errors.Is(err, ErrIsAFolder) {
		t.Errorf("папка: ожидался ErrIsAFolder, получено %v", err)
	}
	// Метаданные есть, блоб пропал
	if _, _, _, err := svc.GetData(ctx, "user-1", "orphan-1"); !errors.Is(err, ErrBlobMissing) {
		t.Errorf("пропавший блоб: ожидался ErrBlobMissing, получено %v", err)
	}
	// Чужая приватная запись
	if _, _, _, err := svc.GetData(ctx, "user-2", "private-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("чужая приватная: ожидался ErrNotFound, получено %v", err)
	}
	// Видимость проверяется до типа записи: чужая приватная папка — тоже ErrNotFound
	folder2 := &model.File{ID: "folder-1", UserID: "user-3", Name: "docs", Type: model.TypeFolder}
	*folder = *folder2
	svc = newTestFileService(t, repo)
	if _, _, _, err := svc.GetData(ctx, "user-2", "folder-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("чужая приватная папка: ожидался ErrNotFound, получено %v", err)
	}
}
