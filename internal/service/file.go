package service

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"Niquel/internal/storage"
	"context"
	"errors"
	"io"

	"gorm.io/gorm"
)

// UploadStore — контракт файлового хранилища для сервиса файлов.
// Реализуется storage.Storage; в тестах подменяется моком.
type UploadStore interface {
	CreateUploadDir(projectID string) (string, error)
	Save(dir, filename string, src io.Reader) (string, int64, error)
	Delete(path string) error
	MaxSize() int64
}

// FileService — загрузка, выдача и удаление файлов проекта.
type FileService struct {
	files   repo.FileRepository
	periods repo.PeriodRepository
	access  *AccessService
	store   UploadStore
}

// NewFileService создаёт сервис файлов.
func NewFileService(files repo.FileRepository, periods repo.PeriodRepository, access *AccessService, store UploadStore) *FileService {
	return &FileService{files: files, periods: periods, access: access, store: store}
}

// FileUpdate — частичное обновление метаданных файла.
type FileUpdate struct {
	Name     *string
	Category *string
}

// List — файлы с фильтрами; доступ проверяется по цели фильтра.
func (s *FileService) List(ctx context.Context, actor *model.User, filter repo.FileFilter, skip, limit int) ([]model.File, int64, error) {
	if filter.ProjectID != "" {
		if err := s.requireTier(ctx, actor, filter.ProjectID, TierView); err != nil {
			return nil, 0, err
		}
	}
	if filter.PeriodID != "" {
		period, err := s.periods.GetPeriodByID(ctx, filter.PeriodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperr.NotFound("period not found")
			}
			return nil, 0, err
		}
		if err := s.requireTier(ctx, actor, period.ProjectID, TierView); err != nil {
			return nil, 0, err
		}
	}

	total, err := s.files.CountFiles(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	files, err := s.files.ListFiles(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// Upload сохраняет файл на диск и создаёт запись в БД.
// Валидация — до любых мутаций; при сбое после записи на диск
// частичный результат удаляется и возвращается ошибка загрузки.
func (s *FileService) Upload(ctx context.Context, actor *model.User, src io.Reader, filename, category, projectID, periodID string) (*model.File, error) {
	if !model.ValidFileCategory(category) {
		return nil, apperr.Validation("invalid category: must be one of map, image, document, analysis")
	}
	if projectID == "" && periodID == "" {
		return nil, apperr.Validation("either project_id or period_id must be provided")
	}

	if periodID != "" {
		period, err := s.periods.GetPeriodByID(ctx, periodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("period not found")
			}
			return nil, err
		}
		if projectID == "" {
			projectID = period.ProjectID
		}
	}

	if err := s.requireTier(ctx, actor, projectID, TierEdit); err != nil {
		return nil, err
	}

	dir, err := s.store.CreateUploadDir(projectID)
	if err != nil {
		return nil, apperr.Upload(err)
	}

	path, size, err := s.store.Save(dir, filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperr.TooLarge("file too large")
		}
		return nil, apperr.Upload(err)
	}

	file := &model.File{
		Name:        filename,
		Path:        path,
		Size:        size,
		ContentType: storage.ContentTypeFor(filename),
		Category:    category,
		ProjectID:   &projectID,
		UploadedBy:  &actor.ID,
	}
	if periodID != "" {
		file.PeriodID = &periodID
	}

	created, err := s.files.CreateFile(ctx, file)
	if err != nil {
		// запись на диске уже есть — убираем её перед возвратом ошибки
		_ = s.store.Delete(path)
		return nil, apperr.Upload(err)
	}
	return created, nil
}

// Get — метаданные файла; уровень просмотра проекта файла.
func (s *FileService) Get(ctx context.Context, actor *model.User, id string) (*model.File, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, err
	}
	projectID, err := s.resolveProject(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, projectID, TierView); err != nil {
		return nil, err
	}
	return file, nil
}

// UpdateMeta — обновление метаданных; уровень редактирования.
func (s *FileService) UpdateMeta(ctx context.Context, actor *model.User, id string, upd FileUpdate) (*model.File, error) {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return nil, err
	}
	projectID, err := s.resolveProject(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, projectID, TierEdit); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Category != nil {
		if !model.ValidFileCategory(*upd.Category) {
			return nil, apperr.Validation("invalid category")
		}
		updates["category"] = *upd.Category
	}

	return s.files.UpdateFile(ctx, id, updates)
}

// Delete удаляет файл с диска и запись из БД. Отсутствие файла на
// диске не ошибка: БД авторитетна. Достаточно уровня редактирования.
func (s *FileService) Delete(ctx context.Context, actor *model.User, id string) error {
	file, err := s.getFile(ctx, id)
	if err != nil {
		return err
	}
	projectID, err := s.resolveProject(ctx, file)
	if err != nil {
		return err
	}
	if err := s.requireTier(ctx, actor, projectID, TierEdit); err != nil {
		return err
	}

	if err := s.store.Delete(file.Path); err != nil {
		return err
	}
	return s.files.DeleteFile(ctx, id)
}

func (s *FileService) getFile(ctx context.Context, id string) (*model.File, error) {
	file, err := s.files.GetFileByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("file not found")
		}
		return nil, err
	}
	return file, nil
}

// resolveProject определяет проект файла: прямая привязка или через период.
func (s *FileService) resolveProject(ctx context.Context, file *model.File) (string, error) {
	if file.ProjectID != nil && *file.ProjectID != "" {
		return *file.ProjectID, nil
	}
	if file.PeriodID != nil && *file.PeriodID != "" {
		period, err := s.periods.GetPeriodByID(ctx, *file.PeriodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperr.NotFound("period not found")
			}
			return "", err
		}
		return period.ProjectID, nil
	}
	return "", apperr.NotFound("file has no project")
}

func (s *FileService) requireTier(ctx context.Context, actor *model.User, projectID string, tier Tier) error {
	ok, err := s.access.HasTier(ctx, actor, projectID, tier)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Authorization("not enough permissions for this project")
	}
	return nil
}
