package repo

import (
	"Niquel/internal/model"
	"context"

	"gorm.io/gorm"
)

// FileFilter — фильтры выборки файлов.
type FileFilter struct {
	ProjectID string
	PeriodID  string
	Category  string
}

// FileRepository — контракт доступа к записям файлов.
// Удаление с диска — ответственность сервиса, здесь только строки БД.
type FileRepository interface {
	CreateFile(ctx context.Context, file *model.File) (*model.File, error)
	GetFileByID(ctx context.Context, id string) (*model.File, error)
	ListFiles(ctx context.Context, filter FileFilter, skip, limit int) ([]model.File, error)
	CountFiles(ctx context.Context, filter FileFilter) (int64, error)
	UpdateFile(ctx context.Context, id string, updates map[string]any) (*model.File, error)
	DeleteFile(ctx context.Context, id string) error
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepository создаёт реализацию репозитория для File.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) CreateFile(ctx context.Context, file *model.File) (*model.File, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

func (r *fileRepo) GetFileByID(ctx context.Context, id string) (*model.File, error) {
	var f model.File
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepo) filtered(ctx context.Context, filter FileFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.File{})
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.PeriodID != "" {
		q = q.Where("period_id = ?", filter.PeriodID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	return q
}

func (r *fileRepo) ListFiles(ctx context.Context, filter FileFilter, skip, limit int) ([]model.File, error) {
	var files []model.File
	err := r.filtered(ctx, filter).
		Order("upload_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&files).Error
	return files, err
}

func (r *fileRepo) CountFiles(ctx context.Context, filter FileFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *fileRepo) UpdateFile(ctx context.Context, id string, updates map[string]any) (*model.File, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.File{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetFileByID(ctx, id)
}

func (r *fileRepo) DeleteFile(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.File{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
