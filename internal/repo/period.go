package repo

import (
	"Niquel/internal/model"
	"context"

	"gorm.io/gorm"
)

// PeriodRepository — контракт доступа к периодам.
type PeriodRepository interface {
	CreatePeriod(ctx context.Context, period *model.Period) (*model.Period, error)
	GetPeriodByID(ctx context.Context, id string) (*model.Period, error)
	ListPeriodsByProject(ctx context.Context, projectID string, skip, limit int) ([]model.Period, error)
	CountPeriodsByProject(ctx context.Context, projectID string) (int64, error)
	UpdatePeriod(ctx context.Context, id string, updates map[string]any) (*model.Period, error)
	// DeletePeriod удаляет период и каскадом его файлы и геоточки.
	DeletePeriod(ctx context.Context, id string) error
	CountFilesByPeriod(ctx context.Context, periodID string) (int64, error)
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepository создаёт реализацию репозитория для Period.
func NewPeriodRepository(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) CreatePeriod(ctx context.Context, period *model.Period) (*model.Period, error) {
	if err := r.db.WithContext(ctx).Create(period).Error; err != nil {
		return nil, err
	}
	return period, nil
}

func (r *periodRepo) GetPeriodByID(ctx context.Context, id string) (*model.Period, error) {
	var p model.Period
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *periodRepo) ListPeriodsByProject(ctx context.Context, projectID string, skip, limit int) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("start_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) CountPeriodsByProject(ctx context.Context, projectID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Period{}).
		Where("project_id = ?", projectID).
		Count(&total).Error
	return total, err
}

func (r *periodRepo) UpdatePeriod(ctx context.Context, id string, updates map[string]any) (*model.Period, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Period{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetPeriodByID(ctx, id)
}

func (r *periodRepo) DeletePeriod(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePeriodCascade(tx, id)
	})
}

// deletePeriodCascade удаляет файлы периода, его геоточки (с изображениями)
// и сам период.
func deletePeriodCascade(tx *gorm.DB, periodID string) error {
	if err := tx.Delete(&model.File{}, "period_id = ?", periodID).Error; err != nil {
		return err
	}
	var points []model.GeoPoint
	if err := tx.Select("id").Find(&points, "period_id = ?", periodID).Error; err != nil {
		return err
	}
	for _, gp := range points {
		if err := deleteGeoPointCascade(tx, gp.ID); err != nil {
			return err
		}
	}
	res := tx.Delete(&model.Period{}, "id = ?", periodID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *periodRepo) CountFilesByPeriod(ctx context.Context, periodID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.File{}).
		Where("period_id = ?", periodID).
		Count(&total).Error
	return total, err
}
