package repo

import (
	"Niquel/internal/model"
	"context"

	"gorm.io/gorm"
)

// GeoPointRepository — контракт доступа к геоточкам и их изображениям.
type GeoPointRepository interface {
	CreateGeoPoint(ctx context.Context, gp *model.GeoPoint) (*model.GeoPoint, error)
	GetGeoPointByID(ctx context.Context, id string) (*model.GeoPoint, error)
	ListGeoPointsByPeriod(ctx context.Context, periodID string, skip, limit int) ([]model.GeoPoint, error)
	CountGeoPointsByPeriod(ctx context.Context, periodID string) (int64, error)
	UpdateGeoPoint(ctx context.Context, id string, updates map[string]any) (*model.GeoPoint, error)
	// DeleteGeoPoint удаляет точку и каскадом её изображения.
	DeleteGeoPoint(ctx context.Context, id string) error

	CreateImage(ctx context.Context, img *model.GeoPointImage) (*model.GeoPointImage, error)
	GetImageByID(ctx context.Context, id string) (*model.GeoPointImage, error)
	ListImages(ctx context.Context, geoPointID string) ([]model.GeoPointImage, error)
	DeleteImage(ctx context.Context, id string) error
}

type geoPointRepo struct {
	db *gorm.DB
}

// NewGeoPointRepository создаёт реализацию репозитория для GeoPoint.
func NewGeoPointRepository(db *gorm.DB) GeoPointRepository {
	return &geoPointRepo{db: db}
}

func (r *geoPointRepo) CreateGeoPoint(ctx context.Context, gp *model.GeoPoint) (*model.GeoPoint, error) {
	if err := r.db.WithContext(ctx).Create(gp).Error; err != nil {
		return nil, err
	}
	return gp, nil
}

func (r *geoPointRepo) GetGeoPointByID(ctx context.Context, id string) (*model.GeoPoint, error) {
	var gp model.GeoPoint
	if err := r.db.WithContext(ctx).First(&gp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gp, nil
}

func (r *geoPointRepo) ListGeoPointsByPeriod(ctx context.Context, periodID string, skip, limit int) ([]model.GeoPoint, error) {
	var points []model.GeoPoint
	err := r.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("created_at").
		Offset(skip).
		Limit(limit).
		Find(&points).Error
	return points, err
}

func (r *geoPointRepo) CountGeoPointsByPeriod(ctx context.Context, periodID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.GeoPoint{}).
		Where("period_id = ?", periodID).
		Count(&total).Error
	return total, err
}

func (r *geoPointRepo) UpdateGeoPoint(ctx context.Context, id string, updates map[string]any) (*model.GeoPoint, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.GeoPoint{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetGeoPointByID(ctx, id)
}

func (r *geoPointRepo) DeleteGeoPoint(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteGeoPointCascade(tx, id)
	})
}

// deleteGeoPointCascade удаляет изображения точки и саму точку.
func deleteGeoPointCascade(tx *gorm.DB, geoPointID string) error {
	if err := tx.Delete(&model.GeoPointImage{}, "geo_point_id = ?", geoPointID).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.GeoPoint{}, "id = ?", geoPointID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *geoPointRepo) CreateImage(ctx context.Context, img *model.GeoPointImage) (*model.GeoPointImage, error) {
	if err := r.db.WithContext(ctx).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (r *geoPointRepo) GetImageByID(ctx context.Context, id string) (*model.GeoPointImage, error) {
	var img model.GeoPointImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *geoPointRepo) ListImages(ctx context.Context, geoPointID string) ([]model.GeoPointImage, error) {
	var images []model.GeoPointImage
	err := r.db.WithContext(ctx).
		Where("geo_point_id = ?", geoPointID).
		Order("upload_date").
		Find(&images).Error
	return images, err
}

func (r *geoPointRepo) DeleteImage(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.GeoPointImage{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
