package service

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"Niquel/internal/storage"
	"context"
	"errors"
	"io"
	"strings"

	"gorm.io/gorm"
)

// GeoPointService — геоточки периодов и их изображения.
type GeoPointService struct {
	geoPoints repo.GeoPointRepository
	periods   repo.PeriodRepository
	access    *AccessService
	store     UploadStore
}

// NewGeoPointService создаёт сервис геоточек.
func NewGeoPointService(geoPoints repo.GeoPointRepository, periods repo.PeriodRepository, access *AccessService, store UploadStore) *GeoPointService {
	return &GeoPointService{geoPoints: geoPoints, periods: periods, access: access, store: store}
}

// GeoPointUpdate — частичное обновление геоточки.
type GeoPointUpdate struct {
	Latitude     *float64
	Longitude    *float64
	GravityLevel *int
	Description  *string
	Kilometer    *float64
	Section      *string
}

// GeoPointWithImages — точка вместе со своими изображениями.
type GeoPointWithImages struct {
	model.GeoPoint
	Images []model.GeoPointImage `json:"images"`
}

// ListByPeriod — страницы геоточек периода; уровень просмотра.
func (s *GeoPointService) ListByPeriod(ctx context.Context, actor *model.User, periodID string, skip, limit int) ([]model.GeoPoint, int64, error) {
	period, err := s.getPeriod(ctx, periodID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierView); err != nil {
		return nil, 0, err
	}
	total, err := s.geoPoints.CountGeoPointsByPeriod(ctx, periodID)
	if err != nil {
		return nil, 0, err
	}
	points, err := s.geoPoints.ListGeoPointsByPeriod(ctx, periodID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return points, total, nil
}

// Create — новая геоточка; уровень редактирования проекта периода.
func (s *GeoPointService) Create(ctx context.Context, actor *model.User, periodID string, gp *model.GeoPoint) (*model.GeoPoint, error) {
	if !model.ValidGravityLevel(gp.GravityLevel) {
		return nil, apperr.Validation("gravity_level must be 1, 2 or 3")
	}
	period, err := s.getPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return nil, err
	}
	gp.PeriodID = periodID
	gp.CreatedBy = &actor.ID
	return s.geoPoints.CreateGeoPoint(ctx, gp)
}

// Get — точка с изображениями; уровень просмотра.
func (s *GeoPointService) Get(ctx context.Context, actor *model.User, id string) (*GeoPointWithImages, error) {
	gp, err := s.getGeoPoint(ctx, id)
	if err != nil {
		return nil, err
	}
	period, err := s.getPeriod(ctx, gp.PeriodID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierView); err != nil {
		return nil, err
	}
	images, err := s.geoPoints.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GeoPointWithImages{GeoPoint: *gp, Images: images}, nil
}

// Update — частичное обновление; уровень редактирования.
func (s *GeoPointService) Update(ctx context.Context, actor *model.User, id string, upd GeoPointUpdate) (*model.GeoPoint, error) {
	gp, err := s.getGeoPoint(ctx, id)
	if err != nil {
		return nil, err
	}
	period, err := s.getPeriod(ctx, gp.PeriodID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if upd.Latitude != nil {
		updates["latitude"] = *upd.Latitude
	}
	if upd.Longitude != nil {
		updates["longitude"] = *upd.Longitude
	}
	if upd.GravityLevel != nil {
		if !model.ValidGravityLevel(*upd.GravityLevel) {
			return nil, apperr.Validation("gravity_level must be 1, 2 or 3")
		}
		updates["gravity_level"] = *upd.GravityLevel
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Kilometer != nil {
		updates["kilometer"] = *upd.Kilometer
	}
	if upd.Section != nil {
		updates["section"] = *upd.Section
	}

	return s.geoPoints.UpdateGeoPoint(ctx, id, updates)
}

// Delete — удаление точки с каскадом изображений; уровень редактирования.
func (s *GeoPointService) Delete(ctx context.Context, actor *model.User, id string) error {
	gp, err := s.getGeoPoint(ctx, id)
	if err != nil {
		return err
	}
	period, err := s.getPeriod(ctx, gp.PeriodID)
	if err != nil {
		return err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return err
	}

	images, err := s.geoPoints.ListImages(ctx, id)
	if err != nil {
		return err
	}
	if err := s.geoPoints.DeleteGeoPoint(ctx, id); err != nil {
		return err
	}
	// диск чистим после БД; отсутствие файлов не ошибка
	for _, img := range images {
		_ = s.store.Delete(img.Path)
	}
	return nil
}

// UploadImage сохраняет изображение точки. Принимаются только image/*;
// при сбое создания записи файл с диска удаляется.
func (s *GeoPointService) UploadImage(ctx context.Context, actor *model.User, geoPointID string, src io.Reader, filename string) (*model.GeoPointImage, error) {
	gp, err := s.getGeoPoint(ctx, geoPointID)
	if err != nil {
		return nil, err
	}
	period, err := s.getPeriod(ctx, gp.PeriodID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return nil, err
	}

	contentType := storage.ContentTypeFor(filename)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("file must be an image")
	}

	dir, err := s.store.CreateUploadDir(period.ProjectID)
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

	img, err := s.geoPoints.CreateImage(ctx, &model.GeoPointImage{
		GeoPointID:  geoPointID,
		FileName:    filename,
		Path:        path,
		Size:        size,
		ContentType: contentType,
		UploadedBy:  &actor.ID,
	})
	if err != nil {
		_ = s.store.Delete(path)
		return nil, apperr.Upload(err)
	}
	return img, nil
}

// ListImages — изображения точки; уровень просмотра.
func (s *GeoPointService) ListImages(ctx context.Context, actor *model.User, geoPointID string) ([]model.GeoPointImage, error) {
	gp, err := s.getGeoPoint(ctx, geoPointID)
	if err != nil {
		return nil, err
	}
	period, err := s.getPeriod(ctx, gp.PeriodID)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierView); err != nil {
		return nil, err
	}
	return s.geoPoints.ListImages(ctx, geoPointID)
}

// DeleteImage — удаление изображения; уровень редактирования.
func (s *GeoPointService) DeleteImage(ctx context.Context, actor *model.User, geoPointID, imageID string) error {
	img, err := s.geoPoints.GetImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("image not found")
		}
		return err
	}
	if img.GeoPointID != geoPointID {
		return apperr.NotFound("image not found")
	}
	gp, err := s.getGeoPoint(ctx, geoPointID)
	if err != nil {
		return err
	}
	period, err := s.getPeriod(ctx, gp.PeriodID)
	if err != nil {
		return err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return err
	}

	if err := s.store.Delete(img.Path); err != nil {
		return err
	}
	return s.geoPoints.DeleteImage(ctx, imageID)
}

func (s *GeoPointService) getGeoPoint(ctx context.Context, id string) (*model.GeoPoint, error) {
	gp, err := s.geoPoints.GetGeoPointByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("geo point not found")
		}
		return nil, err
	}
	return gp, nil
}

func (s *GeoPointService) getPeriod(ctx context.Context, id string) (*model.Period, error) {
	period, err := s.periods.GetPeriodByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("period not found")
		}
		return nil, err
	}
	return period, nil
}

func (s *GeoPointService) requireTier(ctx context.Context, actor *model.User, projectID string, tier Tier) error {
	ok, err := s.access.HasTier(ctx, actor, projectID, tier)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Authorization("not enough permissions for this project")
	}
	return nil
}
