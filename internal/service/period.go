package service

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// PeriodService — периоды наблюдений внутри проектов.
type PeriodService struct {
	periods repo.PeriodRepository
	access  *AccessService
}

// NewPeriodService создаёт сервис периодов.
func NewPeriodService(periods repo.PeriodRepository, access *AccessService) *PeriodService {
	return &PeriodService{periods: periods, access: access}
}

// PeriodUpdate — частичное обновление периода.
// KmlFileID со значением nil игнорируется: явная очистка ссылки на
// kml-файл не применяется (унаследованная особенность, сохранена).
type PeriodUpdate struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	Volume    *float64
	StartTime *string
	Width     *float64
	MaxDepth  *float64
	Notes     *string
	KmlFileID *string
}

// PeriodWithDetails — период с количеством файлов.
type PeriodWithDetails struct {
	model.Period
	FileCount int64 `json:"file_count"`
}

// ListByProject — страницы периодов проекта; уровень просмотра.
func (s *PeriodService) ListByProject(ctx context.Context, actor *model.User, projectID string, skip, limit int) ([]model.Period, int64, error) {
	if err := s.requireTier(ctx, actor, projectID, TierView); err != nil {
		return nil, 0, err
	}
	total, err := s.periods.CountPeriodsByProject(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	periods, err := s.periods.ListPeriodsByProject(ctx, projectID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return periods, total, nil
}

// Create — новый период; уровень редактирования проекта.
func (s *PeriodService) Create(ctx context.Context, actor *model.User, projectID string, p *model.Period) (*model.Period, error) {
	if p.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := s.requireTier(ctx, actor, projectID, TierEdit); err != nil {
		return nil, err
	}
	p.ProjectID = projectID
	p.CreatedBy = &actor.ID
	return s.periods.CreatePeriod(ctx, p)
}

// Get — период с количеством файлов; уровень просмотра.
func (s *PeriodService) Get(ctx context.Context, actor *model.User, id string) (*PeriodWithDetails, error) {
	period, err := s.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierView); err != nil {
		return nil, err
	}
	fileCount, err := s.periods.CountFilesByPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PeriodWithDetails{Period: *period, FileCount: fileCount}, nil
}

// Update — частичное обновление; уровень редактирования.
func (s *PeriodService) Update(ctx context.Context, actor *model.User, id string, upd PeriodUpdate) (*model.Period, error) {
	period, err := s.getPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.StartDate != nil {
		updates["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		updates["end_date"] = *upd.EndDate
	}
	if upd.Volume != nil {
		updates["volume"] = *upd.Volume
	}
	if upd.StartTime != nil {
		updates["start_time"] = *upd.StartTime
	}
	if upd.Width != nil {
		updates["width"] = *upd.Width
	}
	if upd.MaxDepth != nil {
		updates["max_depth"] = *upd.MaxDepth
	}
	if upd.Notes != nil {
		updates["notes"] = *upd.Notes
	}
	// kml_file_id меняется только на непустое значение; очистка игнорируется
	if upd.KmlFileID != nil && *upd.KmlFileID != "" {
		updates["kml_file_id"] = *upd.KmlFileID
	}

	return s.periods.UpdatePeriod(ctx, id, updates)
}

// Delete — удаление с каскадом файлов и геоточек. Достаточно уровня
// редактирования: удаление детей проекта намеренно не требует
// администрирования, в отличие от удаления самого проекта.
func (s *PeriodService) Delete(ctx context.Context, actor *model.User, id string) error {
	period, err := s.getPeriod(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireTier(ctx, actor, period.ProjectID, TierEdit); err != nil {
		return err
	}
	return s.periods.DeletePeriod(ctx, id)
}

// GetRaw возвращает период без проверки доступа — для разрешения
// project_id в смежных сервисах.
func (s *PeriodService) GetRaw(ctx context.Context, id string) (*model.Period, error) {
	return s.getPeriod(ctx, id)
}

func (s *PeriodService) getPeriod(ctx context.Context, id string) (*model.Period, error) {
	period, err := s.periods.GetPeriodByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("period not found")
		}
		return nil, err
	}
	return period, nil
}

func (s *PeriodService) requireTier(ctx context.Context, actor *model.User, projectID string, tier Tier) error {
	ok, err := s.access.HasTier(ctx, actor, projectID, tier)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Authorization("not enough permissions for this project")
	}
	return nil
}
