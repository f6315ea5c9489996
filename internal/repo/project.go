package repo

import (
	"Niquel/internal/model"
	"context"

	"gorm.io/gorm"
)

// ProjectFilter — фильтры выборки проектов.
// VisibleToUserID ограничивает список проектами, где пользователь
// владелец или назначен (для пользователей без глобального доступа).
type ProjectFilter struct {
	Type            string
	Status          string
	VisibleToUserID string
}

// ProjectStats — счётчики дочерних сущностей проекта.
type ProjectStats struct {
	PeriodCount        int64 `json:"period_count"`
	FileCount          int64 `json:"file_count"`
	AssignedUsersCount int64 `json:"assigned_users_count"`
}

// ProjectRepository — контракт доступа к проектам.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) (*model.Project, error)
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter, skip, limit int) ([]model.Project, error)
	CountProjects(ctx context.Context, filter ProjectFilter) (int64, error)
	UpdateProject(ctx context.Context, id string, updates map[string]any) (*model.Project, error)
	// DeleteProject удаляет проект и каскадом периоды, файлы и назначения.
	DeleteProject(ctx context.Context, id string) error
	GetProjectStats(ctx context.Context, id string) (*ProjectStats, error)
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepository создаёт реализацию репозитория для Project.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Preload("Owner").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) filtered(ctx context.Context, filter ProjectFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Project{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.VisibleToUserID != "" {
		q = q.Where(
			"owner_id = ? OR id IN (?)",
			filter.VisibleToUserID,
			r.db.Model(&model.UserAssignment{}).
				Select("project_id").
				Where("user_id = ?", filter.VisibleToUserID),
		)
	}
	return q
}

func (r *projectRepo) ListProjects(ctx context.Context, filter ProjectFilter, skip, limit int) ([]model.Project, error) {
	var projects []model.Project
	err := r.filtered(ctx, filter).
		Order("name").
		Offset(skip).
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) CountProjects(ctx context.Context, filter ProjectFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, filter).Count(&total).Error
	return total, err
}

func (r *projectRepo) UpdateProject(ctx context.Context, id string, updates map[string]any) (*model.Project, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetProjectByID(ctx, id)
}

func (r *projectRepo) DeleteProject(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProjectCascade(tx, id)
	})
}

// deleteProjectCascade — явный каскад вместо живого графа ORM:
// периоды (со своими детьми), файлы проекта, назначения, сам проект.
func deleteProjectCascade(tx *gorm.DB, projectID string) error {
	var periods []model.Period
	if err := tx.Select("id").Find(&periods, "project_id = ?", projectID).Error; err != nil {
		return err
	}
	for _, p := range periods {
		if err := deletePeriodCascade(tx, p.ID); err != nil {
			return err
		}
	}
	if err := tx.Delete(&model.File{}, "project_id = ?", projectID).Error; err != nil {
		return err
	}
	if err := tx.Delete(&model.UserAssignment{}, "project_id = ?", projectID).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Project{}, "id = ?", projectID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepo) GetProjectStats(ctx context.Context, id string) (*ProjectStats, error) {
	db := r.db.WithContext(ctx)
	var stats ProjectStats
	if err := db.Model(&model.Period{}).Where("project_id = ?", id).Count(&stats.PeriodCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.File{}).Where("project_id = ?", id).Count(&stats.FileCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.UserAssignment{}).Where("project_id = ?", id).Count(&stats.AssignedUsersCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
