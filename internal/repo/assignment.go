package repo

import (
	"Niquel/internal/model"
	"context"

	"gorm.io/gorm"
)

// AssignmentRepository — контракт доступа к назначениям на проекты.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, a *model.UserAssignment) (*model.UserAssignment, error)
	GetAssignmentByID(ctx context.Context, id string) (*model.UserAssignment, error)
	// GetAssignment ищет назначение по паре (project, user).
	GetAssignment(ctx context.Context, projectID, userID string) (*model.UserAssignment, error)
	ListAssignmentsByProject(ctx context.Context, projectID, role string, skip, limit int) ([]model.UserAssignment, error)
	CountAssignmentsByProject(ctx context.Context, projectID, role string) (int64, error)
	UpdateAssignment(ctx context.Context, id string, updates map[string]any) (*model.UserAssignment, error)
	DeleteAssignment(ctx context.Context, id string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepository создаёт реализацию репозитория для UserAssignment.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) CreateAssignment(ctx context.Context, a *model.UserAssignment) (*model.UserAssignment, error) {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepo) GetAssignmentByID(ctx context.Context, id string) (*model.UserAssignment, error) {
	var a model.UserAssignment
	if err := r.db.WithContext(ctx).Preload("User").First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) GetAssignment(ctx context.Context, projectID, userID string) (*model.UserAssignment, error) {
	var a model.UserAssignment
	err := r.db.WithContext(ctx).
		First(&a, "project_id = ? AND user_id = ?", projectID, userID).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) listQuery(ctx context.Context, projectID, role string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.UserAssignment{}).Where("project_id = ?", projectID)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	return q
}

func (r *assignmentRepo) ListAssignmentsByProject(ctx context.Context, projectID, role string, skip, limit int) ([]model.UserAssignment, error) {
	var assignments []model.UserAssignment
	err := r.listQuery(ctx, projectID, role).
		Preload("User").
		Order("assigned_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CountAssignmentsByProject(ctx context.Context, projectID, role string) (int64, error) {
	var total int64
	err := r.listQuery(ctx, projectID, role).Count(&total).Error
	return total, err
}

func (r *assignmentRepo) UpdateAssignment(ctx context.Context, id string, updates map[string]any) (*model.UserAssignment, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.UserAssignment{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetAssignmentByID(ctx, id)
}

func (r *assignmentRepo) DeleteAssignment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.UserAssignment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
