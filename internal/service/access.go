package service

import (
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"context"
	"errors"

	"gorm.io/gorm"
)

// Tier — уровень доступа к проекту. Каждый следующий включает предыдущий.
type Tier int

const (
	TierView Tier = iota + 1
	TierEdit
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierView:
		return "view"
	case TierEdit:
		return "edit"
	case TierAdmin:
		return "admin"
	}
	return "unknown"
}

// AccessService — политика доступа к проектам: глобальная роль,
// владение и назначения. Только чтение, без побочных эффектов.
type AccessService struct {
	projects    repo.ProjectRepository
	assignments repo.AssignmentRepository
}

// NewAccessService создаёт политику доступа.
func NewAccessService(projects repo.ProjectRepository, assignments repo.AssignmentRepository) *AccessService {
	return &AccessService{projects: projects, assignments: assignments}
}

// HasTier решает, располагает ли пользователь уровнем tier на проекте.
// Глобальный админ и владелец получают любой уровень безусловно;
// назначение с более слабой ролью владельца не ограничивает.
// Существование проекта проверяет вызывающая сторона.
func (s *AccessService) HasTier(ctx context.Context, user *model.User, projectID string, tier Tier) (bool, error) {
	if user.Role == model.RoleAdmin {
		return true, nil
	}

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if project.OwnerID == user.ID {
		return true, nil
	}

	a, err := s.assignments.GetAssignment(ctx, projectID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	switch tier {
	case TierView:
		return true, nil
	case TierEdit:
		return a.Role == model.AssignmentRoleEditor || a.Role == model.AssignmentRoleAdmin, nil
	case TierAdmin:
		return a.Role == model.AssignmentRoleAdmin, nil
	}
	return false, nil
}

// CanView — уровень просмотра: чтение проекта и его детей.
func (s *AccessService) CanView(ctx context.Context, user *model.User, projectID string) (bool, error) {
	return s.HasTier(ctx, user, projectID, TierView)
}

// CanEdit — уровень редактирования: создание и изменение детей проекта.
func (s *AccessService) CanEdit(ctx context.Context, user *model.User, projectID string) (bool, error) {
	return s.HasTier(ctx, user, projectID, TierEdit)
}

// CanAdmin — уровень администрирования: назначения и удаление проекта.
func (s *AccessService) CanAdmin(ctx context.Context, user *model.User, projectID string) (bool, error) {
	return s.HasTier(ctx, user, projectID, TierAdmin)
}
