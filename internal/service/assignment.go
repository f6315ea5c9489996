package service

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"context"
	"errors"

	"gorm.io/gorm"
)

// AssignmentService — назначения пользователей на проекты.
// Все мутации требуют уровня администрирования проекта.
type AssignmentService struct {
	assignments repo.AssignmentRepository
	projects    repo.ProjectRepository
	users       repo.UserRepository
	access      *AccessService
}

// NewAssignmentService создаёт сервис назначений.
func NewAssignmentService(
	assignments repo.AssignmentRepository,
	projects repo.ProjectRepository,
	users repo.UserRepository,
	access *AccessService,
) *AssignmentService {
	return &AssignmentService{assignments: assignments, projects: projects, users: users, access: access}
}

// ListByProject — назначения проекта; уровень просмотра.
func (s *AssignmentService) ListByProject(ctx context.Context, actor *model.User, projectID, role string, skip, limit int) ([]model.UserAssignment, int64, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, 0, err
	}
	if err := s.requireTier(ctx, actor, projectID, TierView); err != nil {
		return nil, 0, err
	}
	total, err := s.assignments.CountAssignmentsByProject(ctx, projectID, role)
	if err != nil {
		return nil, 0, err
	}
	assignments, err := s.assignments.ListAssignmentsByProject(ctx, projectID, role, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// Create — новое назначение; повтор пары (user, project) — конфликт.
func (s *AssignmentService) Create(ctx context.Context, actor *model.User, projectID, userID, role string) (*model.UserAssignment, error) {
	if !model.ValidAssignmentRole(role) {
		return nil, apperr.Validation("invalid assignment role")
	}
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, projectID, TierAdmin); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	if _, err := s.assignments.GetAssignment(ctx, projectID, userID); err == nil {
		return nil, apperr.Conflict("user is already assigned to this project")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.assignments.CreateAssignment(ctx, &model.UserAssignment{
		UserID:     userID,
		ProjectID:  projectID,
		Role:       role,
		AssignedBy: &actor.ID,
	})
}

// Get — назначение с данными пользователя; уровень просмотра проекта.
func (s *AssignmentService) Get(ctx context.Context, actor *model.User, id string) (*model.UserAssignment, error) {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, a.ProjectID, TierView); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateRole — смена роли назначения; уровень администрирования.
func (s *AssignmentService) UpdateRole(ctx context.Context, actor *model.User, id, role string) (*model.UserAssignment, error) {
	if !model.ValidAssignmentRole(role) {
		return nil, apperr.Validation("invalid assignment role")
	}
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, a.ProjectID, TierAdmin); err != nil {
		return nil, err
	}
	return s.assignments.UpdateAssignment(ctx, id, map[string]any{"role": role})
}

// Delete — снятие назначения; уровень администрирования.
func (s *AssignmentService) Delete(ctx context.Context, actor *model.User, id string) error {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireTier(ctx, actor, a.ProjectID, TierAdmin); err != nil {
		return err
	}
	return s.assignments.DeleteAssignment(ctx, id)
}

// BatchAssign назначает роль списку пользователей: существующее
// назначение обновляется на месте, новое создаётся. Неизвестные
// идентификаторы молча пропускаются — это частичный успех по замыслу,
// не ошибка.
func (s *AssignmentService) BatchAssign(ctx context.Context, actor *model.User, projectID, role string, userIDs []string) ([]model.UserAssignment, error) {
	if !model.ValidAssignmentRole(role) {
		return nil, apperr.Validation("invalid assignment role")
	}
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, projectID, TierAdmin); err != nil {
		return nil, err
	}

	result := make([]model.UserAssignment, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, err := s.users.GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // пропускаем несуществующих пользователей
			}
			return nil, err
		}

		existing, err := s.assignments.GetAssignment(ctx, projectID, userID)
		switch {
		case err == nil:
			updated, uerr := s.assignments.UpdateAssignment(ctx, existing.ID, map[string]any{"role": role})
			if uerr != nil {
				return nil, uerr
			}
			result = append(result, *updated)
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, cerr := s.assignments.CreateAssignment(ctx, &model.UserAssignment{
				UserID:     userID,
				ProjectID:  projectID,
				Role:       role,
				AssignedBy: &actor.ID,
			})
			if cerr != nil {
				return nil, cerr
			}
			result = append(result, *created)
		default:
			return nil, err
		}
	}
	return result, nil
}

func (s *AssignmentService) getProject(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	return project, nil
}

func (s *AssignmentService) getAssignment(ctx context.Context, id string) (*model.UserAssignment, error) {
	a, err := s.assignments.GetAssignmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment not found")
		}
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) requireTier(ctx context.Context, actor *model.User, projectID string, tier Tier) error {
	ok, err := s.access.HasTier(ctx, actor, projectID, tier)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Authorization("not enough permissions for this project")
	}
	return nil
}
