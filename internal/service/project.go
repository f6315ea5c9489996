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

// ProjectService — CRUD проектов поверх политики доступа.
type ProjectService struct {
	projects repo.ProjectRepository
	access   *AccessService
}

// NewProjectService создаёт сервис проектов.
func NewProjectService(projects repo.ProjectRepository, access *AccessService) *ProjectService {
	return &ProjectService{projects: projects, access: access}
}

// ProjectUpdate — частичное обновление проекта.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Location    *string
	Type        *string
	Status      *string
	StartDate   *time.Time
}

// ProjectWithStats — проект со счётчиками детей.
type ProjectWithStats struct {
	model.Project
	repo.ProjectStats
}

// List — проекты, видимые пользователю: админ и менеджер видят все,
// остальные — собственные и назначенные.
func (s *ProjectService) List(ctx context.Context, actor *model.User, typ, status string, skip, limit int) ([]model.Project, int64, error) {
	filter := repo.ProjectFilter{Type: typ, Status: status}
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleManager {
		filter.VisibleToUserID = actor.ID
	}

	total, err := s.projects.CountProjects(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	projects, err := s.projects.ListProjects(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Create — новый проект; создатель становится владельцем.
func (s *ProjectService) Create(ctx context.Context, actor *model.User, p *model.Project) (*model.Project, error) {
	if p.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if !model.ValidProjectType(p.Type) {
		return nil, apperr.Validation("invalid project type")
	}
	if p.Status != "" && !model.ValidProjectStatus(p.Status) {
		return nil, apperr.Validation("invalid project status")
	}
	p.OwnerID = actor.ID
	return s.projects.CreateProject(ctx, p)
}

// Get — проект со статистикой; требуется уровень просмотра.
func (s *ProjectService) Get(ctx context.Context, actor *model.User, id string) (*ProjectWithStats, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, id, TierView); err != nil {
		return nil, err
	}
	stats, err := s.projects.GetProjectStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectWithStats{Project: *project, ProjectStats: *stats}, nil
}

// Update — частичное обновление; требуется уровень редактирования.
func (s *ProjectService) Update(ctx context.Context, actor *model.User, id string, upd ProjectUpdate) (*model.Project, error) {
	if _, err := s.getProject(ctx, id); err != nil {
		return nil, err
	}
	if err := s.requireTier(ctx, actor, id, TierEdit); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Location != nil {
		updates["location"] = *upd.Location
	}
	if upd.Type != nil {
		if !model.ValidProjectType(*upd.Type) {
			return nil, apperr.Validation("invalid project type")
		}
		updates["type"] = *upd.Type
	}
	if upd.Status != nil {
		if !model.ValidProjectStatus(*upd.Status) {
			return nil, apperr.Validation("invalid project status")
		}
		updates["status"] = *upd.Status
	}
	if upd.StartDate != nil {
		updates["start_date"] = *upd.StartDate
	}

	return s.projects.UpdateProject(ctx, id, updates)
}

// Delete — удаление с каскадом; требуется уровень администрирования.
func (s *ProjectService) Delete(ctx context.Context, actor *model.User, id string) error {
	if _, err := s.getProject(ctx, id); err != nil {
		return err
	}
	if err := s.requireTier(ctx, actor, id, TierAdmin); err != nil {
		return err
	}
	return s.projects.DeleteProject(ctx, id)
}

func (s *ProjectService) getProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("project not found")
		}
		return nil, err
	}
	return project, nil
}

// requireTier переводит отказ политики в ошибку авторизации.
func (s *ProjectService) requireTier(ctx context.Context, actor *model.User, projectID string, tier Tier) error {
	ok, err := s.access.HasTier(ctx, actor, projectID, tier)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Authorization("not enough permissions for this project")
	}
	return nil
}
