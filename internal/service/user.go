package service

import (
	"Niquel/internal/apperr"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService — регистрация, аутентификация и управление учётными записями.
type UserService struct {
	users repo.UserRepository
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repo.UserRepository) *UserService {
	return &UserService{users: users}
}

// UserUpdate — частичное обновление пользователя: применяются только
// заданные поля. Роль и is_active может менять только глобальный админ.
type UserUpdate struct {
	Email    *string
	Name     *string
	Password *string
	Role     *string
	IsActive *bool
}

// Register создаёт пользователя. Дубликат email — конфликт.
func (s *UserService) Register(ctx context.Context, email, password, name, role string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	if role == "" {
		role = model.RoleRegular
	}
	if !model.ValidRole(role) {
		return nil, apperr.Validation("invalid role")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.CreateUser(ctx, &model.User{
		Email:          email,
		HashedPassword: string(hash),
		Name:           name,
		Role:           role,
		IsActive:       true,
	})
}

// Authenticate проверяет пару email/пароль и активность учётной записи.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("incorrect email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, apperr.Authentication("incorrect email or password")
	}
	if !user.IsActive {
		return nil, apperr.Authentication("inactive user")
	}
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

// GetForActor — чтение пользователя: свой профиль или глобальный админ.
func (s *UserService) GetForActor(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return nil, apperr.Authorization("not enough permissions")
	}
	return s.GetByID(ctx, id)
}

// List — список пользователей (только для глобального админа).
func (s *UserService) List(ctx context.Context, actor *model.User, skip, limit int) ([]model.User, int64, error) {
	if actor.Role != model.RoleAdmin {
		return nil, 0, apperr.Authorization("not enough permissions")
	}
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.users.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Create — создание пользователя админом.
func (s *UserService) Create(ctx context.Context, actor *model.User, email, password, name, role string) (*model.User, error) {
	if actor.Role != model.RoleAdmin {
		return nil, apperr.Authorization("not enough permissions")
	}
	return s.Register(ctx, email, password, name, role)
}

// Update — частичное обновление. Не-админ может менять только свой
// профиль; поля role/is_active молча игнорируются для не-админа.
func (s *UserService) Update(ctx context.Context, actor *model.User, id string, upd UserUpdate) (*model.User, error) {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return nil, apperr.Authorization("not enough permissions")
	}

	updates := map[string]any{}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Role != nil && actor.Role == model.RoleAdmin {
		if !model.ValidRole(*upd.Role) {
			return nil, apperr.Validation("invalid role")
		}
		updates["role"] = *upd.Role
	}
	if upd.IsActive != nil && actor.Role == model.RoleAdmin {
		updates["is_active"] = *upd.IsActive
	}
	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["hashed_password"] = string(hash)
	}

	user, err := s.users.UpdateUser(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, err
	}
	return user, nil
}

// Delete — удаление пользователя админом. Удалить самого себя нельзя,
// даже глобальному админу.
func (s *UserService) Delete(ctx context.Context, actor *model.User, id string) error {
	if actor.Role != model.RoleAdmin {
		return apperr.Authorization("not enough permissions")
	}
	if actor.ID == id {
		return apperr.Validation("cannot delete your own user")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	return nil
}
