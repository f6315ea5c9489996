package repo

import (
	"Niquel/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository — контракт доступа к учётным записям.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	// UpdateUser применяет только поля из updates.
	UpdateUser(ctx context.Context, id string, updates map[string]any) (*model.User, error)
	// DeleteUser удаляет пользователя и каскадом его собственные проекты.
	DeleteUser(ctx context.Context, id string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ListUsers(ctx context.Context, skip, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("name").
		Offset(skip).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

func (r *userRepo) UpdateUser(ctx context.Context, id string, updates map[string]any) (*model.User, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetUserByID(ctx, id)
}

// DeleteUser — явный каскад: собственные проекты пользователя удаляются
// вместе со своими детьми, затем назначения, затем сама учётная запись.
func (r *userRepo) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []model.Project
		if err := tx.Select("id").Find(&owned, "owner_id = ?", id).Error; err != nil {
			return err
		}
		for _, p := range owned {
			if err := deleteProjectCascade(tx, p.ID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&model.UserAssignment{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
