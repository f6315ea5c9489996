package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Глобальные роли пользователя.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleRegular = "regular"
)

// User — учётная запись с глобальной ролью.
type User struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Email          string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"size:255;not null" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Role     string `gorm:"size:16;not null;default:regular" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ValidRole проверяет значение глобальной роли.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleRegular:
		return true
	}
	return false
}
