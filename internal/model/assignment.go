package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Роли назначения на проект (независимы от глобальной роли).
const (
	AssignmentRoleViewer = "viewer"
	AssignmentRoleEditor = "editor"
	AssignmentRoleAdmin  = "admin"
)

// UserAssignment — назначение пользователя на проект с ролью.
// Инвариант: не более одного назначения на пару (user, project).
type UserAssignment struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	UserID    string   `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_user_project" json:"user_id"`
	ProjectID string   `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_user_project" json:"project_id"`
	User      *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`

	Role string `gorm:"size:16;not null;default:viewer" json:"role"`

	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
	AssignedBy *string   `gorm:"type:uuid" json:"assigned_by,omitempty"`
}

func (a *UserAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ValidAssignmentRole проверяет роль назначения.
func ValidAssignmentRole(role string) bool {
	switch role {
	case AssignmentRoleViewer, AssignmentRoleEditor, AssignmentRoleAdmin:
		return true
	}
	return false
}
