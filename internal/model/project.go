package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Типы проектов (закрытый список).
const (
	ProjectTypeHydrology    = "Hidrología"
	ProjectTypeConservation = "Conservación"
	ProjectTypeMonitoring   = "Monitoreo"
	ProjectTypeAnalysis     = "Análisis"
	ProjectTypeRestoration  = "Restauración"
)

// Статусы проекта.
const (
	ProjectStatusPlanning   = "Planificación"
	ProjectStatusInProgress = "En progreso"
	ProjectStatusInReview   = "En revisión"
	ProjectStatusCompleted  = "Completado"
)

// Project — проект мониторинга водных ресурсов. Ровно один владелец,
// владение не передаётся.
type Project struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Location    string `gorm:"size:255" json:"location,omitempty"`

	Type   string `gorm:"size:32;not null" json:"type"`
	Status string `gorm:"size:32;not null;default:Planificación" json:"status"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`

	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = ProjectStatusPlanning
	}
	return nil
}

// ValidProjectType проверяет тип проекта.
func ValidProjectType(t string) bool {
	switch t {
	case ProjectTypeHydrology, ProjectTypeConservation, ProjectTypeMonitoring,
		ProjectTypeAnalysis, ProjectTypeRestoration:
		return true
	}
	return false
}

// ValidProjectStatus проверяет статус проекта.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusInReview,
		ProjectStatusCompleted:
		return true
	}
	return false
}
