package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Period — временной интервал наблюдений внутри проекта.
// KmlFileID — необязательная ссылка на карту (files.id), не владение.
type Period struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	ProjectID string   `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`

	Name      string    `gorm:"size:255;not null" json:"name"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	// Гидрометрия (опционально)
	Volume    *float64 `json:"volume,omitempty"`
	StartTime *string  `gorm:"size:16" json:"start_time,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	MaxDepth  *float64 `json:"max_depth,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`
	KmlFileID *string `gorm:"type:uuid" json:"kml_file_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Period) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
