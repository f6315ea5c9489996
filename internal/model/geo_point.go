package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeoPoint — геоточка наблюдения внутри периода.
// gravity_level: 1 — зелёный, 2 — жёлтый, 3 — красный.
type GeoPoint struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	PeriodID string  `gorm:"type:uuid;not null;index" json:"period_id"`
	Period   *Period `gorm:"foreignKey:PeriodID;constraint:OnDelete:CASCADE" json:"-"`

	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	GravityLevel int `gorm:"not null;default:1" json:"gravity_level"`

	Description *string  `gorm:"type:text" json:"description,omitempty"`
	Kilometer   *float64 `json:"kilometer,omitempty"`
	Section     *string  `gorm:"size:255" json:"section,omitempty"`

	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (g *GeoPoint) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// ValidGravityLevel проверяет уровень опасности.
func ValidGravityLevel(level int) bool {
	return level >= 1 && level <= 3
}
