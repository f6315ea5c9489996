package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeoPointImage — изображение, привязанное к геоточке.
type GeoPointImage struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	GeoPointID string    `gorm:"type:uuid;not null;index" json:"geo_point_id"`
	GeoPoint   *GeoPoint `gorm:"foreignKey:GeoPointID;constraint:OnDelete:CASCADE" json:"-"`

	FileName    string `gorm:"size:255;not null" json:"file_name"`
	Path        string `gorm:"size:512;not null" json:"path"`
	Size        int64  `gorm:"not null" json:"size"`
	ContentType string `gorm:"size:255;not null" json:"content_type"`

	UploadedBy *string   `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	UploadDate time.Time `gorm:"autoCreateTime" json:"upload_date"`
}

func (g *GeoPointImage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
