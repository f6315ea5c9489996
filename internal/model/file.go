package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Категории файлов.
const (
	FileCategoryMap      = "map"
	FileCategoryImage    = "image"
	FileCategoryDocument = "document"
	FileCategoryAnalysis = "analysis"
)

// File — загруженный файл проекта, опционально привязанный к периоду.
// Path — путь на диске; БД считается авторитетным источником.
type File struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Path        string `gorm:"size:512;not null" json:"path"`
	Size        int64  `gorm:"not null" json:"size"`
	ContentType string `gorm:"size:255;not null" json:"content_type"`
	Category    string `gorm:"size:16;not null" json:"category"`

	ProjectID *string `gorm:"type:uuid;index" json:"project_id,omitempty"`
	PeriodID  *string `gorm:"type:uuid;index" json:"period_id,omitempty"`

	UploadedBy *string   `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	UploadDate time.Time `gorm:"autoCreateTime" json:"upload_date"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// ValidFileCategory проверяет категорию файла.
func ValidFileCategory(c string) bool {
	switch c {
	case FileCategoryMap, FileCategoryImage, FileCategoryDocument, FileCategoryAnalysis:
		return true
	}
	return false
}
