package repo

import (
	"Niquel/internal/model"
	"context"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для тестов репозиториев
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	// Миграции для всех моделей, используемых в репозиториях
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Period{},
		&model.File{},
		&model.GeoPoint{},
		&model.GeoPointImage{},
		&model.UserAssignment{},
	); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

// seedUser создаёт пользователя для тестов
func seedUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	u := &model.User{Email: email, HashedPassword: "hash", Name: email, Role: role, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

// seedProject создаёт проект с владельцем
func seedProject(t *testing.T, db *gorm.DB, name, ownerID string) *model.Project {
	t.Helper()
	p := &model.Project{
		Name:      name,
		Type:      model.ProjectTypeMonitoring,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:   ownerID,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return p
}

// seedPeriod создаёт период внутри проекта
func seedPeriod(t *testing.T, db *gorm.DB, projectID, name string) *model.Period {
	t.Helper()
	p := &model.Period{
		ProjectID: projectID,
		Name:      name,
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed period: %v", err)
	}
	return p
}

func testCtx() context.Context { return context.Background() }
