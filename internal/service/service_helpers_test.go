package service

import (
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"context"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует in-memory SQLite (modernc.org/sqlite) для сервисных тестов
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
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

// newTestAccess собирает политику доступа поверх реальных репозиториев
func newTestAccess(db *gorm.DB) *AccessService {
	return NewAccessService(repo.NewProjectRepository(db), repo.NewAssignmentRepository(db))
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	u := &model.User{Email: email, HashedPassword: "hash", Name: email, Role: role, IsActive: true}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedProject(t *testing.T, db *gorm.DB, name, ownerID string) *model.Project {
	t.Helper()
	p := &model.Project{
		Name:      name,
		Type:      model.ProjectTypeHydrology,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:   ownerID,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return p
}

func seedPeriod(t *testing.T, db *gorm.DB, projectID, name string) *model.Period {
	t.Helper()
	p := &model.Period{
		ProjectID: projectID,
		Name:      name,
		StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed period: %v", err)
	}
	return p
}

func assign(t *testing.T, db *gorm.DB, userID, projectID, role string) *model.UserAssignment {
	t.Helper()
	a := &model.UserAssignment{UserID: userID, ProjectID: projectID, Role: role}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	return a
}

func testCtx() context.Context { return context.Background() }
