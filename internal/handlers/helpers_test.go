package handlers_test

import (
	"Niquel/internal/config"
	"Niquel/internal/handlers"
	"Niquel/internal/middleware"
	"Niquel/internal/model"
	"Niquel/internal/repo"
	"Niquel/internal/service"
	"Niquel/internal/storage"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

// testEnv — полный роутер поверх in-memory SQLite и временного каталога.
type testEnv struct {
	router http.Handler
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file::memory:"}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Project{}, &model.Period{}, &model.File{},
		&model.GeoPoint{}, &model.GeoPointImage{}, &model.UserAssignment{},
	); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	cfg := &config.Config{
		AuthSecret:      testSecret,
		TokenTTLMinutes: 60,
		UploadDir:       t.TempDir(),
		MaxUploadSizeMB: 1,
	}
	logger := zap.NewNop().Sugar()
	middleware.SetLogger(logger)

	userRepo := repo.NewUserRepository(db)
	projectRepo := repo.NewProjectRepository(db)
	periodRepo := repo.NewPeriodRepository(db)
	fileRepo := repo.NewFileRepository(db)
	assignmentRepo := repo.NewAssignmentRepository(db)
	geoPointRepo := repo.NewGeoPointRepository(db)

	store := storage.NewStorage(cfg.UploadDir, cfg.MaxUploadSizeBytes())
	access := service.NewAccessService(projectRepo, assignmentRepo)

	h := handlers.NewHandler(handlers.Services{
		Users:       service.NewUserService(userRepo),
		Projects:    service.NewProjectService(projectRepo, access),
		Periods:     service.NewPeriodService(periodRepo, access),
		Files:       service.NewFileService(fileRepo, periodRepo, access, store),
		Assignments: service.NewAssignmentService(assignmentRepo, projectRepo, userRepo, access),
		GeoPoints:   service.NewGeoPointService(geoPointRepo, periodRepo, access, store),
	}, logger, cfg)

	return &testEnv{router: h.Router, db: db}
}

// seedUser создаёт пользователя с паролем "secret123".
func (e *testEnv) seedUser(t *testing.T, email, role string) *model.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	u := &model.User{Email: email, HashedPassword: string(hash), Name: email, Role: role, IsActive: true}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func (e *testEnv) seedProject(t *testing.T, name, ownerID string) *model.Project {
	t.Helper()
	p := &model.Project{
		Name:      name,
		Type:      model.ProjectTypeHydrology,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		OwnerID:   ownerID,
	}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return p
}

func (e *testEnv) seedPeriod(t *testing.T, projectID string) *model.Period {
	t.Helper()
	p := &model.Period{
		ProjectID: projectID,
		Name:      "Mayo 2024",
		StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed period: %v", err)
	}
	return p
}

func (e *testEnv) assign(t *testing.T, userID, projectID, role string) *model.UserAssignment {
	t.Helper()
	a := &model.UserAssignment{UserID: userID, ProjectID: projectID, Role: role}
	if err := e.db.Create(a).Error; err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	return a
}

// addAuth подписывает запрос bearer-токеном пользователя.
func addAuth(t *testing.T, req *http.Request, userID string) {
	t.Helper()
	token, err := middleware.BuildJWTString(userID, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// do выполняет запрос против роутера.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
