package main

import (
	"Niquel/internal/config"
	"Niquel/internal/handlers"
	"Niquel/internal/middleware"
	"Niquel/internal/repo"
	"Niquel/internal/service"
	"Niquel/internal/storage"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	projectRepo := repo.NewProjectRepository(gormDB)
	periodRepo := repo.NewPeriodRepository(gormDB)
	fileRepo := repo.NewFileRepository(gormDB)
	assignmentRepo := repo.NewAssignmentRepository(gormDB)
	geoPointRepo := repo.NewGeoPointRepository(gormDB)

	store := storage.NewStorage(cfg.UploadDir, cfg.MaxUploadSizeBytes())
	access := service.NewAccessService(projectRepo, assignmentRepo)

	h := handlers.NewHandler(handlers.Services{
		Users:       service.NewUserService(userRepo),
		Projects:    service.NewProjectService(projectRepo, access),
		Periods:     service.NewPeriodService(periodRepo, access),
		Files:       service.NewFileService(fileRepo, periodRepo, access, store),
		Assignments: service.NewAssignmentService(assignmentRepo, projectRepo, userRepo, access),
		GeoPoints:   service.NewGeoPointService(geoPointRepo, periodRepo, access, store),
	}, sugar, cfg)

	sugar.Infow(
		"Starting server",
		"addr", cfg.RunAddr,
	)

	sugar.Infow("Config",
		"RunAddr", cfg.RunAddr,
		"UploadDir", cfg.UploadDir,
		"MaxUploadSizeMB", cfg.MaxUploadSizeMB,
	)

	if err := http.ListenAndServe(cfg.RunAddr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
