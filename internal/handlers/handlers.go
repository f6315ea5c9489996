package handlers

import (
	"Niquel/internal/config"
	"Niquel/internal/middleware"
	"Niquel/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — все сервисы, нужные роутеру.
type Services struct {
	Users       *service.UserService
	Projects    *service.ProjectService
	Periods     *service.PeriodService
	Files       *service.FileService
	Assignments *service.AssignmentService
	GeoPoints   *service.GeoPointService
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, logger *zap.SugaredLogger, cfg *config.Config) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.WithAuth(cfg.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(svc.Users, logger, cfg)
	userHandler := NewUserHandler(svc.Users, logger)
	projectHandler := NewProjectHandler(svc.Projects, svc.Users, logger)
	periodHandler := NewPeriodHandler(svc.Periods, svc.Users, logger)
	fileHandler := NewFileHandler(svc.Files, svc.Users, logger, cfg)
	assignmentHandler := NewAssignmentHandler(svc.Assignments, svc.Users, logger)
	geoPointHandler := NewGeoPointHandler(svc.GeoPoints, svc.Users, logger, cfg)

	r.Get("/", welcome)
	r.Get("/health", health)

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/token", authHandler.Token)
		r.Post("/auth/register", authHandler.Register)

		// Users
		r.Get("/users", userHandler.List)
		r.Post("/users", userHandler.Create)
		r.Get("/users/me", userHandler.Me)
		r.Put("/users/me", userHandler.UpdateMe)
		r.Get("/users/{id}", userHandler.Get)
		r.Put("/users/{id}", userHandler.Update)
		r.Delete("/users/{id}", userHandler.Delete)

		// Projects
		r.Get("/projects", projectHandler.List)
		r.Post("/projects", projectHandler.Create)
		r.Get("/projects/{id}", projectHandler.Get)
		r.Put("/projects/{id}", projectHandler.Update)
		r.Delete("/projects/{id}", projectHandler.Delete)

		// Periods
		r.Get("/projects/{id}/periods", periodHandler.ListByProject)
		r.Post("/projects/{id}/periods", periodHandler.Create)
		r.Get("/periods/{id}", periodHandler.Get)
		r.Put("/periods/{id}", periodHandler.Update)
		r.Delete("/periods/{id}", periodHandler.Delete)

		// Files
		r.Get("/files", fileHandler.List)
		r.Post("/files", fileHandler.Upload)
		r.Get("/files/{id}", fileHandler.Get)
		r.Get("/files/{id}/download", fileHandler.Download)
		r.Put("/files/{id}", fileHandler.Update)
		r.Delete("/files/{id}", fileHandler.Delete)

		// Assignments
		r.Get("/projects/{id}/assignments", assignmentHandler.ListByProject)
		r.Post("/projects/{id}/assignments", assignmentHandler.Create)
		r.Post("/projects/{id}/batch-assign", assignmentHandler.BatchAssign)
		r.Get("/assignments/{id}", assignmentHandler.Get)
		r.Put("/assignments/{id}", assignmentHandler.Update)
		r.Delete("/assignments/{id}", assignmentHandler.Delete)

		// Geo points
		r.Get("/periods/{id}/geo-points", geoPointHandler.ListByPeriod)
		r.Post("/periods/{id}/geo-points", geoPointHandler.Create)
		r.Get("/geo-points/{id}", geoPointHandler.Get)
		r.Put("/geo-points/{id}", geoPointHandler.Update)
		r.Delete("/geo-points/{id}", geoPointHandler.Delete)
		r.Post("/geo-points/{id}/images", geoPointHandler.UploadImage)
		r.Get("/geo-points/{id}/images", geoPointHandler.ListImages)
		r.Delete("/geo-points/{id}/images/{imageID}", geoPointHandler.DeleteImage)
	})

	return &Handler{Router: r}
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Niquel API"})
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
