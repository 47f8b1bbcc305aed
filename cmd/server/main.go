package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/cruma-app/cruma/internal/app"
	"github.com/cruma-app/cruma/internal/handlers"
)

func main() {
	service, err := app.NewService("config.toml")
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	h := handlers.NewHandler(service)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   service.Config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(handlers.Metrics)

	r.Get("/auth/{provider}/login", h.HandleLogin)
	r.Get("/auth/{provider}/callback", h.HandleCallback)

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/me", h.HandleMe)
		r.Post("/auth/logout", h.HandleLogout)

		r.Route("/usuarios", func(r chi.Router) {
			r.Get("/", h.HandleStudentList)
			r.Delete("/{id}", h.HandleStudentDelete)
		})

		r.Get("/materias", h.HandleCourses)
		r.Get("/comisiones", h.HandleSections)

		r.Route("/correlativas", func(r chi.Router) {
			r.Get("/", h.HandlePrereqsAll)
			r.Get("/batch", h.HandlePrereqsBatch)
			r.Get("/estado", h.HandleStatusGet)
			r.Put("/estado", h.HandleStatusSave)
			r.Get("/{materiaId}", h.HandlePrereqsByCourse)
		})

		r.Route("/cronogramas", func(r chi.Router) {
			r.Get("/", h.HandleScheduleList)
			r.Post("/", h.HandleScheduleCreate)
			r.Get("/{id}", h.HandleScheduleGet)
			r.Put("/{id}", h.HandleScheduleUpdate)
			r.Delete("/{id}", h.HandleScheduleDelete)
		})

		r.Post("/cronograma/exportar-pdf", h.HandleExportPDF)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.HandleHealthz)

	logger.Info.Printf("Starting cruma server on %s", service.Config.Server.Port)
	for name := range service.Providers {
		logger.Debug.Printf("OAuth provider enabled: %s", name)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, r); err != nil {
		logger.Error.Fatalf("Cruma server failed: %v", err)
	}
}
