package main

import (
	"flag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/cruma-app/cruma/internal/app"
	"github.com/cruma-app/cruma/internal/catalog"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		courses    = flag.String("materias", "", "CSV with courses (materia_id, materia)")
		sections   = flag.String("comisiones", "", "CSV with sections (comision_id, comision)")
		prereqs    = flag.String("correlativas", "", "CSV with prereq edges (materia_id, requerida_id, tipo)")
		slots      = flag.String("horarios", "", "CSV with timetable slots (materia_id, comision_id, periodo_id, dia, hora_entrada, hora_salida)")
	)
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	st, err := app.NewStore(config.Database.DSN)
	if err != nil {
		logger.Error.Fatalf("Failed to init store: %v", err)
	}
	defer st.Close()

	if err := st.ApplyMigrations(config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	stats, err := catalog.Load(st, catalog.Files{
		Courses:  *courses,
		Sections: *sections,
		Prereqs:  *prereqs,
		Slots:    *slots,
	})
	if err != nil {
		logger.Error.Fatalf("Import failed: %v", err)
	}

	logger.Info.Printf(
		"Import done: %d courses, %d sections, %d prereq edges, %d slots",
		stats.Courses, stats.Sections, stats.Prereqs, stats.Slots,
	)
}
