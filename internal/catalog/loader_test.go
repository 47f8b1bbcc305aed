package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store/sqlite"
)

func setupStore(t *testing.T) (*sqlite.SQLiteStore, func()) {
	s, err := sqlite.NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	err = s.ApplyMigrations("../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	return s, func() {
		require.NoError(t, s.Close())
	}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	dir := t.TempDir()

	files := Files{
		Courses: writeCSV(t, dir, "materias.csv",
			"materia_id,materia\n1,Análisis Matemático I\n2,Álgebra\n"),
		Sections: writeCSV(t, dir, "comisiones.csv",
			"comision_id,comision\n10,A\n20,B\n"),
		Prereqs: writeCSV(t, dir, "correlativas.csv",
			"materia_id,requerida_id,tipo\n2,1,Regular\n"),
		Slots: writeCSV(t, dir, "horarios.csv",
			"materia_id,comision_id,periodo_id,dia,hora_entrada,hora_salida\n"+
				"1,10,1,lunes,9:00,10:30\n"+
				"2,20,1,MARTES,14:00,16:00\n"),
	}

	stats, err := Load(s, files)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Courses)
	assert.Equal(t, 2, stats.Sections)
	assert.Equal(t, 1, stats.Prereqs)
	assert.Equal(t, 2, stats.Slots)

	courses, err := s.ListCourses()
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Análisis Matemático I", courses[0].Name)

	// prereq kind is lower-cased on import
	ids, err := s.PrereqIDs(2, models.PrereqRegular)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)

	// slot times padded and weekday upper-cased
	slot, err := s.FindSlotExact(1, 10, 1, "LUNES", "09:00", "10:30")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "LUNES", slot.Weekday)
	assert.Equal(t, "09:00", slot.StartTime)
}

func TestLoad_SkipsEmptyPaths(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()

	stats, err := Load(s, Files{})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestLoad_RejectsUnknownPrereqKind(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	dir := t.TempDir()

	files := Files{
		Prereqs: writeCSV(t, dir, "correlativas.csv",
			"materia_id,requerida_id,tipo\n2,1,cursada\n"),
	}

	_, err := Load(s, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prereq kind")
}
