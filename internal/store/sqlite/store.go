package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts the Postgres migration SQL to SQLite dialect
func translateToSQLite(sql string) string {
	replacements := map[string]string{
		"BIGSERIAL PRIMARY KEY": "INTEGER PRIMARY KEY AUTOINCREMENT",
		"SMALLINT":              "INTEGER",
		"BIGINT":                "INTEGER",
		"UUID":                  "TEXT",
		"VARCHAR(255)":          "TEXT",
		"VARCHAR(100)":          "TEXT",
		"VARCHAR(50)":           "TEXT",
		"VARCHAR(20)":           "TEXT",
		"VARCHAR(10)":           "TEXT",
		"VARCHAR(5)":            "TEXT",
	}
	result := sql
	for from, to := range replacements {
		result = strings.ReplaceAll(result, from, to)
	}
	return result
}

func (s *SQLiteStore) InsertSlot(slot *models.TimetableSlot) error {
	res, err := s.DB.Exec(`
		INSERT INTO timetable_slots (course_id, section_id, period_id, weekday, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`, slot.CourseID, slot.SectionID, slot.PeriodID, slot.Weekday, slot.StartTime, slot.EndTime)
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}

	slot.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read slot id: %w", err)
	}
	return nil
}

// CreateScheduleWithBlocks inserts the schedule and all its blocks in one
// transaction so a failed block never leaves a partial schedule behind.
func (s *SQLiteStore) CreateScheduleWithBlocks(schedule *models.Schedule, slotIDs []int64) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO schedules (student_id, name, created_at)
		VALUES (?, ?, ?)
	`, schedule.StudentID, schedule.Name, schedule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	schedule.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read schedule id: %w", err)
	}

	for _, slotID := range slotIDs {
		_, err := tx.Exec(`
			INSERT INTO schedule_blocks (schedule_id, slot_id, state)
			VALUES (?, ?, ?)
		`, schedule.ID, slotID, models.BlockStateSelected)
		if err != nil {
			return fmt.Errorf("failed to insert schedule block: %w", err)
		}
	}

	return tx.Commit()
}
