package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

func (s *PostgresStore) InsertSlot(slot *models.TimetableSlot) error {
	err := s.DB.QueryRow(`
		INSERT INTO timetable_slots (course_id, section_id, period_id, weekday, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, slot.CourseID, slot.SectionID, slot.PeriodID, slot.Weekday, slot.StartTime, slot.EndTime).Scan(&slot.ID)
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

// CreateScheduleWithBlocks inserts the schedule and all its blocks in one
// transaction so a failed block never leaves a partial schedule behind.
func (s *PostgresStore) CreateScheduleWithBlocks(schedule *models.Schedule, slotIDs []int64) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO schedules (student_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, schedule.StudentID, schedule.Name, schedule.CreatedAt).Scan(&schedule.ID)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	for _, slotID := range slotIDs {
		_, err := tx.Exec(`
			INSERT INTO schedule_blocks (schedule_id, slot_id, state)
			VALUES ($1, $2, $3)
		`, schedule.ID, slotID, models.BlockStateSelected)
		if err != nil {
			return fmt.Errorf("failed to insert schedule block: %w", err)
		}
	}

	return tx.Commit()
}
