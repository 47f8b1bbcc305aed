package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cruma-app/cruma/internal/models"
)

type Store interface {
	Close() error
	Ping() error
	ApplyMigrations(dir string) error

	GetStudentByEmail(email string) (*models.Student, error)
	CreateStudent(student *models.Student) error
	UpdateStudentName(id uuid.UUID, name string) error
	AddStudentProvider(id uuid.UUID, provider string) error
	ListStudentProviders(id uuid.UUID) ([]string, error)
	ListStudents() ([]models.Student, error)
	DeleteStudent(id uuid.UUID) error

	ListCourses() ([]models.Course, error)
	UpsertCourse(course models.Course) error
	UpsertSection(section models.Section) error
	UpsertPrereq(prereq models.CoursePrereq) error
	InsertSlot(slot *models.TimetableSlot) error

	PrereqIDs(courseID int, kind string) ([]int, error)
	PrereqPairs(kind string) ([]models.CoursePrereq, error)
	PrereqPairsByCourses(courseIDs []int, kind string) ([]models.CoursePrereq, error)

	FindSlotExact(courseID, sectionID, periodID int, weekday, startTime, endTime string) (*models.TimetableSlot, error)
	ListSlotsByCourseSectionPeriod(courseID, sectionID, periodID int) ([]models.TimetableSlot, error)
	ListSlotsByCourseSection(courseID, sectionID int) ([]models.TimetableSlot, error)
	ListSlotsByCourses(courseIDs []int) ([]models.TimetableSlot, error)

	ListStatuses(studentID uuid.UUID) ([]models.StudentCourseStatus, error)
	ReplaceStatuses(studentID uuid.UUID, statuses []models.StudentCourseStatus) error

	CountSchedules(studentID uuid.UUID) (int, error)
	GetSchedule(id int64) (*models.Schedule, error)
	ListSchedules(studentID uuid.UUID) ([]models.Schedule, error)
	CreateScheduleWithBlocks(schedule *models.Schedule, slotIDs []int64) error
	DeleteSchedule(id int64) error
	ListBlocksWithSlots(scheduleID int64) ([]BlockWithSlot, error)
}

// BaseStore provides the dialect-portable queries; the postgres and sqlite
// stores embed it and override what differs (id-returning inserts).
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *BaseStore) Ping() error {
	return s.DB.Ping()
}

// ApplyMigrations applies SQL migrations from a directory, translating
// dialect if needed.
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) GetStudentByEmail(email string) (*models.Student, error) {
	var student models.Student
	query := s.Converter(`
		SELECT id, name, email
		FROM students
		WHERE email = ?
	`)

	err := s.DB.Get(&student, query, email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return &student, nil
}

func (s *BaseStore) CreateStudent(student *models.Student) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO students (id, name, email)
		VALUES (:id, :name, :email)
	`, student)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (s *BaseStore) UpdateStudentName(id uuid.UUID, name string) error {
	query := s.Converter(`UPDATE students SET name = ? WHERE id = ?`)
	if _, err := s.DB.Exec(query, name, id); err != nil {
		return fmt.Errorf("failed to update student name: %w", err)
	}
	return nil
}

func (s *BaseStore) AddStudentProvider(id uuid.UUID, provider string) error {
	query := s.Converter(`
		INSERT INTO student_providers (student_id, provider)
		VALUES (?, ?)
		ON CONFLICT (student_id, provider) DO NOTHING
	`)
	if _, err := s.DB.Exec(query, id, provider); err != nil {
		return fmt.Errorf("failed to add student provider: %w", err)
	}
	return nil
}

func (s *BaseStore) ListStudentProviders(id uuid.UUID) ([]string, error) {
	var providers []string
	query := s.Converter(`
		SELECT provider
		FROM student_providers
		WHERE student_id = ?
		ORDER BY provider
	`)
	if err := s.DB.Select(&providers, query, id); err != nil {
		return nil, fmt.Errorf("failed to list student providers: %w", err)
	}
	return providers, nil
}

func (s *BaseStore) ListStudents() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Select(&students, `
		SELECT id, name, email
		FROM students
		ORDER BY email
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *BaseStore) DeleteStudent(id uuid.UUID) error {
	query := s.Converter(`DELETE FROM students WHERE id = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}

func (s *BaseStore) ListCourses() ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.Select(&courses, `
		SELECT id, name
		FROM courses
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *BaseStore) UpsertCourse(course models.Course) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO courses (id, name)
		VALUES (:id, :name)
		ON CONFLICT (id) DO UPDATE SET name = :name
	`, course)
	if err != nil {
		return fmt.Errorf("failed to upsert course: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertSection(section models.Section) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO sections (id, name)
		VALUES (:id, :name)
		ON CONFLICT (id) DO UPDATE SET name = :name
	`, section)
	if err != nil {
		return fmt.Errorf("failed to upsert section: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertPrereq(prereq models.CoursePrereq) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO course_prereqs (course_id, required_id, kind)
		VALUES (:course_id, :required_id, :kind)
		ON CONFLICT (course_id, required_id, kind) DO NOTHING
	`, prereq)
	if err != nil {
		return fmt.Errorf("failed to upsert prereq: %w", err)
	}
	return nil
}

func (s *BaseStore) PrereqIDs(courseID int, kind string) ([]int, error) {
	var ids []int
	query := s.Converter(`
		SELECT required_id
		FROM course_prereqs
		WHERE course_id = ? AND kind = ?
		ORDER BY required_id
	`)
	if err := s.DB.Select(&ids, query, courseID, kind); err != nil {
		return nil, fmt.Errorf("failed to list prereq ids: %w", err)
	}
	return ids, nil
}

func (s *BaseStore) PrereqPairs(kind string) ([]models.CoursePrereq, error) {
	var pairs []models.CoursePrereq
	query := s.Converter(`
		SELECT course_id, required_id, kind
		FROM course_prereqs
		WHERE kind = ?
		ORDER BY course_id, required_id
	`)
	if err := s.DB.Select(&pairs, query, kind); err != nil {
		return nil, fmt.Errorf("failed to list prereq pairs: %w", err)
	}
	return pairs, nil
}

func (s *BaseStore) PrereqPairsByCourses(courseIDs []int, kind string) ([]models.CoursePrereq, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT course_id, required_id, kind
		FROM course_prereqs
		WHERE course_id IN (?) AND kind = ?
		ORDER BY course_id, required_id
	`, courseIDs, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to build prereq batch query: %w", err)
	}

	var pairs []models.CoursePrereq
	if err := s.DB.Select(&pairs, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list prereq pairs by courses: %w", err)
	}
	return pairs, nil
}

func (s *BaseStore) FindSlotExact(courseID, sectionID, periodID int, weekday, startTime, endTime string) (*models.TimetableSlot, error) {
	var slot models.TimetableSlot
	query := s.Converter(`
		SELECT id, course_id, section_id, period_id, weekday, start_time, end_time
		FROM timetable_slots
		WHERE course_id = ?
		AND section_id = ?
		AND period_id = ?
		AND UPPER(weekday) = UPPER(?)
		AND start_time = ?
		AND end_time = ?
		ORDER BY id
		LIMIT 1
	`)

	err := s.DB.Get(&slot, query, courseID, sectionID, periodID, weekday, startTime, endTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

func (s *BaseStore) ListSlotsByCourseSectionPeriod(courseID, sectionID, periodID int) ([]models.TimetableSlot, error) {
	var slots []models.TimetableSlot
	query := s.Converter(`
		SELECT id, course_id, section_id, period_id, weekday, start_time, end_time
		FROM timetable_slots
		WHERE course_id = ?
		AND section_id = ?
		AND period_id = ?
		ORDER BY id
	`)
	if err := s.DB.Select(&slots, query, courseID, sectionID, periodID); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (s *BaseStore) ListSlotsByCourseSection(courseID, sectionID int) ([]models.TimetableSlot, error) {
	var slots []models.TimetableSlot
	query := s.Converter(`
		SELECT id, course_id, section_id, period_id, weekday, start_time, end_time
		FROM timetable_slots
		WHERE course_id = ?
		AND section_id = ?
		ORDER BY id
	`)
	if err := s.DB.Select(&slots, query, courseID, sectionID); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (s *BaseStore) ListSlotsByCourses(courseIDs []int) ([]models.TimetableSlot, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT id, course_id, section_id, period_id, weekday, start_time, end_time
		FROM timetable_slots
		WHERE course_id IN (?)
		ORDER BY id
	`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build slots batch query: %w", err)
	}

	var slots []models.TimetableSlot
	if err := s.DB.Select(&slots, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list slots by courses: %w", err)
	}
	return slots, nil
}

func (s *BaseStore) ListStatuses(studentID uuid.UUID) ([]models.StudentCourseStatus, error) {
	var statuses []models.StudentCourseStatus
	query := s.Converter(`
		SELECT student_id, course_id, status, updated_at
		FROM student_course_status
		WHERE student_id = ?
		ORDER BY course_id
	`)
	if err := s.DB.Select(&statuses, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

// ReplaceStatuses drops the student's whole status set and inserts the new
// one in a single transaction. Statuses omitted from the new set are gone,
// not preserved.
func (s *BaseStore) ReplaceStatuses(studentID uuid.UUID, statuses []models.StudentCourseStatus) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := s.Converter(`DELETE FROM student_course_status WHERE student_id = ?`)
	if _, err := tx.Exec(deleteQuery, studentID); err != nil {
		return fmt.Errorf("failed to clear statuses: %w", err)
	}

	for _, status := range statuses {
		_, err := tx.NamedExec(`
			INSERT INTO student_course_status (student_id, course_id, status, updated_at)
			VALUES (:student_id, :course_id, :status, :updated_at)
		`, status)
		if err != nil {
			return fmt.Errorf("failed to insert status: %w", err)
		}
	}

	return tx.Commit()
}

func (s *BaseStore) CountSchedules(studentID uuid.UUID) (int, error) {
	var count int
	query := s.Converter(`SELECT COUNT(*) FROM schedules WHERE student_id = ?`)
	if err := s.DB.Get(&count, query, studentID); err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

func (s *BaseStore) GetSchedule(id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	query := s.Converter(`
		SELECT id, student_id, name, created_at
		FROM schedules
		WHERE id = ?
	`)

	err := s.DB.Get(&schedule, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (s *BaseStore) ListSchedules(studentID uuid.UUID) ([]models.Schedule, error) {
	var schedules []models.Schedule
	query := s.Converter(`
		SELECT id, student_id, name, created_at
		FROM schedules
		WHERE student_id = ?
		ORDER BY id
	`)
	if err := s.DB.Select(&schedules, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (s *BaseStore) DeleteSchedule(id int64) error {
	query := s.Converter(`DELETE FROM schedules WHERE id = ?`)
	if _, err := s.DB.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (s *BaseStore) ListBlocksWithSlots(scheduleID int64) ([]BlockWithSlot, error) {
	var blocks []BlockWithSlot
	query := s.Converter(`
		SELECT
			b.id,
			b.schedule_id,
			b.slot_id,
			b.state,
			t.course_id,
			t.section_id,
			t.period_id,
			t.weekday,
			t.start_time,
			t.end_time
		FROM schedule_blocks b
		JOIN timetable_slots t ON t.id = b.slot_id
		WHERE b.schedule_id = ?
		ORDER BY b.id
	`)
	if err := s.DB.Select(&blocks, query, scheduleID); err != nil {
		return nil, fmt.Errorf("failed to list schedule blocks: %w", err)
	}
	return blocks, nil
}
