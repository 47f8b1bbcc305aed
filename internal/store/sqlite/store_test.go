package sqlite

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruma-app/cruma/internal/models"
)

func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	err = s.ApplyMigrations("../../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	cleanup := func() {
		require.NoError(t, s.Close(), "Failed to close database")
	}
	return s, cleanup
}

func insertStudent(t *testing.T, s *SQLiteStore, email string) uuid.UUID {
	student := &models.Student{ID: uuid.New(), Name: "Test", Email: email}
	require.NoError(t, s.CreateStudent(student))
	return student.ID
}

func TestGetStudentByEmail(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	missing, err := s.GetStudentByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	id := insertStudent(t, s, "ana@example.com")
	found, err := s.GetStudentByEmail("ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
}

func TestAddStudentProviderIsIdempotent(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	id := insertStudent(t, s, "ana@example.com")

	require.NoError(t, s.AddStudentProvider(id, "google"))
	require.NoError(t, s.AddStudentProvider(id, "google"))
	require.NoError(t, s.AddStudentProvider(id, "github"))

	providers, err := s.ListStudentProviders(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"github", "google"}, providers)
}

func TestUpsertCourseUpdatesName(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.UpsertCourse(models.Course{ID: 1, Name: "Algebra"}))
	require.NoError(t, s.UpsertCourse(models.Course{ID: 1, Name: "Álgebra"}))

	courses, err := s.ListCourses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Álgebra", courses[0].Name)
}

func TestReplaceStatusesIsFullReplacement(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	id := insertStudent(t, s, "ana@example.com")

	err := s.ReplaceStatuses(id, []models.StudentCourseStatus{
		{StudentID: id, CourseID: 1, Status: models.StatusRegular, UpdatedAt: 100},
	})
	require.NoError(t, err)

	err = s.ReplaceStatuses(id, []models.StudentCourseStatus{
		{StudentID: id, CourseID: 2, Status: models.StatusApproved, UpdatedAt: 200},
	})
	require.NoError(t, err)

	statuses, err := s.ListStatuses(id)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, 2, statuses[0].CourseID)
	assert.Equal(t, models.StatusApproved, statuses[0].Status)
}

func TestReplaceStatusesWithEmptySetClears(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	id := insertStudent(t, s, "ana@example.com")

	err := s.ReplaceStatuses(id, []models.StudentCourseStatus{
		{StudentID: id, CourseID: 1, Status: models.StatusEnabled, UpdatedAt: 100},
	})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceStatuses(id, nil))

	statuses, err := s.ListStatuses(id)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func seedSlotRow(t *testing.T, s *SQLiteStore, courseID, sectionID, periodID int, weekday, start, end string) int64 {
	slot := models.TimetableSlot{
		CourseID:  courseID,
		SectionID: sectionID,
		PeriodID:  periodID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}
	require.NoError(t, s.InsertSlot(&slot))
	require.NotZero(t, slot.ID)
	return slot.ID
}

func seedSlotCatalog(t *testing.T, s *SQLiteStore) {
	require.NoError(t, s.UpsertCourse(models.Course{ID: 1, Name: "Análisis"}))
	require.NoError(t, s.UpsertSection(models.Section{ID: 10, Name: "A"}))
}

func TestFindSlotExactIsCaseInsensitiveOnWeekday(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSlotCatalog(t, s)

	want := seedSlotRow(t, s, 1, 10, 1, "lunes", "08:00", "09:30")

	slot, err := s.FindSlotExact(1, 10, 1, "LUNES", "08:00", "09:30")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, want, slot.ID)
}

func TestFindSlotExactPicksLowestID(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSlotCatalog(t, s)

	first := seedSlotRow(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	seedSlotRow(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")

	slot, err := s.FindSlotExact(1, 10, 1, "LUNES", "08:00", "09:30")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, first, slot.ID)
}

func TestCreateScheduleWithBlocks(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSlotCatalog(t, s)
	studentID := insertStudent(t, s, "ana@example.com")

	slotA := seedSlotRow(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	slotB := seedSlotRow(t, s, 1, 10, 1, "JUEVES", "08:00", "09:30")

	sched := &models.Schedule{StudentID: studentID, Name: "Cuatri", CreatedAt: 1700000000}
	require.NoError(t, s.CreateScheduleWithBlocks(sched, []int64{slotA, slotB}))
	require.NotZero(t, sched.ID)

	blocks, err := s.ListBlocksWithSlots(sched.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, slotA, blocks[0].SlotID)
	assert.Equal(t, models.BlockStateSelected, blocks[0].State)
	assert.Equal(t, "LUNES", blocks[0].Weekday)
	assert.Equal(t, slotB, blocks[1].SlotID)

	count, err := s.CountSchedules(studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteStudentCascades(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSlotCatalog(t, s)
	id := insertStudent(t, s, "ana@example.com")
	keep := insertStudent(t, s, "otro@example.com")

	require.NoError(t, s.AddStudentProvider(id, "google"))
	require.NoError(t, s.ReplaceStatuses(id, []models.StudentCourseStatus{
		{StudentID: id, CourseID: 1, Status: models.StatusRegular, UpdatedAt: 100},
	}))
	slotID := seedSlotRow(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	sched := &models.Schedule{StudentID: id, Name: "Cuatri", CreatedAt: 1700000000}
	require.NoError(t, s.CreateScheduleWithBlocks(sched, []int64{slotID}))

	require.NoError(t, s.DeleteStudent(id))

	gone, err := s.GetStudentByEmail("ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, gone)

	providers, err := s.ListStudentProviders(id)
	require.NoError(t, err)
	assert.Empty(t, providers)

	statuses, err := s.ListStatuses(id)
	require.NoError(t, err)
	assert.Empty(t, statuses)

	count, err := s.CountSchedules(id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// unrelated students survive
	students, err := s.ListStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, keep, students[0].ID)
}

func TestDeleteScheduleCascadesBlocks(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	seedSlotCatalog(t, s)
	studentID := insertStudent(t, s, "ana@example.com")
	slotID := seedSlotRow(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")

	sched := &models.Schedule{StudentID: studentID, Name: "Cuatri", CreatedAt: 1700000000}
	require.NoError(t, s.CreateScheduleWithBlocks(sched, []int64{slotID}))

	require.NoError(t, s.DeleteSchedule(sched.ID))

	gone, err := s.GetSchedule(sched.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var blockCount int
	err = s.DB.Get(&blockCount, "SELECT COUNT(*) FROM schedule_blocks WHERE schedule_id = ?", sched.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, blockCount)
}
