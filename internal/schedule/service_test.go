package schedule

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store/sqlite"
)

func seedStudent(t *testing.T, s *sqlite.SQLiteStore) uuid.UUID {
	student := &models.Student{
		ID:    uuid.New(),
		Name:  "Test Student",
		Email: fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
	}
	require.NoError(t, s.CreateStudent(student))
	return student.ID
}

func scheduleRequest(name string) models.CreateScheduleRequest {
	return models.CreateScheduleRequest{
		Name:     name,
		PeriodID: 1,
		Blocks: []models.BlockRequest{
			{CourseID: 1, SectionID: 10, Weekday: "1", StartTime: "08:00", EndTime: "09:30"},
		},
	}
}

func TestService_CreateAndGet(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	slotID := seedSlot(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	studentID := seedStudent(t, s)

	svc := NewService(s)
	created, err := svc.Create(studentID, scheduleRequest("Primer cuatrimestre"))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Primer cuatrimestre", created.Name)
	assert.Equal(t, studentID, created.StudentID)
	require.Len(t, created.Blocks, 1)
	assert.Equal(t, slotID, created.Blocks[0].SlotID)
	assert.Equal(t, models.BlockStateSelected, created.Blocks[0].State)
	assert.Equal(t, "1", created.Blocks[0].Weekday) // day name mapped back to digit

	got, err := svc.Get(studentID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Blocks, 1)
}

func TestService_CreateEnforcesCap(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	seedSlot(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	studentID := seedStudent(t, s)

	svc := NewService(s)
	for i := 0; i < MaxSchedulesPerStudent; i++ {
		_, err := svc.Create(studentID, scheduleRequest(fmt.Sprintf("Cronograma %d", i+1)))
		require.NoError(t, err)
	}

	_, err := svc.Create(studentID, scheduleRequest("Uno de más"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindLimitExceeded))
	assert.Contains(t, err.Error(), "límite de 3 cronogramas")
	assert.Contains(t, err.Error(), "tienes 3 cronogramas")
}

func TestService_CreateFailsOnUnresolvableBlock(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	studentID := seedStudent(t, s)

	svc := NewService(s)
	_, err := svc.Create(studentID, scheduleRequest("Sin horarios"))

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidInput))

	// nothing persisted
	count, countErr := s.CountSchedules(studentID)
	require.NoError(t, countErr)
	assert.Equal(t, 0, count)
}

func TestService_GetMissingIsNotFound(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	studentID := seedStudent(t, s)

	svc := NewService(s)
	_, err := svc.Get(studentID, 12345)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestService_GetForeignIsAccessDenied(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	seedSlot(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	owner := seedStudent(t, s)
	other := seedStudent(t, s)

	svc := NewService(s)
	created, err := svc.Create(owner, scheduleRequest("Mío"))
	require.NoError(t, err)

	_, err = svc.Get(other, created.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAccessDenied))
}

func TestService_UpdateReplacesSchedule(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	seedSlot(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	newSlot := seedSlot(t, s, 2, 20, 1, "MARTES", "10:00", "12:00")
	studentID := seedStudent(t, s)

	svc := NewService(s)
	created, err := svc.Create(studentID, scheduleRequest("Original"))
	require.NoError(t, err)

	updated, err := svc.Update(studentID, created.ID, models.CreateScheduleRequest{
		Name:     "Reemplazado",
		PeriodID: 1,
		Blocks: []models.BlockRequest{
			{CourseID: 2, SectionID: 20, Weekday: "2", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)

	// replace is delete-then-create, so the id changes
	assert.NotEqual(t, created.ID, updated.ID)
	assert.Equal(t, "Reemplazado", updated.Name)
	require.Len(t, updated.Blocks, 1)
	assert.Equal(t, newSlot, updated.Blocks[0].SlotID)

	_, err = svc.Get(studentID, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	count, err := s.CountSchedules(studentID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_UpdateWorksAtCap(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	seedSlot(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	studentID := seedStudent(t, s)

	svc := NewService(s)
	var last *models.ScheduleDetail
	for i := 0; i < MaxSchedulesPerStudent; i++ {
		created, err := svc.Create(studentID, scheduleRequest(fmt.Sprintf("Cronograma %d", i+1)))
		require.NoError(t, err)
		last = created
	}

	// the old row is deleted before the cap check runs
	updated, err := svc.Update(studentID, last.ID, scheduleRequest("Actualizado"))
	require.NoError(t, err)
	assert.Equal(t, "Actualizado", updated.Name)
}

func TestService_Delete(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	seedCatalog(t, s)
	seedSlot(t, s, 1, 10, 1, "LUNES", "08:00", "09:30")
	studentID := seedStudent(t, s)

	svc := NewService(s)
	created, err := svc.Create(studentID, scheduleRequest("Efímero"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(studentID, created.ID))

	_, err = svc.Get(studentID, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestService_ListEmpty(t *testing.T) {
	s, cleanup := setupStore(t)
	defer cleanup()
	studentID := seedStudent(t, s)

	svc := NewService(s)
	schedules, err := svc.List(studentID)

	require.NoError(t, err)
	assert.NotNil(t, schedules)
	assert.Empty(t, schedules)
}
