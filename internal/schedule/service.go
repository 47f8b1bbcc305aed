package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/metrics"
	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store"
)

// MaxSchedulesPerStudent caps how many schedules one student may hold.
const MaxSchedulesPerStudent = 3

type Service struct {
	store    store.Store
	resolver *Resolver
}

func NewService(s store.Store) *Service {
	return &Service{store: s, resolver: NewResolver(s)}
}

// Create resolves every requested block and persists the schedule with its
// blocks in one transaction. The cap is check-then-insert: two simultaneous
// creates from the same student could both pass the count, which is accepted
// because the client is a single browser session.
func (s *Service) Create(studentID uuid.UUID, req models.CreateScheduleRequest) (*models.ScheduleDetail, error) {
	count, err := s.store.CountSchedules(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count schedules: %w", err)
	}
	if count >= MaxSchedulesPerStudent {
		return nil, apperr.LimitExceeded(
			"has alcanzado el límite de %d cronogramas. Actualmente tienes %d cronogramas guardados",
			MaxSchedulesPerStudent, count)
	}

	slotIDs := make([]int64, 0, len(req.Blocks))
	for _, block := range req.Blocks {
		slot, err := s.resolver.Resolve(block, req.PeriodID)
		if err != nil {
			return nil, err
		}
		slotIDs = append(slotIDs, slot.ID)
	}

	sched := &models.Schedule{
		StudentID: studentID,
		Name:      req.Name,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.CreateScheduleWithBlocks(sched, slotIDs); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}

	metrics.SchedulesCreatedTotal.Inc()
	return s.detail(sched)
}

// Get returns a schedule only when it exists AND belongs to the student.
// Existence is checked first, so a foreign id yields AccessDenied, not
// NotFound.
func (s *Service) Get(studentID uuid.UUID, id int64) (*models.ScheduleDetail, error) {
	sched, err := s.owned(studentID, id)
	if err != nil {
		return nil, err
	}
	return s.detail(sched)
}

func (s *Service) List(studentID uuid.UUID) ([]models.ScheduleDetail, error) {
	schedules, err := s.store.ListSchedules(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	details := make([]models.ScheduleDetail, 0, len(schedules))
	for i := range schedules {
		d, err := s.detail(&schedules[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// Update keeps the original's delete-then-recreate semantics: the replaced
// schedule gets a fresh id, and the cap check passes because the old row is
// gone before the new one is counted.
func (s *Service) Update(studentID uuid.UUID, id int64, req models.CreateScheduleRequest) (*models.ScheduleDetail, error) {
	if err := s.Delete(studentID, id); err != nil {
		return nil, err
	}
	return s.Create(studentID, req)
}

func (s *Service) Delete(studentID uuid.UUID, id int64) error {
	if _, err := s.owned(studentID, id); err != nil {
		return err
	}
	if err := s.store.DeleteSchedule(id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (s *Service) owned(studentID uuid.UUID, id int64) (*models.Schedule, error) {
	sched, err := s.store.GetSchedule(id)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, apperr.NotFound("cronograma %d no encontrado", id)
	}
	if sched.StudentID != studentID {
		return nil, apperr.AccessDenied("no tienes permiso para acceder a este cronograma")
	}
	return sched, nil
}

func (s *Service) detail(sched *models.Schedule) (*models.ScheduleDetail, error) {
	blocks, err := s.store.ListBlocksWithSlots(sched.ID)
	if err != nil {
		return nil, err
	}

	details := make([]models.BlockDetail, 0, len(blocks))
	for _, b := range blocks {
		details = append(details, models.BlockDetail{
			ID:         b.ID,
			ScheduleID: b.ScheduleID,
			SlotID:     b.SlotID,
			State:      b.State,
			CourseID:   b.CourseID,
			SectionID:  b.SectionID,
			Weekday:    WeekdayDigit(b.Weekday),
			StartTime:  b.StartTime,
			EndTime:    b.EndTime,
		})
	}

	return &models.ScheduleDetail{
		ID:        sched.ID,
		Name:      sched.Name,
		CreatedAt: sched.CreatedAt,
		StudentID: sched.StudentID,
		Blocks:    details,
	}, nil
}
