package prereq

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// ByCourse returns the prerequisite sets of a single course. A course with
// no edges yields empty (not nil) id lists.
func (s *Service) ByCourse(courseID int) (*models.CoursePrereqs, error) {
	regular, err := s.store.PrereqIDs(courseID, models.PrereqRegular)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regular prereqs: %w", err)
	}
	approved, err := s.store.PrereqIDs(courseID, models.PrereqApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved prereqs: %w", err)
	}

	p := &models.CoursePrereqs{CourseID: courseID, RegularIDs: regular, ApprovedIDs: approved}
	if p.RegularIDs == nil {
		p.RegularIDs = []int{}
	}
	if p.ApprovedIDs == nil {
		p.ApprovedIDs = []int{}
	}
	return p, nil
}

// ByCourses returns one entry per requested course id, in ascending order,
// including courses with no prerequisites at all.
func (s *Service) ByCourses(courseIDs []int) ([]models.CoursePrereqs, error) {
	byID := initMap(courseIDs)

	regular, err := s.store.PrereqPairsByCourses(courseIDs, models.PrereqRegular)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regular prereq pairs: %w", err)
	}
	for _, pair := range regular {
		p := byID[pair.CourseID]
		p.RegularIDs = append(p.RegularIDs, pair.RequiredID)
	}

	approved, err := s.store.PrereqPairsByCourses(courseIDs, models.PrereqApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved prereq pairs: %w", err)
	}
	for _, pair := range approved {
		p := byID[pair.CourseID]
		p.ApprovedIDs = append(p.ApprovedIDs, pair.RequiredID)
	}

	return flatten(byID), nil
}

// All returns the prerequisite sets of every course that requires at least
// one other course.
func (s *Service) All() ([]models.CoursePrereqs, error) {
	regular, err := s.store.PrereqPairs(models.PrereqRegular)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regular prereq pairs: %w", err)
	}
	approved, err := s.store.PrereqPairs(models.PrereqApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved prereq pairs: %w", err)
	}

	seen := map[int]bool{}
	var ids []int
	for _, pair := range regular {
		if !seen[pair.CourseID] {
			seen[pair.CourseID] = true
			ids = append(ids, pair.CourseID)
		}
	}
	for _, pair := range approved {
		if !seen[pair.CourseID] {
			seen[pair.CourseID] = true
			ids = append(ids, pair.CourseID)
		}
	}

	byID := initMap(ids)
	for _, pair := range regular {
		p := byID[pair.CourseID]
		p.RegularIDs = append(p.RegularIDs, pair.RequiredID)
	}
	for _, pair := range approved {
		p := byID[pair.CourseID]
		p.ApprovedIDs = append(p.ApprovedIDs, pair.RequiredID)
	}

	return flatten(byID), nil
}

// StatusResponse is what both the fetch and save endpoints return.
type StatusResponse struct {
	LastUpdated int64                        `json:"ultimaActualizacion"`
	Statuses    []models.StudentCourseStatus `json:"estados"`
	Summary     models.StatusSummary         `json:"resumen"`
}

func (s *Service) Statuses(studentID uuid.UUID) (*StatusResponse, error) {
	statuses, err := s.store.ListStatuses(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statuses: %w", err)
	}
	return buildResponse(statuses), nil
}

// SaveStatuses replaces the student's whole status set. An empty request
// empties the stored set and returns a zero summary, never an error.
func (s *Service) SaveStatuses(studentID uuid.UUID, entries []models.CourseStatusEntry) (*StatusResponse, error) {
	statuses := Normalize(entries, time.Now().Unix())
	for i := range statuses {
		statuses[i].StudentID = studentID
	}

	if err := s.store.ReplaceStatuses(studentID, statuses); err != nil {
		return nil, fmt.Errorf("failed to replace statuses: %w", err)
	}
	return buildResponse(statuses), nil
}

func buildResponse(statuses []models.StudentCourseStatus) *StatusResponse {
	if statuses == nil {
		statuses = []models.StudentCourseStatus{}
	}
	return &StatusResponse{
		LastUpdated: LastUpdated(statuses),
		Statuses:    statuses,
		Summary:     Summarize(statuses),
	}
}

func initMap(courseIDs []int) map[int]*models.CoursePrereqs {
	byID := make(map[int]*models.CoursePrereqs, len(courseIDs))
	for _, id := range courseIDs {
		byID[id] = &models.CoursePrereqs{CourseID: id, RegularIDs: []int{}, ApprovedIDs: []int{}}
	}
	return byID
}

func flatten(byID map[int]*models.CoursePrereqs) []models.CoursePrereqs {
	out := make([]models.CoursePrereqs, 0, len(byID))
	for _, p := range byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out
}
