package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status buckets for a student's standing in a course.
const (
	StatusBlocked  = 0
	StatusEnabled  = 1
	StatusRegular  = 2
	StatusApproved = 3
)

type StudentCourseStatus struct {
	StudentID uuid.UUID `db:"student_id" json:"-"`
	CourseID  int       `db:"course_id" json:"materiaId"`
	Status    int       `db:"status" json:"estado"`
	UpdatedAt int64     `db:"updated_at" json:"-"`
}

// CourseStatusEntry is the wire shape of one status row. Estado is a pointer:
// absent/null means "not set yet" and normalizes to blocked, while explicit
// out-of-range values are stored as sent.
type CourseStatusEntry struct {
	CourseID *int `json:"materiaId"`
	Status   *int `json:"estado"`
}

type StatusSummary struct {
	Blocked  int `json:"bloqueadas"`
	Enabled  int `json:"habilitadas"`
	Regular  int `json:"regulares"`
	Approved int `json:"aprobadas"`
	Total    int `json:"total"`
}

type CoursePrereqs struct {
	CourseID    int   `json:"materiaId"`
	RegularIDs  []int `json:"requiereRegularIds"`
	ApprovedIDs []int `json:"requiereAprobadaIds"`
}

// SaveStatusRequest wraps the PUT body for validation.
type SaveStatusRequest struct {
	Entries []CourseStatusEntry `validate:"dive"`
}

func (r *SaveStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
