package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const BlockStateSelected = "SELECCIONADO"

type Schedule struct {
	ID        int64     `db:"id" json:"id"`
	StudentID uuid.UUID `db:"student_id" json:"usuarioId"`
	Name      string    `db:"name" json:"nombre"`
	CreatedAt int64     `db:"created_at" json:"fechaCreacion"`
}

type ScheduleBlock struct {
	ID         int64  `db:"id" json:"id"`
	ScheduleID int64  `db:"schedule_id" json:"cronogramaId"`
	SlotID     int64  `db:"slot_id" json:"comisionMateriaHorarioId"`
	State      string `db:"state" json:"estado"`
}

// BlockRequest is one requested time block in a create/update payload. Dia is
// a digit string "1".."6" (Monday..Saturday) but a day name is tolerated.
type BlockRequest struct {
	CourseID  int    `json:"materiaId" validate:"required"`
	SectionID int    `json:"comisionId" validate:"required"`
	Weekday   string `json:"dia" validate:"required"`
	StartTime string `json:"horaEntrada" validate:"required"`
	EndTime   string `json:"horaSalida" validate:"required"`
}

type CreateScheduleRequest struct {
	Name     string         `json:"nombre" validate:"required,max=255"`
	PeriodID int            `json:"periodoId"`
	Blocks   []BlockRequest `json:"bloques" validate:"dive"`
}

func (r *CreateScheduleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// BlockDetail is a resolved block denormalized for clients: the slot identity
// plus the course/section/day/time it stands for, with the day mapped back to
// its digit form.
type BlockDetail struct {
	ID         int64  `json:"id"`
	ScheduleID int64  `json:"cronogramaId"`
	SlotID     int64  `json:"comisionMateriaHorarioId"`
	State      string `json:"estado"`
	CourseID   int    `json:"materiaId"`
	SectionID  int    `json:"comisionId"`
	Weekday    string `json:"dia"`
	StartTime  string `json:"horaEntrada"`
	EndTime    string `json:"horaSalida"`
}

type ScheduleDetail struct {
	ID        int64         `json:"id"`
	Name      string        `json:"nombre"`
	CreatedAt int64         `json:"fechaCreacion"`
	StudentID uuid.UUID     `json:"usuarioId"`
	Blocks    []BlockDetail `json:"detalles"`
}

// ExportBlock is the payload shape of the PDF export endpoint; it carries the
// course name so the renderer does not need catalog access.
type ExportBlock struct {
	Weekday    int    `json:"dia" validate:"min=1,max=6"`
	StartTime  string `json:"horaEntrada" validate:"required"`
	EndTime    string `json:"horaSalida" validate:"required"`
	CourseID   int    `json:"materiaId"`
	CourseName string `json:"nombreMateria"`
	SectionID  int    `json:"comisionId"`
	Section    string `json:"seccion"`
}

func (b *ExportBlock) Validate() error {
	validate := validator.New()
	return validate.Struct(b)
}
