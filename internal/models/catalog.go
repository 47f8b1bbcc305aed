package models

type Course struct {
	ID   int    `db:"id" json:"id" csv:"materia_id"`
	Name string `db:"name" json:"nombre" csv:"materia"`
}

type Section struct {
	ID   int    `db:"id" json:"id" csv:"comision_id"`
	Name string `db:"name" json:"nombre" csv:"comision"`
}

// Prereq kinds, stored in course_prereqs.kind.
const (
	PrereqRegular  = "regular"
	PrereqApproved = "aprobada"
)

type CoursePrereq struct {
	CourseID   int    `db:"course_id" csv:"materia_id"`
	RequiredID int    `db:"required_id" csv:"requerida_id"`
	Kind       string `db:"kind" csv:"tipo"`
}

// TimetableSlot is one concrete meeting time of a section. The weekday column
// is kept as imported: either an upper-case Spanish day name or a digit
// string "1".."6", the resolver tolerates both.
type TimetableSlot struct {
	ID        int64  `db:"id" json:"id"`
	CourseID  int    `db:"course_id" json:"materiaId" csv:"materia_id"`
	SectionID int    `db:"section_id" json:"comisionId" csv:"comision_id"`
	PeriodID  int    `db:"period_id" json:"periodoId" csv:"periodo_id"`
	Weekday   string `db:"weekday" json:"dia" csv:"dia"`
	StartTime string `db:"start_time" json:"horaEntrada" csv:"hora_entrada"`
	EndTime   string `db:"end_time" json:"horaSalida" csv:"hora_salida"`
}
