package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// BlockWithSlot is a schedule block joined with the timetable slot it
// resolved to.
type BlockWithSlot struct {
	ID         int64  `db:"id"`
	ScheduleID int64  `db:"schedule_id"`
	SlotID     int64  `db:"slot_id"`
	State      string `db:"state"`
	CourseID   int    `db:"course_id"`
	SectionID  int    `db:"section_id"`
	PeriodID   int    `db:"period_id"`
	Weekday    string `db:"weekday"`
	StartTime  string `db:"start_time"`
	EndTime    string `db:"end_time"`
}
