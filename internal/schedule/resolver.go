// Package schedule builds and persists weekly schedules out of timetable
// slots, resolving the loosely-specified blocks clients send into concrete
// catalog rows.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/metrics"
	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/store"
)

// Spanish day names indexed by digit, "1" = LUNES .. "6" = SÁBADO.
var weekdayNames = [...]string{"", "LUNES", "MARTES", "MIÉRCOLES", "JUEVES", "VIERNES", "SÁBADO"}

// WeekdayName maps a digit string to its upper-case day name. A value that is
// already a name comes back upper-cased; an out-of-range digit yields "".
func WeekdayName(day string) string {
	n, err := strconv.Atoi(day)
	if err != nil {
		return strings.ToUpper(day)
	}
	if n >= 1 && n <= 6 {
		return weekdayNames[n]
	}
	return ""
}

// WeekdayDigit maps a stored weekday (name or digit) back to its digit
// string. Unknown values pass through unchanged.
func WeekdayDigit(weekday string) string {
	switch strings.ToUpper(weekday) {
	case "LUNES":
		return "1"
	case "MARTES":
		return "2"
	case "MIÉRCOLES", "MIERCOLES":
		return "3"
	case "JUEVES":
		return "4"
	case "VIERNES":
		return "5"
	case "SÁBADO", "SABADO":
		return "6"
	default:
		return weekday
	}
}

// NormalizeTime pads a missing leading zero on the hour ("9:00" -> "09:00").
// Anything else is handed to the parser as-is and fails there.
func NormalizeTime(value string) string {
	if len(value) == 4 && value[1] == ':' {
		return "0" + value
	}
	return value
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse("15:04", NormalizeTime(value))
	if err != nil {
		return time.Time{}, apperr.InvalidInput("hora inválida: %s", value)
	}
	return t, nil
}

// Resolver maps requested blocks onto catalog slots.
type Resolver struct {
	store store.Store
}

func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve finds the single timetable slot a requested block stands for.
// The lookup is a fallback cascade, each step only running when the previous
// one found nothing:
//
//  1. exact match on (course, section, period, day name, start, end)
//  2. same scope, day match (name or original digit) + time-range overlap
//  3. same scope, day match only
//  4. any period: day + exact time, then day + overlap
//  5. fail, listing every slot that exists for the (course, section) pair
//
// Ties inside a step go to the lowest slot id (store order).
func (r *Resolver) Resolve(block models.BlockRequest, periodID int) (*models.TimetableSlot, error) {
	dayName := WeekdayName(block.Weekday)
	if dayName == "" {
		return nil, apperr.InvalidInput("día inválido: %s", block.Weekday)
	}

	reqStart, err := parseTime(block.StartTime)
	if err != nil {
		return nil, err
	}
	reqEnd, err := parseTime(block.EndTime)
	if err != nil {
		return nil, err
	}
	startStr := NormalizeTime(block.StartTime)
	endStr := NormalizeTime(block.EndTime)

	slot, err := r.store.FindSlotExact(block.CourseID, block.SectionID, periodID, dayName, startStr, endStr)
	if err != nil {
		return nil, err
	}
	if slot != nil {
		metrics.BlockResolutionsTotal.WithLabelValues("exact").Inc()
		return slot, nil
	}

	inPeriod, err := r.store.ListSlotsByCourseSectionPeriod(block.CourseID, block.SectionID, periodID)
	if err != nil {
		return nil, err
	}

	if slot := firstOverlap(inPeriod, dayName, block.Weekday, reqStart, reqEnd); slot != nil {
		metrics.BlockResolutionsTotal.WithLabelValues("overlap").Inc()
		return slot, nil
	}
	if slot := firstOnDay(inPeriod, dayName, block.Weekday); slot != nil {
		metrics.BlockResolutionsTotal.WithLabelValues("day_only").Inc()
		return slot, nil
	}

	// The requested period may not match the catalog's period ids at all;
	// retry across every period before giving up.
	anyPeriod, err := r.store.ListSlotsByCourseSection(block.CourseID, block.SectionID)
	if err != nil {
		return nil, err
	}

	if slot := firstExactTime(anyPeriod, dayName, block.Weekday, startStr, endStr); slot != nil {
		metrics.BlockResolutionsTotal.WithLabelValues("any_period_exact").Inc()
		return slot, nil
	}
	if slot := firstOverlap(anyPeriod, dayName, block.Weekday, reqStart, reqEnd); slot != nil {
		metrics.BlockResolutionsTotal.WithLabelValues("any_period_overlap").Inc()
		return slot, nil
	}

	metrics.BlockResolutionsTotal.WithLabelValues("failed").Inc()
	return nil, r.unresolvable(block, periodID, dayName, startStr, endStr, anyPeriod)
}

// unresolvable builds the deliberately verbose failure listing everything the
// catalog does hold for the pair, to make mismatches debuggable.
func (r *Resolver) unresolvable(block models.BlockRequest, periodID int, dayName, start, end string, available []models.TimetableSlot) error {
	descriptions := make([]string, 0, len(available))
	for _, s := range available {
		descriptions = append(descriptions,
			fmt.Sprintf("%s %s-%s (periodoId=%d)", s.Weekday, s.StartTime, s.EndTime, s.PeriodID))
	}
	listing := "ninguno"
	if len(descriptions) > 0 {
		listing = strings.Join(descriptions, ", ")
	}

	return apperr.InvalidInput(
		"no se encontró horario para materiaId=%d, comisionId=%d, periodoId=%d, dia=%s, hora=%s-%s. Horarios disponibles (todos los periodos): [%s]",
		block.CourseID, block.SectionID, periodID, dayName, start, end, listing)
}

// dayMatches compares the stored weekday against both the resolved name and
// the original request value, case-insensitively; catalogs hold either form.
func dayMatches(stored, dayName, original string) bool {
	return strings.EqualFold(stored, dayName) || stored == original
}

func firstOverlap(slots []models.TimetableSlot, dayName, original string, reqStart, reqEnd time.Time) *models.TimetableSlot {
	for i := range slots {
		s := &slots[i]
		if !dayMatches(s.Weekday, dayName, original) {
			continue
		}
		slotStart, err := parseTime(s.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := parseTime(s.EndTime)
		if err != nil {
			continue
		}
		// half-open interval overlap
		if reqStart.Before(slotEnd) && slotStart.Before(reqEnd) {
			return s
		}
	}
	return nil
}

func firstOnDay(slots []models.TimetableSlot, dayName, original string) *models.TimetableSlot {
	for i := range slots {
		if dayMatches(slots[i].Weekday, dayName, original) {
			return &slots[i]
		}
	}
	return nil
}

func firstExactTime(slots []models.TimetableSlot, dayName, original, start, end string) *models.TimetableSlot {
	for i := range slots {
		s := &slots[i]
		if dayMatches(s.Weekday, dayName, original) &&
			NormalizeTime(s.StartTime) == start &&
			NormalizeTime(s.EndTime) == end {
			return s
		}
	}
	return nil
}
