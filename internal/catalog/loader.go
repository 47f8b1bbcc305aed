// Package catalog imports the course offering from CSV dumps: courses,
// sections, prerequisite edges and timetable slots.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/cruma-app/cruma/internal/models"
	"github.com/cruma-app/cruma/internal/schedule"
	"github.com/cruma-app/cruma/internal/store"
)

// Files names the four CSV inputs of one import run. Any empty path is
// skipped so partial refreshes work.
type Files struct {
	Courses  string
	Sections string
	Prereqs  string
	Slots    string
}

// Stats counts what an import run wrote.
type Stats struct {
	Courses  int
	Sections int
	Prereqs  int
	Slots    int
}

// Load reads the CSV files and upserts their rows into the store. Slot rows
// are normalized on the way in: times padded to HH:MM and weekdays
// upper-cased, so lookups never have to guess the stored form.
func Load(s store.Store, files Files) (Stats, error) {
	var stats Stats

	if files.Courses != "" {
		var courses []models.Course
		if err := readCSV(files.Courses, &courses); err != nil {
			return stats, err
		}
		for _, course := range courses {
			if err := s.UpsertCourse(course); err != nil {
				return stats, err
			}
			stats.Courses++
		}
		logger.Debug.Printf("Imported %d courses from %s", stats.Courses, files.Courses)
	}

	if files.Sections != "" {
		var sections []models.Section
		if err := readCSV(files.Sections, &sections); err != nil {
			return stats, err
		}
		for _, section := range sections {
			if err := s.UpsertSection(section); err != nil {
				return stats, err
			}
			stats.Sections++
		}
		logger.Debug.Printf("Imported %d sections from %s", stats.Sections, files.Sections)
	}

	if files.Prereqs != "" {
		var prereqs []models.CoursePrereq
		if err := readCSV(files.Prereqs, &prereqs); err != nil {
			return stats, err
		}
		for _, prereq := range prereqs {
			kind := strings.ToLower(strings.TrimSpace(prereq.Kind))
			if kind != models.PrereqRegular && kind != models.PrereqApproved {
				return stats, fmt.Errorf("unknown prereq kind %q for course %d", prereq.Kind, prereq.CourseID)
			}
			prereq.Kind = kind
			if err := s.UpsertPrereq(prereq); err != nil {
				return stats, err
			}
			stats.Prereqs++
		}
		logger.Debug.Printf("Imported %d prereq edges from %s", stats.Prereqs, files.Prereqs)
	}

	if files.Slots != "" {
		var slots []models.TimetableSlot
		if err := readCSV(files.Slots, &slots); err != nil {
			return stats, err
		}
		for i := range slots {
			slot := slots[i]
			slot.ID = 0
			slot.Weekday = strings.ToUpper(strings.TrimSpace(slot.Weekday))
			slot.StartTime = schedule.NormalizeTime(strings.TrimSpace(slot.StartTime))
			slot.EndTime = schedule.NormalizeTime(strings.TrimSpace(slot.EndTime))
			if err := s.InsertSlot(&slot); err != nil {
				return stats, err
			}
			stats.Slots++
		}
		logger.Debug.Printf("Imported %d timetable slots from %s", stats.Slots, files.Slots)
	}

	return stats, nil
}

func readCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
