// Package prereq holds the prerequisite graph lookups and the per-student
// status aggregation.
package prereq

import (
	"github.com/cruma-app/cruma/internal/models"
)

// Normalize turns raw wire entries into storable rows. Entries without a
// course id are skipped; a missing status defaults to blocked (0). Explicit
// out-of-range values are NOT rejected here, they pass through as sent and
// land in the blocked bucket of the summary.
func Normalize(entries []models.CourseStatusEntry, now int64) []models.StudentCourseStatus {
	statuses := make([]models.StudentCourseStatus, 0, len(entries))
	for _, entry := range entries {
		if entry.CourseID == nil {
			continue
		}
		status := models.StatusBlocked
		if entry.Status != nil {
			status = *entry.Status
		}
		statuses = append(statuses, models.StudentCourseStatus{
			CourseID:  *entry.CourseID,
			Status:    status,
			UpdatedAt: now,
		})
	}
	return statuses
}

// Summarize counts courses per bucket. Anything that is not enabled, regular
// or approved counts as blocked, including out-of-range values.
func Summarize(statuses []models.StudentCourseStatus) models.StatusSummary {
	var summary models.StatusSummary
	for _, s := range statuses {
		switch s.Status {
		case models.StatusEnabled:
			summary.Enabled++
		case models.StatusRegular:
			summary.Regular++
		case models.StatusApproved:
			summary.Approved++
		default:
			summary.Blocked++
		}
	}
	summary.Total = len(statuses)
	return summary
}

// LastUpdated returns the newest updated_at across the set, 0 when empty.
func LastUpdated(statuses []models.StudentCourseStatus) int64 {
	var last int64
	for _, s := range statuses {
		if s.UpdatedAt > last {
			last = s.UpdatedAt
		}
	}
	return last
}
