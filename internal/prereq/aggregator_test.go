package prereq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cruma-app/cruma/internal/models"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	now := int64(1700000000)

	testCases := []struct {
		name     string
		entries  []models.CourseStatusEntry
		expected []models.StudentCourseStatus
	}{
		{
			name:     "empty input yields empty set",
			entries:  []models.CourseStatusEntry{},
			expected: []models.StudentCourseStatus{},
		},
		{
			name: "entry without course id is skipped",
			entries: []models.CourseStatusEntry{
				{CourseID: nil, Status: intPtr(models.StatusApproved)},
				{CourseID: intPtr(7), Status: intPtr(models.StatusRegular)},
			},
			expected: []models.StudentCourseStatus{
				{CourseID: 7, Status: models.StatusRegular, UpdatedAt: now},
			},
		},
		{
			name: "missing status defaults to blocked",
			entries: []models.CourseStatusEntry{
				{CourseID: intPtr(3)},
			},
			expected: []models.StudentCourseStatus{
				{CourseID: 3, Status: models.StatusBlocked, UpdatedAt: now},
			},
		},
		{
			name: "out-of-range status passes through as sent",
			entries: []models.CourseStatusEntry{
				{CourseID: intPtr(1), Status: intPtr(9)},
				{CourseID: intPtr(2), Status: intPtr(-1)},
			},
			expected: []models.StudentCourseStatus{
				{CourseID: 1, Status: 9, UpdatedAt: now},
				{CourseID: 2, Status: -1, UpdatedAt: now},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.entries, now))
		})
	}
}

func TestSummarize(t *testing.T) {
	statuses := []models.StudentCourseStatus{
		{CourseID: 1, Status: models.StatusBlocked},
		{CourseID: 2, Status: models.StatusEnabled},
		{CourseID: 3, Status: models.StatusEnabled},
		{CourseID: 4, Status: models.StatusRegular},
		{CourseID: 5, Status: models.StatusApproved},
		{CourseID: 6, Status: 42}, // out of range lands in blocked
	}

	summary := Summarize(statuses)

	assert.Equal(t, 2, summary.Blocked)
	assert.Equal(t, 2, summary.Enabled)
	assert.Equal(t, 1, summary.Regular)
	assert.Equal(t, 1, summary.Approved)
	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, summary.Total, summary.Blocked+summary.Enabled+summary.Regular+summary.Approved)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.StatusSummary{}, Summarize(nil))
}

func TestLastUpdated(t *testing.T) {
	assert.Equal(t, int64(0), LastUpdated(nil))

	statuses := []models.StudentCourseStatus{
		{CourseID: 1, UpdatedAt: 100},
		{CourseID: 2, UpdatedAt: 300},
		{CourseID: 3, UpdatedAt: 200},
	}
	assert.Equal(t, int64(300), LastUpdated(statuses))
}
