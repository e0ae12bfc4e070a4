package models

import "time"

// FacultySchedulePublication flags whether a faculty's schedule is visible for a period.
type FacultySchedulePublication struct {
	ID             int64     `db:"id" json:"id"`
	FacultyID      int64     `db:"faculty_id" json:"faculty_id"`
	AcademicYearID int64     `db:"academic_year_id" json:"academic_year_id"`
	SemesterID     int16     `db:"semester_id" json:"semester_id"`
	IsPublished    bool      `db:"is_published" json:"is_published"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Notifier actions.
const (
	ActionToggleAllSchedules   = "toggleAllSchedules"
	ActionToggleSingleSchedule = "toggleSingleSchedule"
)
