package models

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
)

// Semester numbers within an academic year.
const (
	SemesterFirst  int16 = 1
	SemesterSecond int16 = 2
	SemesterSummer int16 = 3
)

// SemesterName returns the display label of a semester number.
func SemesterName(id int16) string {
	switch id {
	case SemesterFirst:
		return "1st Semester"
	case SemesterSecond:
		return "2nd Semester"
	case SemesterSummer:
		return "Summer"
	default:
		return ""
	}
}

// AcademicYear spans year_start to year_start+1.
type AcademicYear struct {
	ID        int64     `db:"id" json:"id"`
	YearStart int       `db:"year_start" json:"year_start"`
	YearEnd   int       `db:"year_end" json:"year_end"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Label renders the year as "2025-2026".
func (y AcademicYear) Label() string {
	return fmt.Sprintf("%d-%d", y.YearStart, y.YearEnd)
}

// ActiveSemester is one of the three semesters of an academic year.
type ActiveSemester struct {
	ID             int64     `db:"id" json:"id"`
	AcademicYearID int64     `db:"academic_year_id" json:"academic_year_id"`
	SemesterID     int16     `db:"semester_id" json:"semester_id"`
	StartDate      null.Time `db:"start_date" json:"start_date"`
	EndDate        null.Time `db:"end_date" json:"end_date"`
	IsActive       bool      `db:"is_active" json:"is_active"`
}

// ActivePeriod is the single (academic year, semester) pair currently in force.
type ActivePeriod struct {
	ActiveSemesterID int64     `db:"active_semester_id" json:"active_semester_id"`
	AcademicYearID   int64     `db:"academic_year_id" json:"academic_year_id"`
	YearStart        int       `db:"year_start" json:"year_start"`
	YearEnd          int       `db:"year_end" json:"year_end"`
	SemesterID       int16     `db:"semester_id" json:"semester_id"`
	StartDate        null.Time `db:"start_date" json:"start_date"`
	EndDate          null.Time `db:"end_date" json:"end_date"`
}

// AcademicYearWithSemesters groups a year with its semesters for listings.
type AcademicYearWithSemesters struct {
	AcademicYear
	Semesters []ActiveSemester `json:"semesters"`
}
