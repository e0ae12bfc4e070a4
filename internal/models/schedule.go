package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Weekdays accepted for schedules and preferences, in calendar order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsWeekday reports whether day is an accepted weekday name.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// WeekdayIndex returns the calendar position of day, or -1.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// Schedule is the single placement slot of a section course. Every field is
// independently nullable; a row with all nulls is unassigned.
type Schedule struct {
	ID              int64       `db:"id" json:"id"`
	SectionCourseID int64       `db:"section_course_id" json:"section_course_id"`
	Day             null.String `db:"day" json:"day"`
	StartTime       null.String `db:"start_time" json:"start_time"`
	EndTime         null.String `db:"end_time" json:"end_time"`
	FacultyID       null.Int64  `db:"faculty_id" json:"faculty_id"`
	RoomID          null.Int64  `db:"room_id" json:"room_id"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// IsLive reports whether any placement field is set.
func (s Schedule) IsLive() bool {
	return s.Day.Valid || s.StartTime.Valid || s.EndTime.Valid || s.FacultyID.Valid || s.RoomID.Valid
}

// Offering is one row of the shared active-period offerings projection: a
// section course joined with its catalog data, schedule, faculty and room.
type Offering struct {
	ProgramID          int64       `db:"program_id"`
	ProgramCode        string      `db:"program_code"`
	ProgramTitle       string      `db:"program_title"`
	YearLevel          int         `db:"year_level"`
	SectionID          int64       `db:"section_id"`
	SectionName        string      `db:"section_name"`
	SectionCourseID    int64       `db:"section_course_id"`
	IsCopy             bool        `db:"is_copy"`
	CourseAssignmentID int64       `db:"course_assignment_id"`
	CourseCode         string      `db:"course_code"`
	CourseTitle        string      `db:"course_title"`
	LecHours           float64     `db:"lec_hours"`
	LabHours           float64     `db:"lab_hours"`
	Units              float64     `db:"units"`
	ScheduleID         null.Int64  `db:"schedule_id"`
	Day                null.String `db:"day"`
	StartTime          null.String `db:"start_time"`
	EndTime            null.String `db:"end_time"`
	FacultyID          null.Int64  `db:"faculty_id"`
	FacultyFirstName   null.String `db:"faculty_first_name"`
	FacultyMiddleName  null.String `db:"faculty_middle_name"`
	FacultyLastName    null.String `db:"faculty_last_name"`
	FacultySuffix      null.String `db:"faculty_suffix"`
	RoomID             null.Int64  `db:"room_id"`
	RoomCode           null.String `db:"room_code"`
}

// FacultyName renders the assigned faculty display name, empty when unassigned.
func (o Offering) FacultyName() string {
	if !o.FacultyID.Valid {
		return ""
	}
	return DisplayName(o.FacultyFirstName.String, o.FacultyMiddleName.String, o.FacultyLastName.String, o.FacultySuffix.String)
}

// LiveSchedule names the first schedule blocking a destructive operation.
type LiveSchedule struct {
	ScheduleID  int64       `db:"schedule_id"`
	ProgramCode string      `db:"program_code"`
	YearLevel   int         `db:"year_level"`
	SectionName string      `db:"section_name"`
	CourseCode  string      `db:"course_code"`
	RoomCode    null.String `db:"room_code"`
}
