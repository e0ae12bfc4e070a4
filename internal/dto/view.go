package dto

import "github.com/volatiletech/null/v8"

// ScheduleViewQuery selects a published view.
type ScheduleViewQuery struct {
	FacultyID *int64
	RoomID    *int64
	ProgramID *int64
	YearLevel *int
}

// ScheduleViewRow is one flattened published schedule entry.
type ScheduleViewRow struct {
	ScheduleID  int64       `json:"schedule_id"`
	ProgramCode string      `json:"program_code"`
	YearLevel   int         `json:"year_level"`
	SectionName string      `json:"section_name"`
	CourseCode  string      `json:"course_code"`
	CourseTitle string      `json:"course_title"`
	IsCopy      bool        `json:"is_copy"`
	Day         null.String `json:"day"`
	StartTime   null.String `json:"start_time"`
	EndTime     null.String `json:"end_time"`
	FacultyID   null.Int64  `json:"faculty_id"`
	FacultyName null.String `json:"faculty_name"`
	RoomID      null.Int64  `json:"room_id"`
	RoomCode    null.String `json:"room_code"`
}
