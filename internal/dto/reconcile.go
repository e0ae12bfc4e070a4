package dto

import "github.com/volatiletech/null/v8"

// ScheduleTree is the nested projection returned by Reconcile:
// program -> year level -> semester -> section -> course.
type ScheduleTree struct {
	AcademicYearID int64         `json:"academic_year_id"`
	YearStart      int           `json:"year_start"`
	YearEnd        int           `json:"year_end"`
	SemesterID     int16         `json:"semester_id"`
	Programs       []ProgramNode `json:"programs"`
}

// ProgramNode groups the year levels of one program.
type ProgramNode struct {
	ProgramID    int64           `json:"program_id"`
	ProgramCode  string          `json:"program_code"`
	ProgramTitle string          `json:"program_title"`
	YearLevels   []YearLevelNode `json:"year_levels"`
}

// YearLevelNode groups the semester view of one year level.
type YearLevelNode struct {
	YearLevel      int            `json:"year_level"`
	CurriculumID   int64          `json:"curriculum_id"`
	CurriculumYear string         `json:"curriculum_year"`
	Semesters      []SemesterNode `json:"semesters"`
}

// SemesterNode groups the sections for the active semester.
type SemesterNode struct {
	Semester     int16         `json:"semester"`
	SemesterName string        `json:"semester_name"`
	Sections     []SectionNode `json:"sections"`
}

// SectionNode lists the offerings of a section.
type SectionNode struct {
	SectionID   int64        `json:"section_id"`
	SectionName string       `json:"section_name"`
	Courses     []CourseNode `json:"courses"`
}

// CourseNode is one section course with its schedule.
type CourseNode struct {
	SectionCourseID    int64        `json:"section_course_id"`
	CourseAssignmentID int64        `json:"course_assignment_id"`
	CourseCode         string       `json:"course_code"`
	CourseTitle        string       `json:"course_title"`
	LecHours           float64      `json:"lec_hours"`
	LabHours           float64      `json:"lab_hours"`
	Units              float64      `json:"units"`
	IsCopy             bool         `json:"is_copy"`
	Schedule           ScheduleNode `json:"schedule"`
}

// ScheduleNode is the resolved placement of a course.
type ScheduleNode struct {
	ScheduleID  null.Int64  `json:"schedule_id"`
	Day         null.String `json:"day"`
	StartTime   null.String `json:"start_time"`
	EndTime     null.String `json:"end_time"`
	FacultyID   null.Int64  `json:"faculty_id"`
	FacultyName null.String `json:"faculty_name"`
	RoomID      null.Int64  `json:"room_id"`
	RoomCode    null.String `json:"room_code"`
}

// ReconcileStats counts rows inserted by a reconcile run.
type ReconcileStats struct {
	SectionCoursesCreated int `json:"section_courses_created"`
	SchedulesCreated      int `json:"schedules_created"`
}

// DuplicateResult is the copy offering created by DuplicateCourse and its empty schedule.
type DuplicateResult struct {
	SectionCourseID    int64 `json:"section_course_id"`
	SectionID          int64 `json:"section_id"`
	CourseAssignmentID int64 `json:"course_assignment_id"`
	IsCopy             bool  `json:"is_copy"`
	ScheduleID         int64 `json:"schedule_id"`
}
