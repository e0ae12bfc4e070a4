package models

import "time"

// Section is a cohort of students of one program year level in one academic year.
type Section struct {
	ID             int64     `db:"id" json:"id"`
	AcademicYearID int64     `db:"academic_year_id" json:"academic_year_id"`
	ProgramID      int64     `db:"program_id" json:"program_id"`
	YearLevel      int       `db:"year_level" json:"year_level"`
	SectionName    string    `db:"section_name" json:"section_name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// SectionCourse binds a section to a course assignment. Copies are additional
// offerings created by DuplicateCourse.
type SectionCourse struct {
	ID                 int64     `db:"id" json:"id"`
	SectionID          int64     `db:"sections_per_program_year_id" json:"section_id"`
	CourseAssignmentID int64     `db:"course_assignment_id" json:"course_assignment_id"`
	IsCopy             bool      `db:"is_copy" json:"is_copy"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SectionCourseKey identifies the original offering of a course in a section.
type SectionCourseKey struct {
	SectionID          int64
	CourseAssignmentID int64
}
