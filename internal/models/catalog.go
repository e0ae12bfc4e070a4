package models

import "time"

// Program is a degree program from the curriculum catalog.
type Program struct {
	ID            int64     `db:"id" json:"id"`
	ProgramCode   string    `db:"program_code" json:"program_code"`
	ProgramTitle  string    `db:"program_title" json:"program_title"`
	NumberOfYears int       `db:"number_of_years" json:"number_of_years"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Curriculum is a versioned course catalog.
type Curriculum struct {
	ID             int64     `db:"id" json:"id"`
	CurriculumYear string    `db:"curriculum_year" json:"curriculum_year"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ProgramYearLevelCurriculum pins the curriculum a program year level uses in an academic year.
type ProgramYearLevelCurriculum struct {
	ID             int64 `db:"id" json:"id"`
	AcademicYearID int64 `db:"academic_year_id" json:"academic_year_id"`
	ProgramID      int64 `db:"program_id" json:"program_id"`
	YearLevel      int   `db:"year_level" json:"year_level"`
	CurriculumID   int64 `db:"curriculum_id" json:"curriculum_id"`
}

// CurriculumSlot is one schedulable (program, year level, semester, course assignment)
// tuple for the active period. CourseAssignmentID is zero when the curriculum
// defines no courses for the slot yet.
type CurriculumSlot struct {
	ProgramID          int64   `db:"program_id"`
	ProgramCode        string  `db:"program_code"`
	ProgramTitle       string  `db:"program_title"`
	YearLevel          int     `db:"year_level"`
	Semester           int16   `db:"semester"`
	CurriculumID       int64   `db:"curriculum_id"`
	CurriculumYear     string  `db:"curriculum_year"`
	CourseAssignmentID *int64  `db:"course_assignment_id"`
	CourseID           *int64  `db:"course_id"`
	CourseCode         *string `db:"course_code"`
}
