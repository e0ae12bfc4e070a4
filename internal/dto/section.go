package dto

// AddSectionRequest appends a section to a program year level of the active year.
type AddSectionRequest struct {
	ProgramID int64 `json:"program_id" validate:"required,gt=0"`
	YearLevel int   `json:"year_level" validate:"required,gt=0"`
}

// SwitchCurriculumRequest repoints a program year level to another curriculum.
type SwitchCurriculumRequest struct {
	ProgramID    int64 `json:"program_id" validate:"required,gt=0"`
	YearLevel    int   `json:"year_level" validate:"required,gt=0"`
	CurriculumID int64 `json:"curriculum_id" validate:"required,gt=0"`
}
