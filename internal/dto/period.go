package dto

// ActivatePeriodRequest switches the active (academic year, semester) pair.
type ActivatePeriodRequest struct {
	AcademicYearID int64  `json:"academic_year_id" validate:"required,gt=0"`
	SemesterID     int16  `json:"semester_id" validate:"required,oneof=1 2 3"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// CreatePeriodRequest provisions a new academic year.
type CreatePeriodRequest struct {
	YearStart int `json:"year_start" validate:"required,gte=1900,lte=9998"`
	YearEnd   int `json:"year_end" validate:"required,gte=1901,lte=9999"`
}
