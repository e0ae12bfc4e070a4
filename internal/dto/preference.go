package dto

import (
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// SetGlobalWindowRequest configures the preference window for every faculty.
type SetGlobalWindowRequest struct {
	Status    bool    `json:"status"`
	Deadline  *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	SendEmail bool    `json:"send_email"`
}

// SetIndividualWindowRequest configures the preference window for one faculty.
type SetIndividualWindowRequest struct {
	Status    bool    `json:"status"`
	Deadline  *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	SendEmail bool    `json:"send_email"`
}

// PreferenceDayInput is a preferred slot in a submission.
type PreferenceDayInput struct {
	Day       string `json:"preferred_day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"preferred_start_time" validate:"required"`
	EndTime   string `json:"preferred_end_time" validate:"required"`
}

// SubmitPreferencesRequest upserts one preference and its days.
type SubmitPreferencesRequest struct {
	CourseAssignmentID int64                `json:"course_assignment_id" validate:"required,gt=0"`
	Days               []PreferenceDayInput `json:"days" validate:"required,min=1,dive"`
}

// WindowStatus is the faculty-visible preference window.
type WindowStatus struct {
	FacultyID  int64              `json:"faculty_id"`
	State      models.WindowState `json:"state"`
	StartDate  null.Time          `json:"start_date"`
	Deadline   null.Time          `json:"deadline"`
	HasRequest bool               `json:"has_request"`
}

// WindowUpdate reports the outcome of a window change.
type WindowUpdate struct {
	IsEnabled bool      `json:"is_enabled"`
	Scheduled bool      `json:"scheduled"`
	StartDate null.Time `json:"start_date"`
	Deadline  null.Time `json:"deadline"`
}
