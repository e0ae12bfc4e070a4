package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/volatiletech/null/v8"
)

// WindowState is the faculty-visible state of a preference submission window.
type WindowState string

const (
	WindowDisabled WindowState = "DISABLED"
	WindowPending  WindowState = "PENDING"
	WindowOpen     WindowState = "OPEN"
	WindowClosed   WindowState = "CLOSED"
)

// PreferencesSetting is the per-faculty preference window configuration.
// Individual dates, when set, shadow the global ones.
type PreferencesSetting struct {
	ID                  int64     `db:"id" json:"id"`
	FacultyID           int64     `db:"faculty_id" json:"faculty_id"`
	IsEnabled           bool      `db:"is_enabled" json:"is_enabled"`
	GlobalDeadline      null.Time `db:"global_deadline" json:"global_deadline"`
	GlobalStartDate     null.Time `db:"global_start_date" json:"global_start_date"`
	IndividualDeadline  null.Time `db:"individual_deadline" json:"individual_deadline"`
	IndividualStartDate null.Time `db:"individual_start_date" json:"individual_start_date"`
	HasRequest          bool      `db:"has_request" json:"has_request"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveStartDate returns the individual start date or the global one.
func (p PreferencesSetting) EffectiveStartDate() null.Time {
	if p.IndividualStartDate.Valid {
		return p.IndividualStartDate
	}
	return p.GlobalStartDate
}

// EffectiveDeadline returns the individual deadline or the global one.
func (p PreferencesSetting) EffectiveDeadline() null.Time {
	if p.IndividualDeadline.Valid {
		return p.IndividualDeadline
	}
	return p.GlobalDeadline
}

// Preference is a faculty's interest in teaching a course assignment in a semester.
type Preference struct {
	ID                 int64           `db:"id" json:"id"`
	FacultyID          int64           `db:"faculty_id" json:"faculty_id"`
	ActiveSemesterID   int64           `db:"active_semester_id" json:"active_semester_id"`
	CourseAssignmentID int64           `db:"course_assignment_id" json:"course_assignment_id"`
	CourseCode         string          `db:"course_code" json:"course_code,omitempty"`
	CourseTitle        string          `db:"course_title" json:"course_title,omitempty"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
	Days               []PreferenceDay `db:"-" json:"days"`
}

// PreferenceDay is a preferred teaching slot attached to a preference.
type PreferenceDay struct {
	ID           int64  `db:"id" json:"id,omitempty"`
	PreferenceID int64  `db:"preference_id" json:"-"`
	Day          string `db:"preferred_day" json:"preferred_day"`
	StartTime    string `db:"preferred_start_time" json:"preferred_start_time"`
	EndTime      string `db:"preferred_end_time" json:"preferred_end_time"`
}

// FacultySuggestion ranks a faculty for a schedule by preference overlap.
type FacultySuggestion struct {
	FacultyID   int64  `db:"faculty_id" json:"faculty_id"`
	FacultyName string `db:"-" json:"faculty_name"`
	FirstName   string `db:"first_name" json:"-"`
	MiddleName  string `db:"middle_name" json:"-"`
	LastName    string `db:"last_name" json:"-"`
	Suffix      string `db:"suffix" json:"-"`
	MatchedDays int    `db:"matched_days" json:"matched_days"`
	Preferred   int    `db:"preferred_days" json:"preferred_days"`
}

// Deferred notification kinds.
const (
	NotificationPreferencesWindowOpen = "preferences_window_open"
)

// ScheduledNotification is a persisted job executed by the deferred dispatcher.
type ScheduledNotification struct {
	ID           int64          `db:"id" json:"id"`
	Kind         string         `db:"kind" json:"kind"`
	Payload      types.JSONText `db:"payload" json:"payload"`
	RunAt        time.Time      `db:"run_at" json:"run_at"`
	DispatchedAt null.Time      `db:"dispatched_at" json:"dispatched_at"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// WindowOpenPayload is the payload of a preferences_window_open notification.
// FacultyID is nil for the global window.
type WindowOpenPayload struct {
	FacultyID *int64 `json:"faculty_id"`
	StartDate string `json:"start_date"`
	SendEmail bool   `json:"send_email"`
}
