package models

import "strings"

// Room statuses.
const (
	RoomAvailable   = "Available"
	RoomUnavailable = "Unavailable"
)

// Faculty is a teaching staff member joined with the owning user record.
type Faculty struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"user_id"`
	FacultyType string  `db:"faculty_type" json:"faculty_type"`
	Status      string  `db:"status" json:"status"`
	FirstName   string  `db:"first_name" json:"first_name"`
	MiddleName  *string `db:"middle_name" json:"middle_name,omitempty"`
	LastName    string  `db:"last_name" json:"last_name"`
	Suffix      *string `db:"suffix" json:"suffix,omitempty"`
	Email       string  `db:"email" json:"email"`
}

// Name renders the faculty display name.
func (f Faculty) Name() string {
	return DisplayName(f.FirstName, deref(f.MiddleName), f.LastName, deref(f.Suffix))
}

// Room is a teaching venue.
type Room struct {
	ID           int64  `db:"id" json:"id"`
	RoomCode     string `db:"room_code" json:"room_code"`
	BuildingName string `db:"building_name" json:"building_name"`
	Status       string `db:"status" json:"status"`
}

// DisplayName renders "First M. Last Suffix".
func DisplayName(first, middle, last, suffix string) string {
	parts := make([]string, 0, 4)
	if first = strings.TrimSpace(first); first != "" {
		parts = append(parts, first)
	}
	if middle = strings.TrimSpace(middle); middle != "" {
		parts = append(parts, strings.ToUpper(middle[:1])+".")
	}
	if last = strings.TrimSpace(last); last != "" {
		parts = append(parts, last)
	}
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
