package dto

// AssignScheduleRequest replaces every placement field of a schedule.
// A nil field unassigns it.
type AssignScheduleRequest struct {
	FacultyID *int64  `json:"faculty_id" validate:"omitempty,gt=0"`
	RoomID    *int64  `json:"room_id" validate:"omitempty,gt=0"`
	Day       *string `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}
