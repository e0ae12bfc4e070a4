package dto

// TogglePublicationRequest publishes or unpublishes schedules.
type TogglePublicationRequest struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

// ToggleResult summarises a publication toggle.
type ToggleResult struct {
	IsPublished bool    `json:"is_published"`
	FacultyIDs  []int64 `json:"faculty_ids"`
}
