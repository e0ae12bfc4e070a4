package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type assignmentService interface {
	AssignSchedule(ctx context.Context, scheduleID int64, req dto.AssignScheduleRequest) (*models.Schedule, error)
	GetSchedule(ctx context.Context, scheduleID int64) (*models.Schedule, error)
	SuggestFaculty(ctx context.Context, scheduleID int64) ([]models.FacultySuggestion, error)
}

// ScheduleHandler exposes the assignment ledger.
type ScheduleHandler struct {
	service assignmentService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(service assignmentService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Assign godoc
// @Summary Overwrite day, time, faculty and room of a schedule
// @Description Omitted or null fields are cleared.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param scheduleId path int true "Schedule ID"
// @Param payload body dto.AssignScheduleRequest true "Placement"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{scheduleId} [put]
func (h *ScheduleHandler) Assign(c *gin.Context) {
	id, ok := idParam(c, "scheduleId")
	if !ok {
		return
	}
	var req dto.AssignScheduleRequest
	if !bindJSON(c, &req, "schedule") {
		return
	}
	schedule, err := h.service.AssignSchedule(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// Get godoc
// @Summary Get a schedule
// @Tags Schedules
// @Produce json
// @Param scheduleId path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{scheduleId} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "scheduleId")
	if !ok {
		return
	}
	schedule, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// Suggest godoc
// @Summary Rank faculty who asked to teach the schedule's course
// @Tags Schedules
// @Produce json
// @Param scheduleId path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{scheduleId}/suggestions [get]
func (h *ScheduleHandler) Suggest(c *gin.Context) {
	id, ok := idParam(c, "scheduleId")
	if !ok {
		return
	}
	suggestions, err := h.service.SuggestFaculty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []models.FacultySuggestion{}
	}
	response.OK(c, suggestions)
}
