package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type scheduleViewService interface {
	ByFaculty(ctx context.Context, facultyID int64) ([]dto.ScheduleViewRow, error)
	ByRoom(ctx context.Context, roomID int64) ([]dto.ScheduleViewRow, error)
	ByProgram(ctx context.Context, programID int64, yearLevel *int) ([]dto.ScheduleViewRow, error)
}

// ViewHandler serves published schedules.
type ViewHandler struct {
	service scheduleViewService
}

// NewViewHandler constructs a view handler.
func NewViewHandler(service scheduleViewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// ByFaculty godoc
// @Summary Published schedule of a faculty
// @Tags Views
// @Produce json
// @Param facultyId path int true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /views/faculty/{facultyId} [get]
func (h *ViewHandler) ByFaculty(c *gin.Context) {
	id, ok := idParam(c, "facultyId")
	if !ok {
		return
	}
	rows, err := h.service.ByFaculty(c.Request.Context(), id)
	h.render(c, rows, err)
}

// ByRoom godoc
// @Summary Published schedule of a room
// @Tags Views
// @Produce json
// @Param roomId path int true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /views/rooms/{roomId} [get]
func (h *ViewHandler) ByRoom(c *gin.Context) {
	id, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	rows, err := h.service.ByRoom(c.Request.Context(), id)
	h.render(c, rows, err)
}

// ByProgram godoc
// @Summary Published schedule of a program
// @Tags Views
// @Produce json
// @Param programId path int true "Program ID"
// @Param year_level query int false "Year level"
// @Success 200 {object} response.Envelope
// @Router /views/programs/{programId} [get]
func (h *ViewHandler) ByProgram(c *gin.Context) {
	id, ok := idParam(c, "programId")
	if !ok {
		return
	}
	var yearLevel *int
	if raw := c.Query("year_level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil || level <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year_level must be a positive integer"))
			return
		}
		yearLevel = &level
	}
	rows, err := h.service.ByProgram(c.Request.Context(), id, yearLevel)
	h.render(c, rows, err)
}

func (h *ViewHandler) render(c *gin.Context, rows []dto.ScheduleViewRow, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if rows == nil {
		rows = []dto.ScheduleViewRow{}
	}
	response.OK(c, rows, map[string]interface{}{"count": len(rows)})
}
