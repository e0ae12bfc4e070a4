package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type sectionService interface {
	ListSections(ctx context.Context, programID int64, yearLevel int) ([]models.Section, error)
	AddSection(ctx context.Context, req dto.AddSectionRequest) (*models.Section, error)
	RemoveSection(ctx context.Context, sectionID int64) error
	SwitchCurriculum(ctx context.Context, req dto.SwitchCurriculumRequest) error
	DeleteProgram(ctx context.Context, programID int64) error
}

// SectionHandler exposes section and curriculum maintenance for the active year.
type SectionHandler struct {
	service sectionService
}

// NewSectionHandler constructs a section handler.
func NewSectionHandler(service sectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

// List godoc
// @Summary List sections of a program year level in the active year
// @Tags Sections
// @Produce json
// @Param program_id query int true "Program ID"
// @Param year_level query int true "Year level"
// @Success 200 {object} response.Envelope
// @Router /sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	programID, err := strconv.ParseInt(c.Query("program_id"), 10, 64)
	if err != nil || programID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program_id is required"))
		return
	}
	yearLevel, err := strconv.Atoi(c.Query("year_level"))
	if err != nil || yearLevel <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year_level is required"))
		return
	}
	sections, err := h.service.ListSections(c.Request.Context(), programID, yearLevel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sections)
}

// Add godoc
// @Summary Add the next numbered section to a program year level
// @Tags Sections
// @Accept json
// @Produce json
// @Param payload body dto.AddSectionRequest true "Section"
// @Success 201 {object} response.Envelope
// @Router /sections [post]
func (h *SectionHandler) Add(c *gin.Context) {
	var req dto.AddSectionRequest
	if !bindJSON(c, &req, "section") {
		return
	}
	section, err := h.service.AddSection(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Remove godoc
// @Summary Remove a section that carries no live schedules
// @Tags Sections
// @Param sectionId path int true "Section ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /sections/{sectionId} [delete]
func (h *SectionHandler) Remove(c *gin.Context) {
	id, ok := idParam(c, "sectionId")
	if !ok {
		return
	}
	if err := h.service.RemoveSection(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SwitchCurriculum godoc
// @Summary Point a program year level at another curriculum
// @Tags Sections
// @Accept json
// @Param payload body dto.SwitchCurriculumRequest true "Curriculum switch"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /sections/curriculum [put]
func (h *SectionHandler) SwitchCurriculum(c *gin.Context) {
	var req dto.SwitchCurriculumRequest
	if !bindJSON(c, &req, "curriculum") {
		return
	}
	if err := h.service.SwitchCurriculum(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteProgram godoc
// @Summary Delete a program that carries no live schedules
// @Tags Sections
// @Param programId path int true "Program ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /programs/{programId} [delete]
func (h *SectionHandler) DeleteProgram(c *gin.Context) {
	id, ok := idParam(c, "programId")
	if !ok {
		return
	}
	if err := h.service.DeleteProgram(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
