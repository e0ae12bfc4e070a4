package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type periodService interface {
	GetActive(ctx context.Context) (*models.ActivePeriod, error)
	ListPeriods(ctx context.Context) ([]models.AcademicYearWithSemesters, error)
	Activate(ctx context.Context, req dto.ActivatePeriodRequest) (*models.ActivePeriod, error)
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest) (*models.AcademicYearWithSemesters, error)
	DeletePeriod(ctx context.Context, academicYearID int64) error
}

// PeriodHandler exposes the academic period registry.
type PeriodHandler struct {
	service periodService
}

// NewPeriodHandler constructs a period handler.
func NewPeriodHandler(service periodService) *PeriodHandler {
	return &PeriodHandler{service: service}
}

// List godoc
// @Summary List academic years with their semesters
// @Tags Periods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	periods, err := h.service.ListPeriods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, periods)
}

// Active godoc
// @Summary Get the active academic period
// @Tags Periods
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /periods/active [get]
func (h *PeriodHandler) Active(c *gin.Context) {
	period, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, period)
}

// Create godoc
// @Summary Create an academic year with its three semesters
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body dto.CreatePeriodRequest true "Academic year"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req, "period") {
		return
	}
	period, err := h.service.CreatePeriod(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Activate godoc
// @Summary Switch the active academic year and semester
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body dto.ActivatePeriodRequest true "Activation"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /periods/activate [post]
func (h *PeriodHandler) Activate(c *gin.Context) {
	var req dto.ActivatePeriodRequest
	if !bindJSON(c, &req, "activation") {
		return
	}
	period, err := h.service.Activate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, period)
}

// Delete godoc
// @Summary Delete an academic year that carries no live schedules
// @Tags Periods
// @Param academicYearId path int true "Academic year ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /periods/{academicYearId} [delete]
func (h *PeriodHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "academicYearId")
	if !ok {
		return
	}
	if err := h.service.DeletePeriod(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
