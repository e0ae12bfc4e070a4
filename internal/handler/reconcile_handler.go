package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type reconcileService interface {
	Reconcile(ctx context.Context) (*dto.ScheduleTree, error)
	DuplicateCourse(ctx context.Context, sectionCourseID int64) (*dto.DuplicateResult, error)
	RemoveDuplicate(ctx context.Context, sectionCourseID int64) error
}

// ReconcileHandler exposes the schedule reconciler.
type ReconcileHandler struct {
	service reconcileService
}

// NewReconcileHandler constructs a reconcile handler.
func NewReconcileHandler(service reconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

// Tree godoc
// @Summary Reconcile offerings of the active year and return the schedule tree
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/tree [post]
func (h *ReconcileHandler) Tree(c *gin.Context) {
	tree, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tree)
}

// Duplicate godoc
// @Summary Copy a section course so it can be scheduled twice
// @Tags Schedules
// @Produce json
// @Param sectionCourseId path int true "Section course ID"
// @Success 201 {object} response.Envelope
// @Router /section-courses/{sectionCourseId}/duplicate [post]
func (h *ReconcileHandler) Duplicate(c *gin.Context) {
	id, ok := idParam(c, "sectionCourseId")
	if !ok {
		return
	}
	result, err := h.service.DuplicateCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// RemoveDuplicate godoc
// @Summary Remove a copied section course and its schedule
// @Tags Schedules
// @Param sectionCourseId path int true "Section course ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /section-courses/{sectionCourseId} [delete]
func (h *ReconcileHandler) RemoveDuplicate(c *gin.Context) {
	id, ok := idParam(c, "sectionCourseId")
	if !ok {
		return
	}
	if err := h.service.RemoveDuplicate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
