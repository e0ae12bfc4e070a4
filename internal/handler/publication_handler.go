package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type publicationService interface {
	ToggleAll(ctx context.Context, req dto.TogglePublicationRequest) (*dto.ToggleResult, error)
	ToggleSingle(ctx context.Context, facultyID int64, req dto.TogglePublicationRequest) (*dto.ToggleResult, error)
	ListPublications(ctx context.Context) ([]models.FacultySchedulePublication, error)
}

// PublicationHandler exposes the publication workflow.
type PublicationHandler struct {
	service publicationService
}

// NewPublicationHandler constructs a publication handler.
func NewPublicationHandler(service publicationService) *PublicationHandler {
	return &PublicationHandler{service: service}
}

// ToggleAll godoc
// @Summary Publish or unpublish every assigned faculty schedule
// @Description Publishing resets every preference window and notifies partners once.
// @Tags Publications
// @Accept json
// @Produce json
// @Param payload body dto.TogglePublicationRequest true "Toggle"
// @Success 200 {object} response.Envelope
// @Router /publications/toggle [post]
func (h *PublicationHandler) ToggleAll(c *gin.Context) {
	var req dto.TogglePublicationRequest
	if !bindJSON(c, &req, "publication") {
		return
	}
	result, err := h.service.ToggleAll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ToggleSingle godoc
// @Summary Publish or unpublish one faculty schedule
// @Tags Publications
// @Accept json
// @Produce json
// @Param facultyId path int true "Faculty ID"
// @Param payload body dto.TogglePublicationRequest true "Toggle"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /publications/{facultyId}/toggle [post]
func (h *PublicationHandler) ToggleSingle(c *gin.Context) {
	facultyID, ok := idParam(c, "facultyId")
	if !ok {
		return
	}
	var req dto.TogglePublicationRequest
	if !bindJSON(c, &req, "publication") {
		return
	}
	result, err := h.service.ToggleSingle(c.Request.Context(), facultyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// List godoc
// @Summary List publication flags of the active period
// @Tags Publications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /publications [get]
func (h *PublicationHandler) List(c *gin.Context) {
	pubs, err := h.service.ListPublications(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if pubs == nil {
		pubs = []models.FacultySchedulePublication{}
	}
	response.OK(c, pubs)
}
