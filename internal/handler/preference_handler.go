package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
	"github.com/noah-isme/academic-scheduler-api/pkg/response"
)

type preferenceService interface {
	SetGlobal(ctx context.Context, req dto.SetGlobalWindowRequest) (*dto.WindowUpdate, error)
	SetIndividual(ctx context.Context, facultyID int64, req dto.SetIndividualWindowRequest) (*dto.WindowUpdate, error)
	FacultyForUser(ctx context.Context, userID int64) (*models.Faculty, error)
	GetWindow(ctx context.Context, facultyID int64) (*dto.WindowStatus, error)
	SubmitPreferences(ctx context.Context, facultyID int64, req dto.SubmitPreferencesRequest) (*models.Preference, error)
	ListPreferences(ctx context.Context, facultyID int64) ([]models.Preference, error)
	DeletePreference(ctx context.Context, facultyID, preferenceID int64) error
	DeleteAllPreferences(ctx context.Context, facultyID int64) (int, error)
	RequestAccess(ctx context.Context, facultyID int64) error
	CancelRequest(ctx context.Context, facultyID int64) error
}

// PreferenceHandler exposes preference windows to admins and preference
// submission to faculty.
type PreferenceHandler struct {
	service preferenceService
}

// NewPreferenceHandler constructs a preference handler.
func NewPreferenceHandler(service preferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// currentFaculty resolves the faculty behind the caller's token.
func (h *PreferenceHandler) currentFaculty(c *gin.Context) (int64, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return 0, false
	}
	if claims.FacultyID > 0 {
		return claims.FacultyID, true
	}
	faculty, err := h.service.FacultyForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return 0, false
	}
	return faculty.ID, true
}

// SetGlobal godoc
// @Summary Configure the preference window for every faculty
// @Description A future start date defers opening to the dispatcher.
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.SetGlobalWindowRequest true "Window"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /preferences/window [put]
func (h *PreferenceHandler) SetGlobal(c *gin.Context) {
	var req dto.SetGlobalWindowRequest
	if !bindJSON(c, &req, "window") {
		return
	}
	result, err := h.service.SetGlobal(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetIndividual godoc
// @Summary Configure the preference window of one faculty
// @Tags Preferences
// @Accept json
// @Produce json
// @Param facultyId path int true "Faculty ID"
// @Param payload body dto.SetIndividualWindowRequest true "Window"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preferences/window/{facultyId} [put]
func (h *PreferenceHandler) SetIndividual(c *gin.Context) {
	facultyID, ok := idParam(c, "facultyId")
	if !ok {
		return
	}
	var req dto.SetIndividualWindowRequest
	if !bindJSON(c, &req, "window") {
		return
	}
	result, err := h.service.SetIndividual(c.Request.Context(), facultyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// FacultyPreferences godoc
// @Summary List the preferences a faculty submitted this semester
// @Tags Preferences
// @Produce json
// @Param facultyId path int true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{facultyId}/preferences [get]
func (h *PreferenceHandler) FacultyPreferences(c *gin.Context) {
	facultyID, ok := idParam(c, "facultyId")
	if !ok {
		return
	}
	h.list(c, facultyID)
}

// Window godoc
// @Summary Get the caller's preference window
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /me/preferences/window [get]
func (h *PreferenceHandler) Window(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	status, err := h.service.GetWindow(c.Request.Context(), facultyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}

// Submit godoc
// @Summary Submit a course preference with preferred days
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.SubmitPreferencesRequest true "Preference"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /me/preferences [post]
func (h *PreferenceHandler) Submit(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	var req dto.SubmitPreferencesRequest
	if !bindJSON(c, &req, "preference") {
		return
	}
	pref, err := h.service.SubmitPreferences(c.Request.Context(), facultyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pref)
}

// List godoc
// @Summary List the caller's preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/preferences [get]
func (h *PreferenceHandler) List(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	h.list(c, facultyID)
}

func (h *PreferenceHandler) list(c *gin.Context, facultyID int64) {
	prefs, err := h.service.ListPreferences(c.Request.Context(), facultyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if prefs == nil {
		prefs = []models.Preference{}
	}
	response.OK(c, prefs)
}

// Delete godoc
// @Summary Delete one of the caller's preferences
// @Tags Preferences
// @Param preferenceId path int true "Preference ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /me/preferences/{preferenceId} [delete]
func (h *PreferenceHandler) Delete(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	preferenceID, ok := idParam(c, "preferenceId")
	if !ok {
		return
	}
	if err := h.service.DeletePreference(c.Request.Context(), facultyID, preferenceID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll godoc
// @Summary Delete every preference the caller submitted this semester
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/preferences [delete]
func (h *PreferenceHandler) DeleteAll(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteAllPreferences(c.Request.Context(), facultyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": deleted})
}

// RequestAccess godoc
// @Summary Ask admins to open the caller's preference window
// @Tags Preferences
// @Success 204
// @Router /me/preferences/request [post]
func (h *PreferenceHandler) RequestAccess(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	if err := h.service.RequestAccess(c.Request.Context(), facultyID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CancelRequest godoc
// @Summary Withdraw the caller's access request
// @Tags Preferences
// @Success 204
// @Router /me/preferences/request [delete]
func (h *PreferenceHandler) CancelRequest(c *gin.Context) {
	facultyID, ok := h.currentFaculty(c)
	if !ok {
		return
	}
	if err := h.service.CancelRequest(c.Request.Context(), facultyID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
