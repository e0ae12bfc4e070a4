package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-scheduler-api/internal/middleware"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// Handlers bundles every HTTP handler mounted under the API prefix.
type Handlers struct {
	Periods      *PeriodHandler
	Reconcile    *ReconcileHandler
	Schedules    *ScheduleHandler
	Preferences  *PreferenceHandler
	Publications *PublicationHandler
	Views        *ViewHandler
	Sections     *SectionHandler
	System       *MetricsHandler
}

// RegisterRoutes mounts the API on group. auth must attach JWT claims.
func RegisterRoutes(group *gin.RouterGroup, auth gin.HandlerFunc, h Handlers) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	faculty := middleware.RequireRoles(models.RoleFaculty)
	anyone := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty)
	adminOrSelf := middleware.RBAC(string(models.RoleAdmin), middleware.SelfFaculty)

	secured := group.Group("", auth)

	periods := secured.Group("/periods")
	periods.GET("", admin, h.Periods.List)
	periods.GET("/active", anyone, h.Periods.Active)
	periods.POST("", admin, h.Periods.Create)
	periods.POST("/activate", admin, h.Periods.Activate)
	periods.DELETE("/:academicYearId", admin, h.Periods.Delete)

	schedules := secured.Group("/schedules", admin)
	schedules.POST("/tree", h.Reconcile.Tree)
	schedules.GET("/:scheduleId", h.Schedules.Get)
	schedules.PUT("/:scheduleId", h.Schedules.Assign)
	schedules.GET("/:scheduleId/suggestions", h.Schedules.Suggest)

	sectionCourses := secured.Group("/section-courses", admin)
	sectionCourses.POST("/:sectionCourseId/duplicate", h.Reconcile.Duplicate)
	sectionCourses.DELETE("/:sectionCourseId", h.Reconcile.RemoveDuplicate)

	windows := secured.Group("/preferences/window", admin)
	windows.PUT("", h.Preferences.SetGlobal)
	windows.PUT("/:facultyId", h.Preferences.SetIndividual)
	secured.GET("/faculty/:facultyId/preferences", adminOrSelf, h.Preferences.FacultyPreferences)

	me := secured.Group("/me/preferences", faculty)
	me.GET("/window", h.Preferences.Window)
	me.GET("", h.Preferences.List)
	me.POST("", h.Preferences.Submit)
	me.DELETE("", h.Preferences.DeleteAll)
	me.DELETE("/:preferenceId", h.Preferences.Delete)
	me.POST("/request", h.Preferences.RequestAccess)
	me.DELETE("/request", h.Preferences.CancelRequest)

	publications := secured.Group("/publications", admin)
	publications.GET("", h.Publications.List)
	publications.POST("/toggle", h.Publications.ToggleAll)
	publications.POST("/:facultyId/toggle", h.Publications.ToggleSingle)

	views := secured.Group("/views", anyone)
	views.GET("/faculty/:facultyId", h.Views.ByFaculty)
	views.GET("/rooms/:roomId", h.Views.ByRoom)
	views.GET("/programs/:programId", h.Views.ByProgram)

	sections := secured.Group("/sections", admin)
	sections.GET("", h.Sections.List)
	sections.POST("", h.Sections.Add)
	sections.PUT("/curriculum", h.Sections.SwitchCurriculum)
	sections.DELETE("/:sectionId", h.Sections.Remove)
	secured.DELETE("/programs/:programId", admin, h.Sections.DeleteProgram)

	secured.GET("/system/metrics", admin, h.System.Summary)
}
