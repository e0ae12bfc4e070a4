package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type publicationStore interface {
	Upsert(ctx context.Context, exec sqlx.ExtContext, facultyIDs []int64, academicYearID int64, semesterID int16, published bool) error
	ListByPeriod(ctx context.Context, academicYearID int64, semesterID int16) ([]models.FacultySchedulePublication, error)
}

type publicationSchedules interface {
	ListAssignedFaculty(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16, originalsOnly bool) ([]int64, error)
	FacultyHasSchedule(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16, facultyID int64) (bool, error)
}

type publicationNotifier interface {
	NotifyPublicationChanged(ctx context.Context, action string, isPublished bool, facultyID *int64)
}

// PublicationService publishes faculty schedules of the active period.
type PublicationService struct {
	periods      activePeriodFinder
	publications publicationStore
	schedules    publicationSchedules
	preferences  preferenceResetter
	notifier     publicationNotifier
	tx           txProvider
	views        viewInvalidator
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewPublicationService constructs the publication workflow.
func NewPublicationService(periods activePeriodFinder, publications publicationStore, schedules publicationSchedules, preferences preferenceResetter, notifier publicationNotifier, tx txProvider, views viewInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PublicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = noopInvalidator{}
	}
	return &PublicationService{
		periods:      periods,
		publications: publications,
		schedules:    schedules,
		preferences:  preferences,
		notifier:     notifier,
		tx:           tx,
		views:        views,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// ToggleAll sets the flag of every faculty holding an original schedule and
// closes every preference window. Publishing notifies partners once.
func (s *PublicationService) ToggleAll(ctx context.Context, req dto.TogglePublicationRequest) (result *dto.ToggleResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid publication payload")
	}
	published := *req.IsPublished

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	period, err := loadActivePeriod(ctx, s.periods, tx)
	if err != nil {
		return nil, err
	}
	facultyIDs, err := s.schedules.ListAssignedFaculty(ctx, tx, period.AcademicYearID, period.SemesterID, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned faculty")
	}
	if err = s.publications.Upsert(ctx, tx, facultyIDs, period.AcademicYearID, period.SemesterID, published); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update publications")
	}
	if err = s.preferences.Reset(ctx, tx, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset preference windows")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit publication")
	}

	s.views.InvalidateViews(ctx)
	s.metrics.IncPublicationToggle("all", published)
	s.logger.Info("schedules publication toggled", zap.Bool("is_published", published), zap.Int("faculty", len(facultyIDs)))

	if published {
		s.notifier.NotifyPublicationChanged(ctx, models.ActionToggleAllSchedules, true, nil)
	}

	if facultyIDs == nil {
		facultyIDs = []int64{}
	}
	return &dto.ToggleResult{IsPublished: published, FacultyIDs: facultyIDs}, nil
}

// ToggleSingle sets the flag of one faculty and closes their preference window.
func (s *PublicationService) ToggleSingle(ctx context.Context, facultyID int64, req dto.TogglePublicationRequest) (result *dto.ToggleResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid publication payload")
	}
	published := *req.IsPublished

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	period, err := loadActivePeriod(ctx, s.periods, tx)
	if err != nil {
		return nil, err
	}
	has, err := s.schedules.FacultyHasSchedule(ctx, tx, period.AcademicYearID, period.SemesterID, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check faculty schedules")
	}
	if !has {
		err = appErrors.Clone(appErrors.ErrNotFound, "faculty has no schedules in the active period")
		return nil, err
	}
	if err = s.publications.Upsert(ctx, tx, []int64{facultyID}, period.AcademicYearID, period.SemesterID, published); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update publication")
	}
	if err = s.preferences.Reset(ctx, tx, &facultyID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset preference window")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit publication")
	}

	s.views.InvalidateViews(ctx)
	s.metrics.IncPublicationToggle("single", published)
	s.logger.Info("faculty schedule publication toggled", zap.Int64("faculty_id", facultyID), zap.Bool("is_published", published))

	if published {
		s.notifier.NotifyPublicationChanged(ctx, models.ActionToggleSingleSchedule, true, &facultyID)
	}
	return &dto.ToggleResult{IsPublished: published, FacultyIDs: []int64{facultyID}}, nil
}

// ListPublications returns the flags of the active period.
func (s *PublicationService) ListPublications(ctx context.Context) ([]models.FacultySchedulePublication, error) {
	period, err := loadActivePeriod(ctx, s.periods, nil)
	if err != nil {
		return nil, err
	}
	pubs, err := s.publications.ListByPeriod(ctx, period.AcademicYearID, period.SemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list publications")
	}
	return pubs, nil
}
