package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

const defaultSectionName = "1"

type periodRepository interface {
	FindActive(ctx context.Context, exec sqlx.ExtContext) (*models.ActivePeriod, error)
	ListYears(ctx context.Context) ([]models.AcademicYearWithSemesters, error)
	FindYearByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.AcademicYear, error)
	FindSemester(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16) (*models.ActiveSemester, error)
	LockActivation(ctx context.Context, exec sqlx.ExtContext) error
	DeactivateAll(ctx context.Context, exec sqlx.ExtContext) error
	Activate(ctx context.Context, exec sqlx.ExtContext, semesterRowID, academicYearID int64, startDate, endDate time.Time) error
	YearExists(ctx context.Context, yearStart, yearEnd int) (bool, error)
	CreateYear(ctx context.Context, exec sqlx.ExtContext, year *models.AcademicYear) error
	DeleteYear(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type periodCatalog interface {
	CountActive(ctx context.Context) (int, int, error)
	ListActivePrograms(ctx context.Context, exec sqlx.ExtContext) ([]models.Program, error)
	NewestCurriculumFor(ctx context.Context, exec sqlx.ExtContext, programID int64) (*models.Curriculum, error)
	UpsertYearLevelCurriculum(ctx context.Context, exec sqlx.ExtContext, link models.ProgramYearLevelCurriculum) error
}

type sectionCreator interface {
	Create(ctx context.Context, exec sqlx.ExtContext, section *models.Section) error
}

type liveScheduleFinder interface {
	LockScope(ctx context.Context, exec sqlx.ExtContext, scope repository.LiveScope) error
	FindLive(ctx context.Context, exec sqlx.ExtContext, scope repository.LiveScope) (*models.LiveSchedule, error)
}

type preferenceResetter interface {
	Reset(ctx context.Context, exec sqlx.ExtContext, facultyID *int64) error
}

// PeriodService is the registry of academic years and the single active period.
type PeriodService struct {
	repo        periodRepository
	catalog     periodCatalog
	sections    sectionCreator
	schedules   liveScheduleFinder
	preferences preferenceResetter
	tx          txProvider
	views       viewInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPeriodService constructs the period registry.
func NewPeriodService(repo periodRepository, catalog periodCatalog, sections sectionCreator, schedules liveScheduleFinder, preferences preferenceResetter, tx txProvider, views viewInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = noopInvalidator{}
	}
	return &PeriodService{
		repo:        repo,
		catalog:     catalog,
		sections:    sections,
		schedules:   schedules,
		preferences: preferences,
		tx:          tx,
		views:       views,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// GetActive returns the active period or NOT_FOUND.
func (s *PeriodService) GetActive(ctx context.Context) (*models.ActivePeriod, error) {
	return loadActivePeriod(ctx, s.repo, nil)
}

// ListPeriods returns academic years newest first with their semesters.
func (s *PeriodService) ListPeriods(ctx context.Context) ([]models.AcademicYearWithSemesters, error) {
	years, err := s.repo.ListYears(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list academic periods")
	}
	return years, nil
}

// Activate makes (academic year, semester) the only active period and resets
// every preference window.
func (s *PeriodService) Activate(ctx context.Context, req dto.ActivatePeriodRequest) (*models.ActivePeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activation payload")
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}

	year, err := s.repo.FindYearByID(ctx, nil, req.AcademicYearID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("academic year %d does not exist", req.AcademicYearID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.LockActivation(ctx, tx); err != nil {
		if repository.IsLockNotAvailable(err) {
			err = appErrors.Clone(appErrors.ErrConflict, "another period activation is in progress")
			return nil, err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock period activation")
		return nil, err
	}

	semester, err := s.repo.FindSemester(ctx, tx, year.ID, req.SemesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("semester %d does not exist for academic year %s", req.SemesterID, year.Label()))
			return nil, err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
		return nil, err
	}

	if err = s.repo.DeactivateAll(ctx, tx); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate periods")
		return nil, err
	}
	if err = s.preferences.Reset(ctx, tx, nil); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset preference windows")
		return nil, err
	}
	if err = s.repo.Activate(ctx, tx, semester.ID, year.ID, startDate, endDate); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate period")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit activation")
		return nil, err
	}

	s.views.InvalidateViews(ctx)
	s.metrics.IncActivation()
	s.logger.Info("academic period activated",
		zap.Int64("academic_year_id", year.ID),
		zap.String("academic_year", year.Label()),
		zap.Int16("semester_id", req.SemesterID))

	period := &models.ActivePeriod{
		ActiveSemesterID: semester.ID,
		AcademicYearID:   year.ID,
		YearStart:        year.YearStart,
		YearEnd:          year.YearEnd,
		SemesterID:       semester.SemesterID,
	}
	period.StartDate.SetValid(startDate)
	period.EndDate.SetValid(endDate)
	return period, nil
}

// CreatePeriod registers an academic year, its three semesters, a default
// section per program year level and the curriculum pins.
func (s *PeriodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest) (*models.AcademicYearWithSemesters, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic year payload")
	}
	if req.YearEnd != req.YearStart+1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year_end must equal year_start + 1")
	}

	programs, curricula, err := s.catalog.CountActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect catalog")
	}
	if programs == 0 || curricula == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "at least one active program and one active curriculum are required")
	}

	exists, err := s.repo.YearExists(ctx, req.YearStart, req.YearEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic year")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("academic year %d-%d already exists", req.YearStart, req.YearEnd))
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	year := &models.AcademicYear{YearStart: req.YearStart, YearEnd: req.YearEnd}
	if err = s.repo.CreateYear(ctx, tx, year); err != nil {
		if repository.IsUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("academic year %s already exists", year.Label()))
			return nil, err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create academic year")
		return nil, err
	}

	active, err := s.catalog.ListActivePrograms(ctx, tx)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active programs")
		return nil, err
	}

	for _, program := range active {
		var curriculum *models.Curriculum
		curriculum, err = s.catalog.NewestCurriculumFor(ctx, tx, program.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = appErrors.Clone(appErrors.ErrPreconditionFailed, "no active curriculum available for program "+program.ProgramCode)
				return nil, err
			}
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve curriculum")
			return nil, err
		}
		for level := 1; level <= program.NumberOfYears; level++ {
			section := &models.Section{AcademicYearID: year.ID, ProgramID: program.ID, YearLevel: level, SectionName: defaultSectionName}
			if err = s.sections.Create(ctx, tx, section); err != nil {
				err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create default section")
				return nil, err
			}
			link := models.ProgramYearLevelCurriculum{AcademicYearID: year.ID, ProgramID: program.ID, YearLevel: level, CurriculumID: curriculum.ID}
			if err = s.catalog.UpsertYearLevelCurriculum(ctx, tx, link); err != nil {
				err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pin curriculum")
				return nil, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit academic year")
		return nil, err
	}

	s.logger.Info("academic year created", zap.String("academic_year", year.Label()), zap.Int("programs", len(active)))

	semesters := make([]models.ActiveSemester, 0, 3)
	for _, id := range []int16{models.SemesterFirst, models.SemesterSecond, models.SemesterSummer} {
		semesters = append(semesters, models.ActiveSemester{AcademicYearID: year.ID, SemesterID: id})
	}
	return &models.AcademicYearWithSemesters{AcademicYear: *year, Semesters: semesters}, nil
}

// DeletePeriod removes an academic year that carries no live schedules.
func (s *PeriodService) DeletePeriod(ctx context.Context, academicYearID int64) error {
	year, err := s.repo.FindYearByID(ctx, nil, academicYearID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	scope := repository.LiveScope{AcademicYearID: year.ID}
	if err = s.schedules.LockScope(ctx, tx, scope); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock schedules")
		return err
	}
	live, findErr := s.schedules.FindLive(ctx, tx, scope)
	switch {
	case findErr == nil:
		err = liveScheduleConflict("delete academic year "+year.Label(), live)
		return err
	case !errors.Is(findErr, sql.ErrNoRows):
		err = appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect schedules")
		return err
	}

	if err = s.repo.DeleteYear(ctx, tx, year.ID); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete academic year")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit academic year deletion")
		return err
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("academic year deleted", zap.String("academic_year", year.Label()))
	return nil
}
