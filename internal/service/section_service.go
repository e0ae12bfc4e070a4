package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type sectionStore interface {
	ListByProgramYear(ctx context.Context, exec sqlx.ExtContext, academicYearID, programID int64, yearLevel int) ([]models.Section, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Section, error)
	Create(ctx context.Context, exec sqlx.ExtContext, section *models.Section) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
	DeleteCourses(ctx context.Context, exec sqlx.ExtContext, sectionIDs []int64) error
}

type sectionCatalog interface {
	FindProgram(ctx context.Context, id int64) (*models.Program, error)
	FindCurriculum(ctx context.Context, id int64) (*models.Curriculum, error)
	IsCurriculumLinked(ctx context.Context, curriculumID, programID int64) (bool, error)
	UpsertYearLevelCurriculum(ctx context.Context, exec sqlx.ExtContext, link models.ProgramYearLevelCurriculum) error
	DeleteProgram(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

// SectionService manages sections and curriculum pins of the active academic year.
type SectionService struct {
	periods   activePeriodFinder
	sections  sectionStore
	catalog   sectionCatalog
	schedules liveScheduleFinder
	tx        txProvider
	views     viewInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService constructs the section fabric service.
func NewSectionService(periods activePeriodFinder, sections sectionStore, catalog sectionCatalog, schedules liveScheduleFinder, tx txProvider, views viewInvalidator, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = noopInvalidator{}
	}
	return &SectionService{periods: periods, sections: sections, catalog: catalog, schedules: schedules, tx: tx, views: views, validator: validate, logger: logger}
}

// ListSections returns the sections of a program year level in the active year.
func (s *SectionService) ListSections(ctx context.Context, programID int64, yearLevel int) ([]models.Section, error) {
	period, err := loadActivePeriod(ctx, s.periods, nil)
	if err != nil {
		return nil, err
	}
	sections, err := s.sections.ListByProgramYear(ctx, nil, period.AcademicYearID, programID, yearLevel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	if sections == nil {
		sections = []models.Section{}
	}
	return sections, nil
}

// nextSectionName returns one more than the highest numeric section name.
func nextSectionName(sections []models.Section) string {
	highest := 0
	for _, section := range sections {
		if n, err := strconv.Atoi(section.SectionName); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}

func (s *SectionService) loadProgram(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.catalog.FindProgram(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// AddSection appends the next numbered section to a program year level.
func (s *SectionService) AddSection(ctx context.Context, req dto.AddSectionRequest) (section *models.Section, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	program, err := s.loadProgram(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if program.NumberOfYears > 0 && req.YearLevel > program.NumberOfYears {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year_level exceeds the program duration")
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

	period, err := loadActivePeriod(ctx, s.periods, tx)
	if err != nil {
		return nil, err
	}
	existing, err := s.sections.ListByProgramYear(ctx, tx, period.AcademicYearID, req.ProgramID, req.YearLevel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	section = &models.Section{
		AcademicYearID: period.AcademicYearID,
		ProgramID:      req.ProgramID,
		YearLevel:      req.YearLevel,
		SectionName:    nextSectionName(existing),
	}
	if err = s.sections.Create(ctx, tx, section); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "section was added concurrently, retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit section")
	}

	s.logger.Info("section added", zap.Int64("program_id", req.ProgramID), zap.Int("year_level", req.YearLevel), zap.String("section", section.SectionName))
	return section, nil
}

// guardLive locks the scope and fails with a conflict naming the first live
// schedule in it.
func (s *SectionService) guardLive(ctx context.Context, exec sqlx.ExtContext, action string, scope repository.LiveScope) error {
	if err := s.schedules.LockScope(ctx, exec, scope); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock schedules")
	}
	live, err := s.schedules.FindLive(ctx, exec, scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check live schedules")
	}
	return liveScheduleConflict(action, live)
}

// RemoveSection deletes a section whose schedules are all empty.
func (s *SectionService) RemoveSection(ctx context.Context, sectionID int64) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.sections.FindByID(ctx, tx, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	if err = s.guardLive(ctx, tx, "remove section", repository.LiveScope{SectionIDs: []int64{sectionID}}); err != nil {
		return err
	}
	if err = s.sections.Delete(ctx, tx, sectionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit section removal")
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("section removed", zap.Int64("section_id", sectionID))
	return nil
}

// SwitchCurriculum repoints a program year level and drops the offerings of its
// sections so the next reconcile rebuilds them.
func (s *SectionService) SwitchCurriculum(ctx context.Context, req dto.SwitchCurriculumRequest) (err error) {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}
	if _, err := s.loadProgram(ctx, req.ProgramID); err != nil {
		return err
	}
	curriculum, err := s.catalog.FindCurriculum(ctx, req.CurriculumID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "curriculum not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}
	if curriculum.Status != models.StatusActive {
		return appErrors.Clone(appErrors.ErrValidation, "curriculum is not active")
	}
	linked, err := s.catalog.IsCurriculumLinked(ctx, req.CurriculumID, req.ProgramID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check curriculum link")
	}
	if !linked {
		return appErrors.Clone(appErrors.ErrValidation, "curriculum is not linked to the program")
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

	period, err := loadActivePeriod(ctx, s.periods, tx)
	if err != nil {
		return err
	}
	sections, err := s.sections.ListByProgramYear(ctx, tx, period.AcademicYearID, req.ProgramID, req.YearLevel)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}
	ids := make([]int64, 0, len(sections))
	for _, section := range sections {
		ids = append(ids, section.ID)
	}
	if len(ids) > 0 {
		if err = s.guardLive(ctx, tx, "switch curriculum", repository.LiveScope{SectionIDs: ids}); err != nil {
			return err
		}
		if err = s.sections.DeleteCourses(ctx, tx, ids); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop section courses")
		}
	}
	link := models.ProgramYearLevelCurriculum{
		AcademicYearID: period.AcademicYearID,
		ProgramID:      req.ProgramID,
		YearLevel:      req.YearLevel,
		CurriculumID:   req.CurriculumID,
	}
	if err = s.catalog.UpsertYearLevelCurriculum(ctx, tx, link); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pin curriculum")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit curriculum switch")
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("curriculum switched",
		zap.Int64("program_id", req.ProgramID),
		zap.Int("year_level", req.YearLevel),
		zap.Int64("curriculum_id", req.CurriculumID),
		zap.Int("sections", len(ids)),
	)
	return nil
}

// DeleteProgram removes a program when none of its schedules are live.
func (s *SectionService) DeleteProgram(ctx context.Context, programID int64) (err error) {
	if _, err := s.loadProgram(ctx, programID); err != nil {
		return err
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

	if err = s.guardLive(ctx, tx, "delete program", repository.LiveScope{ProgramID: programID}); err != nil {
		return err
	}
	if err = s.catalog.DeleteProgram(ctx, tx, programID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit program deletion")
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("program deleted", zap.Int64("program_id", programID))
	return nil
}
