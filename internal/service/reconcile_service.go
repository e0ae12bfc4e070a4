package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type slotLister interface {
	ListCurriculumSlots(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semester int16) ([]models.CurriculumSlot, error)
}

type reconcileSections interface {
	ListByYear(ctx context.Context, exec sqlx.ExtContext, academicYearID int64) ([]models.Section, error)
	ListOriginalKeys(ctx context.Context, exec sqlx.ExtContext, sectionIDs []int64) (map[models.SectionCourseKey]struct{}, error)
	InsertOriginals(ctx context.Context, exec sqlx.ExtContext, keys []models.SectionCourseKey) (int, error)
	FindCourse(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.SectionCourse, error)
	CreateCopy(ctx context.Context, exec sqlx.ExtContext, sectionID, courseAssignmentID int64) (*models.SectionCourse, error)
	DeleteCourse(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type reconcileSchedules interface {
	InsertMissingForYear(ctx context.Context, exec sqlx.ExtContext, academicYearID int64) (int, error)
	CreateEmpty(ctx context.Context, exec sqlx.ExtContext, sectionCourseID int64) (*models.Schedule, error)
	DeleteBySectionCourse(ctx context.Context, exec sqlx.ExtContext, sectionCourseID int64) error
}

type offeringLister interface {
	List(ctx context.Context, exec sqlx.ExtContext, filter repository.OfferingFilter) ([]models.Offering, error)
}

// ReconcileService expands the curriculum of the active period into section
// courses and schedules without touching existing placements.
type ReconcileService struct {
	periods   activePeriodFinder
	catalog   slotLister
	sections  reconcileSections
	schedules reconcileSchedules
	offerings offeringLister
	tx        txProvider
	views     viewInvalidator
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewReconcileService constructs the reconciler.
func NewReconcileService(periods activePeriodFinder, catalog slotLister, sections reconcileSections, schedules reconcileSchedules, offerings offeringLister, tx txProvider, views viewInvalidator, metrics *MetricsService, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = noopInvalidator{}
	}
	return &ReconcileService{
		periods:   periods,
		catalog:   catalog,
		sections:  sections,
		schedules: schedules,
		offerings: offerings,
		tx:        tx,
		views:     views,
		metrics:   metrics,
		logger:    logger,
	}
}

type programYear struct {
	programID int64
	yearLevel int
}

// Reconcile ensures one original section course per section and course
// assignment, one schedule per section course, and returns the schedule tree.
// Running it twice without intervening writes inserts nothing the second time
// and yields an identical tree.
func (s *ReconcileService) Reconcile(ctx context.Context) (*dto.ScheduleTree, error) {
	started := time.Now()
	period, err := loadActivePeriod(ctx, s.periods, nil)
	if err != nil {
		return nil, err
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

	slots, err := s.catalog.ListCurriculumSlots(ctx, tx, period.AcademicYearID, period.SemesterID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enumerate curriculum")
		return nil, err
	}
	sections, err := s.sections.ListByYear(ctx, tx, period.AcademicYearID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
		return nil, err
	}

	byGroup := make(map[programYear][]models.Section)
	for _, sec := range sections {
		key := programYear{sec.ProgramID, sec.YearLevel}
		byGroup[key] = append(byGroup[key], sec)
	}

	var scoped []int64
	seenGroup := make(map[programYear]bool)
	for _, slot := range slots {
		key := programYear{slot.ProgramID, slot.YearLevel}
		if seenGroup[key] {
			continue
		}
		seenGroup[key] = true
		for _, sec := range byGroup[key] {
			scoped = append(scoped, sec.ID)
		}
	}

	existing, err := s.sections.ListOriginalKeys(ctx, tx, scoped)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section courses")
		return nil, err
	}

	var missing []models.SectionCourseKey
	for _, slot := range slots {
		if slot.CourseAssignmentID == nil {
			continue
		}
		for _, sec := range byGroup[programYear{slot.ProgramID, slot.YearLevel}] {
			key := models.SectionCourseKey{SectionID: sec.ID, CourseAssignmentID: *slot.CourseAssignmentID}
			if _, ok := existing[key]; ok {
				continue
			}
			existing[key] = struct{}{}
			missing = append(missing, key)
		}
	}

	createdCourses, err := s.sections.InsertOriginals(ctx, tx, missing)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section courses")
		return nil, err
	}
	createdSchedules, err := s.schedules.InsertMissingForYear(ctx, tx, period.AcademicYearID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedules")
		return nil, err
	}

	offerings, err := s.offerings.List(ctx, tx, repository.OfferingFilter{AcademicYearID: period.AcademicYearID, SemesterID: period.SemesterID})
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offerings")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit reconciliation")
		return nil, err
	}

	stats := dto.ReconcileStats{SectionCoursesCreated: createdCourses, SchedulesCreated: createdSchedules}
	s.metrics.ObserveReconcile(stats.SectionCoursesCreated, stats.SchedulesCreated, time.Since(started))
	if stats.SectionCoursesCreated > 0 || stats.SchedulesCreated > 0 {
		s.views.InvalidateViews(ctx)
	}
	s.logger.Info("schedule reconciled",
		zap.Int64("academic_year_id", period.AcademicYearID),
		zap.Int16("semester_id", period.SemesterID),
		zap.Int("section_courses_created", stats.SectionCoursesCreated),
		zap.Int("schedules_created", stats.SchedulesCreated))

	return BuildScheduleTree(period, slots, sections, offerings), nil
}

// BuildScheduleTree assembles the nested projection in one ordered pass per
// input. slots define which program year levels appear; sections attach to
// them and offerings attach to sections. Inputs must be in repository order.
func BuildScheduleTree(period *models.ActivePeriod, slots []models.CurriculumSlot, sections []models.Section, offerings []models.Offering) *dto.ScheduleTree {
	tree := &dto.ScheduleTree{
		AcademicYearID: period.AcademicYearID,
		YearStart:      period.YearStart,
		YearEnd:        period.YearEnd,
		SemesterID:     period.SemesterID,
		Programs:       []dto.ProgramNode{},
	}

	type sectionPos struct{ program, level, section int }
	programIdx := make(map[int64]int)
	levelIdx := make(map[programYear]int)
	sectionIdx := make(map[int64]sectionPos)

	for _, slot := range slots {
		p, ok := programIdx[slot.ProgramID]
		if !ok {
			p = len(tree.Programs)
			programIdx[slot.ProgramID] = p
			tree.Programs = append(tree.Programs, dto.ProgramNode{
				ProgramID:    slot.ProgramID,
				ProgramCode:  slot.ProgramCode,
				ProgramTitle: slot.ProgramTitle,
				YearLevels:   []dto.YearLevelNode{},
			})
		}
		key := programYear{slot.ProgramID, slot.YearLevel}
		if _, ok := levelIdx[key]; ok {
			continue
		}
		program := &tree.Programs[p]
		levelIdx[key] = len(program.YearLevels)
		program.YearLevels = append(program.YearLevels, dto.YearLevelNode{
			YearLevel:      slot.YearLevel,
			CurriculumID:   slot.CurriculumID,
			CurriculumYear: slot.CurriculumYear,
			Semesters: []dto.SemesterNode{{
				Semester:     period.SemesterID,
				SemesterName: models.SemesterName(period.SemesterID),
				Sections:     []dto.SectionNode{},
			}},
		})
	}

	for _, sec := range sections {
		l, ok := levelIdx[programYear{sec.ProgramID, sec.YearLevel}]
		if !ok {
			continue
		}
		p := programIdx[sec.ProgramID]
		semester := &tree.Programs[p].YearLevels[l].Semesters[0]
		sectionIdx[sec.ID] = sectionPos{p, l, len(semester.Sections)}
		semester.Sections = append(semester.Sections, dto.SectionNode{
			SectionID:   sec.ID,
			SectionName: sec.SectionName,
			Courses:     []dto.CourseNode{},
		})
	}

	for _, o := range offerings {
		pos, ok := sectionIdx[o.SectionID]
		if !ok {
			continue
		}
		section := &tree.Programs[pos.program].YearLevels[pos.level].Semesters[0].Sections[pos.section]
		node := dto.CourseNode{
			SectionCourseID:    o.SectionCourseID,
			CourseAssignmentID: o.CourseAssignmentID,
			CourseCode:         o.CourseCode,
			CourseTitle:        o.CourseTitle,
			LecHours:           o.LecHours,
			LabHours:           o.LabHours,
			Units:              o.Units,
			IsCopy:             o.IsCopy,
			Schedule: dto.ScheduleNode{
				ScheduleID: o.ScheduleID,
				Day:        o.Day,
				StartTime:  o.StartTime,
				EndTime:    o.EndTime,
				FacultyID:  o.FacultyID,
				RoomID:     o.RoomID,
				RoomCode:   o.RoomCode,
			},
		}
		if name := o.FacultyName(); name != "" {
			node.Schedule.FacultyName.SetValid(name)
		}
		section.Courses = append(section.Courses, node)
	}

	return tree
}

// DuplicateCourse adds a copy of an original section course with an empty schedule.
func (s *ReconcileService) DuplicateCourse(ctx context.Context, sectionCourseID int64) (*dto.DuplicateResult, error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	source, err := s.sections.FindCourse(ctx, tx, sectionCourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrNotFound, "section course not found")
			return nil, err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section course")
		return nil, err
	}
	if source.IsCopy {
		err = appErrors.Clone(appErrors.ErrInvalidOperation, "a duplicate course cannot be duplicated")
		return nil, err
	}

	copied, err := s.sections.CreateCopy(ctx, tx, source.SectionID, source.CourseAssignmentID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to duplicate section course")
		return nil, err
	}
	schedule, err := s.schedules.CreateEmpty(ctx, tx, copied.ID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule for duplicate")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit duplicate")
		return nil, err
	}

	s.views.InvalidateViews(ctx)
	return &dto.DuplicateResult{
		SectionCourseID:    copied.ID,
		SectionID:          copied.SectionID,
		CourseAssignmentID: copied.CourseAssignmentID,
		IsCopy:             true,
		ScheduleID:         schedule.ID,
	}, nil
}

// RemoveDuplicate deletes a copy section course and its schedule.
func (s *ReconcileService) RemoveDuplicate(ctx context.Context, sectionCourseID int64) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	target, err := s.sections.FindCourse(ctx, tx, sectionCourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = appErrors.Clone(appErrors.ErrNotFound, "section course not found")
			return err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section course")
		return err
	}
	if !target.IsCopy {
		err = appErrors.Clone(appErrors.ErrInvalidOperation, "only duplicate courses can be removed")
		return err
	}

	if err = s.schedules.DeleteBySectionCourse(ctx, tx, target.ID); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete duplicate schedule")
		return err
	}
	if err = s.sections.DeleteCourse(ctx, tx, target.ID); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete duplicate course")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit duplicate removal")
		return err
	}

	s.views.InvalidateViews(ctx)
	return nil
}
