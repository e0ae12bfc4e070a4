package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type viewOfferings interface {
	List(ctx context.Context, exec sqlx.ExtContext, filter repository.OfferingFilter) ([]models.Offering, error)
}

type viewCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ScheduleViewService serves published schedules flattened by faculty, room or program.
type ScheduleViewService struct {
	periods   activePeriodFinder
	offerings viewOfferings
	cache     viewCache
	logger    *zap.Logger
}

// NewScheduleViewService constructs the published views service. cache may be nil.
func NewScheduleViewService(periods activePeriodFinder, offerings viewOfferings, cache viewCache, logger *zap.Logger) *ScheduleViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleViewService{periods: periods, offerings: offerings, cache: cache, logger: logger}
}

// ByFaculty returns the published schedule of one faculty.
func (s *ScheduleViewService) ByFaculty(ctx context.Context, facultyID int64) ([]dto.ScheduleViewRow, error) {
	return s.view(ctx, fmt.Sprintf("faculty:%d", facultyID), dto.ScheduleViewQuery{FacultyID: &facultyID})
}

// ByRoom returns the published schedule of one room.
func (s *ScheduleViewService) ByRoom(ctx context.Context, roomID int64) ([]dto.ScheduleViewRow, error) {
	return s.view(ctx, fmt.Sprintf("room:%d", roomID), dto.ScheduleViewQuery{RoomID: &roomID})
}

// ByProgram returns the published schedule of a program, optionally one year level.
func (s *ScheduleViewService) ByProgram(ctx context.Context, programID int64, yearLevel *int) ([]dto.ScheduleViewRow, error) {
	key := fmt.Sprintf("program:%d", programID)
	if yearLevel != nil {
		key += fmt.Sprintf(":%d", *yearLevel)
	}
	return s.view(ctx, key, dto.ScheduleViewQuery{ProgramID: &programID, YearLevel: yearLevel})
}

func (s *ScheduleViewService) view(ctx context.Context, scope string, q dto.ScheduleViewQuery) ([]dto.ScheduleViewRow, error) {
	period, err := loadActivePeriod(ctx, s.periods, nil)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%d:%d:%s", period.AcademicYearID, period.SemesterID, scope)

	if s.cache != nil {
		var cached []dto.ScheduleViewRow
		hit, cacheErr := s.cache.Get(ctx, key, &cached)
		if cacheErr != nil {
			s.logger.Warn("schedule view cache read failed", zap.String("key", key), zap.Error(cacheErr))
		} else if hit {
			return cached, nil
		}
	}

	offerings, err := s.offerings.List(ctx, nil, repository.OfferingFilter{
		AcademicYearID: period.AcademicYearID,
		SemesterID:     period.SemesterID,
		PublishedOnly:  true,
		FacultyID:      q.FacultyID,
		RoomID:         q.RoomID,
		ProgramID:      q.ProgramID,
		YearLevel:      q.YearLevel,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load published schedules")
	}

	rows := flattenOfferings(offerings)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rows, 0); err != nil {
			s.logger.Warn("schedule view cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rows, nil
}

func flattenOfferings(offerings []models.Offering) []dto.ScheduleViewRow {
	rows := make([]dto.ScheduleViewRow, 0, len(offerings))
	for _, o := range offerings {
		if !o.ScheduleID.Valid {
			continue
		}
		row := dto.ScheduleViewRow{
			ScheduleID:  o.ScheduleID.Int64,
			ProgramCode: o.ProgramCode,
			YearLevel:   o.YearLevel,
			SectionName: o.SectionName,
			CourseCode:  o.CourseCode,
			CourseTitle: o.CourseTitle,
			IsCopy:      o.IsCopy,
			Day:         o.Day,
			StartTime:   o.StartTime,
			EndTime:     o.EndTime,
			FacultyID:   o.FacultyID,
			RoomID:      o.RoomID,
			RoomCode:    o.RoomCode,
		}
		if name := o.FacultyName(); name != "" {
			row.FacultyName.SetValid(name)
		}
		rows = append(rows, row)
	}
	return rows
}
