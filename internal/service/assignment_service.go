package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type assignmentSchedules interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Schedule, error)
	Assign(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error
	SuggestFaculty(ctx context.Context, scheduleID, activeSemesterID int64) ([]models.FacultySuggestion, error)
}

type facultyDirectory interface {
	FindByID(ctx context.Context, id int64) (*models.Faculty, error)
	FindRoom(ctx context.Context, id int64) (*models.Room, error)
}

// AssignmentService writes the day, time, faculty and room of single schedules.
type AssignmentService struct {
	periods   activePeriodFinder
	schedules assignmentSchedules
	directory facultyDirectory
	views     viewInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs the assignment ledger.
func NewAssignmentService(periods activePeriodFinder, schedules assignmentSchedules, directory facultyDirectory, views viewInvalidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = noopInvalidator{}
	}
	return &AssignmentService{periods: periods, schedules: schedules, directory: directory, views: views, validator: validate, logger: logger}
}

// AssignSchedule overwrites every placement field of the schedule; nil request
// fields clear the stored value. No overlap detection is performed.
func (s *AssignmentService) AssignSchedule(ctx context.Context, scheduleID int64, req dto.AssignScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if _, err := loadActivePeriod(ctx, s.periods, nil); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{ID: scheduleID}
	if req.Day != nil {
		if !models.IsWeekday(*req.Day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a weekday name")
		}
		schedule.Day = null.StringFrom(*req.Day)
	}
	if req.StartTime != nil {
		start, err := parseClock("start_time", *req.StartTime)
		if err != nil {
			return nil, err
		}
		schedule.StartTime = null.StringFrom(start)
	}
	if req.EndTime != nil {
		end, err := parseClock("end_time", *req.EndTime)
		if err != nil {
			return nil, err
		}
		schedule.EndTime = null.StringFrom(end)
	}
	// canonical HH:MM:SS strings order lexically
	if schedule.StartTime.Valid && schedule.EndTime.Valid && schedule.EndTime.String <= schedule.StartTime.String {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if req.FacultyID != nil {
		if err := s.checkFaculty(ctx, *req.FacultyID); err != nil {
			return nil, err
		}
		schedule.FacultyID = null.Int64From(*req.FacultyID)
	}
	if req.RoomID != nil {
		if err := s.checkRoom(ctx, *req.RoomID); err != nil {
			return nil, err
		}
		schedule.RoomID = null.Int64From(*req.RoomID)
	}

	if err := s.schedules.Assign(ctx, nil, schedule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule %d not found", scheduleID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign schedule")
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("schedule assigned",
		zap.Int64("schedule_id", scheduleID),
		zap.Bool("faculty_set", schedule.FacultyID.Valid),
		zap.Bool("room_set", schedule.RoomID.Valid))
	return schedule, nil
}

func (s *AssignmentService) checkFaculty(ctx context.Context, id int64) error {
	faculty, err := s.directory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("faculty %d does not exist", id))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if faculty.Status != models.StatusActive {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("faculty %s is not active", faculty.Name()))
	}
	return nil
}

func (s *AssignmentService) checkRoom(ctx context.Context, id int64) error {
	room, err := s.directory.FindRoom(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %d does not exist", id))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if room.Status != models.RoomAvailable {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("room %s is not available", room.RoomCode))
	}
	return nil
}

// GetSchedule returns one schedule row.
func (s *AssignmentService) GetSchedule(ctx context.Context, scheduleID int64) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, nil, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("schedule %d not found", scheduleID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// SuggestFaculty ranks faculty who asked to teach the schedule's course this
// semester by how many preferred days match the schedule day.
func (s *AssignmentService) SuggestFaculty(ctx context.Context, scheduleID int64) ([]models.FacultySuggestion, error) {
	period, err := loadActivePeriod(ctx, s.periods, nil)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	suggestions, err := s.schedules.SuggestFaculty(ctx, scheduleID, period.ActiveSemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to suggest faculty")
	}
	return suggestions, nil
}
