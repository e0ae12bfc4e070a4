package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type preferenceStore interface {
	EnsureSettings(ctx context.Context, exec sqlx.ExtContext, facultyID *int64) error
	GetSetting(ctx context.Context, exec sqlx.ExtContext, facultyID int64) (*models.PreferencesSetting, error)
	ApplyGlobal(ctx context.Context, exec sqlx.ExtContext, enabled bool, deadline, startDate null.Time) error
	ApplyIndividual(ctx context.Context, exec sqlx.ExtContext, facultyID int64, enabled bool, deadline, startDate null.Time) error
	SetRequest(ctx context.Context, exec sqlx.ExtContext, facultyID int64, requested bool) error
	UpsertPreference(ctx context.Context, exec sqlx.ExtContext, pref *models.Preference) error
	ListDays(ctx context.Context, exec sqlx.ExtContext, preferenceID int64) ([]models.PreferenceDay, error)
	ReplaceDays(ctx context.Context, exec sqlx.ExtContext, preferenceID int64, days []models.PreferenceDay) error
	ListPreferences(ctx context.Context, facultyID, activeSemesterID int64) ([]models.Preference, error)
	DeletePreference(ctx context.Context, exec sqlx.ExtContext, facultyID, preferenceID int64) error
	DeleteAllPreferences(ctx context.Context, exec sqlx.ExtContext, facultyID, activeSemesterID int64) (int, error)
}

type notificationScheduler interface {
	Create(ctx context.Context, exec sqlx.ExtContext, n *models.ScheduledNotification) error
	CancelPending(ctx context.Context, exec sqlx.ExtContext, kind string, facultyID *int64) error
}

type publicationUnpublisher interface {
	Unpublish(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16, facultyID *int64) error
}

type facultyLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Faculty, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Faculty, error)
	ListActive(ctx context.Context) ([]models.Faculty, error)
	ListActiveAdmins(ctx context.Context) ([]models.User, error)
}

type preferenceMailer interface {
	WindowOpened(ctx context.Context, faculty []models.Faculty, deadline null.Time)
	AccessRequested(ctx context.Context, admins []models.User, requester models.Faculty)
}

// PreferenceOptions tunes the preference window side effects.
type PreferenceOptions struct {
	UnpublishScope string
	Location       *time.Location
}

// PreferenceService drives preference windows and faculty submissions.
type PreferenceService struct {
	periods       activePeriodFinder
	store         preferenceStore
	notifications notificationScheduler
	publications  publicationUnpublisher
	faculty       facultyLookup
	mail          preferenceMailer
	tx            txProvider
	views         viewInvalidator
	opts          PreferenceOptions
	now           func() time.Time
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewPreferenceService constructs the preference window service.
func NewPreferenceService(periods activePeriodFinder, store preferenceStore, notifications notificationScheduler, publications publicationUnpublisher, faculty facultyLookup, mail preferenceMailer, tx txProvider, views viewInvalidator, opts PreferenceOptions, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = noopInvalidator{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.UnpublishScope != config.UnpublishScopeFaculty {
		opts.UnpublishScope = config.UnpublishScopeAll
	}
	return &PreferenceService{
		periods:       periods,
		store:         store,
		notifications: notifications,
		publications:  publications,
		faculty:       faculty,
		mail:          mail,
		tx:            tx,
		views:         views,
		opts:          opts,
		now:           time.Now,
		validator:     validate,
		logger:        logger,
	}
}

type windowInput struct {
	status    bool
	deadline  null.Time
	startDate null.Time
	sendEmail bool
}

// finalStatus is false while a requested start date lies in the future.
func (w windowInput) finalStatus(today time.Time) bool {
	return w.status && (!w.startDate.Valid || !w.startDate.Time.After(today))
}

func (w windowInput) deferred(today time.Time) bool {
	return w.status && w.startDate.Valid && w.startDate.Time.After(today)
}

func parseWindow(status bool, deadline, startDate *string, sendEmail bool) (windowInput, error) {
	in := windowInput{status: status, sendEmail: sendEmail}
	if deadline != nil && *deadline != "" {
		d, err := parseDate("deadline", *deadline)
		if err != nil {
			return in, err
		}
		in.deadline = null.TimeFrom(d)
	}
	if startDate != nil && *startDate != "" {
		d, err := parseDate("start_date", *startDate)
		if err != nil {
			return in, err
		}
		in.startDate = null.TimeFrom(d)
	}
	if in.deadline.Valid && in.startDate.Valid && in.deadline.Time.Before(in.startDate.Time) {
		return in, appErrors.Clone(appErrors.ErrValidation, "deadline must not be before start_date")
	}
	return in, nil
}

// SetGlobal applies one window to every faculty and unpublishes the active period.
func (s *PreferenceService) SetGlobal(ctx context.Context, req dto.SetGlobalWindowRequest) (result *dto.WindowUpdate, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference window payload")
	}
	in, err := parseWindow(req.Status, req.Deadline, req.StartDate, req.SendEmail)
	if err != nil {
		return nil, err
	}
	today := calendarDay(s.now(), s.opts.Location)
	enabled := in.finalStatus(today)

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
	if err = s.store.EnsureSettings(ctx, tx, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare preference settings")
	}
	if err = s.store.ApplyGlobal(ctx, tx, enabled, in.deadline, in.startDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preference window")
	}
	if err = s.scheduleOpening(ctx, tx, nil, in, today); err != nil {
		return nil, err
	}
	if err = s.publications.Unpublish(ctx, tx, period.AcademicYearID, period.SemesterID, nil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unpublish schedules")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit preference window")
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("global preference window updated", zap.Bool("enabled", enabled), zap.Bool("scheduled", in.deferred(today)))

	if enabled && in.sendEmail {
		faculty, listErr := s.faculty.ListActive(ctx)
		if listErr != nil {
			s.logger.Warn("failed to list faculty for window mail", zap.Error(listErr))
		} else {
			s.mail.WindowOpened(ctx, faculty, in.deadline)
		}
	}

	return &dto.WindowUpdate{IsEnabled: enabled, Scheduled: in.deferred(today), StartDate: in.startDate, Deadline: in.deadline}, nil
}

// SetIndividual applies a window to a single faculty.
func (s *PreferenceService) SetIndividual(ctx context.Context, facultyID int64, req dto.SetIndividualWindowRequest) (result *dto.WindowUpdate, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference window payload")
	}
	in, err := parseWindow(req.Status, req.Deadline, req.StartDate, req.SendEmail)
	if err != nil {
		return nil, err
	}
	faculty, err := s.findFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	today := calendarDay(s.now(), s.opts.Location)
	enabled := in.finalStatus(today)

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
	if err = s.store.EnsureSettings(ctx, tx, &facultyID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare preference settings")
	}
	if err = s.store.ApplyIndividual(ctx, tx, facultyID, enabled, in.deadline, in.startDate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preference window")
	}
	if err = s.scheduleOpening(ctx, tx, &facultyID, in, today); err != nil {
		return nil, err
	}
	var scope *int64
	if s.opts.UnpublishScope == config.UnpublishScopeFaculty {
		scope = &facultyID
	}
	if err = s.publications.Unpublish(ctx, tx, period.AcademicYearID, period.SemesterID, scope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unpublish schedules")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit preference window")
	}

	s.views.InvalidateViews(ctx)
	s.logger.Info("individual preference window updated", zap.Int64("faculty_id", facultyID), zap.Bool("enabled", enabled))

	if enabled && in.sendEmail {
		s.mail.WindowOpened(ctx, []models.Faculty{*faculty}, in.deadline)
	}

	return &dto.WindowUpdate{IsEnabled: enabled, Scheduled: in.deferred(today), StartDate: in.startDate, Deadline: in.deadline}, nil
}

// scheduleOpening replaces any pending opening job for the target with a new
// one when the window starts in the future.
func (s *PreferenceService) scheduleOpening(ctx context.Context, exec sqlx.ExtContext, facultyID *int64, in windowInput, today time.Time) error {
	if err := s.notifications.CancelPending(ctx, exec, models.NotificationPreferencesWindowOpen, facultyID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel pending window jobs")
	}
	if !in.deferred(today) {
		return nil
	}
	payload, err := json.Marshal(models.WindowOpenPayload{
		FacultyID: facultyID,
		StartDate: in.startDate.Time.Format(dateLayout),
		SendEmail: in.sendEmail,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode window job")
	}
	y, m, d := in.startDate.Time.Date()
	job := &models.ScheduledNotification{
		Kind:    models.NotificationPreferencesWindowOpen,
		Payload: types.JSONText(payload),
		RunAt:   time.Date(y, m, d, 0, 0, 0, 0, s.opts.Location).UTC(),
	}
	if err := s.notifications.Create(ctx, exec, job); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule window opening")
	}
	return nil
}

// FacultyForUser resolves the faculty record of an authenticated user.
func (s *PreferenceService) FacultyForUser(ctx context.Context, userID int64) (*models.Faculty, error) {
	faculty, err := s.faculty.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a faculty")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

func (s *PreferenceService) findFaculty(ctx context.Context, id int64) (*models.Faculty, error) {
	faculty, err := s.faculty.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return faculty, nil
}

func (s *PreferenceService) loadSetting(ctx context.Context, exec sqlx.ExtContext, facultyID int64) (models.PreferencesSetting, error) {
	setting, err := s.store.GetSetting(ctx, exec, facultyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PreferencesSetting{FacultyID: facultyID}, nil
		}
		return models.PreferencesSetting{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preference settings")
	}
	return *setting, nil
}

// GetWindow returns the derived window state of a faculty.
func (s *PreferenceService) GetWindow(ctx context.Context, facultyID int64) (*dto.WindowStatus, error) {
	setting, err := s.loadSetting(ctx, nil, facultyID)
	if err != nil {
		return nil, err
	}
	return &dto.WindowStatus{
		FacultyID:  facultyID,
		State:      DeriveWindowState(setting, s.now(), s.opts.Location),
		StartDate:  setting.EffectiveStartDate(),
		Deadline:   setting.EffectiveDeadline(),
		HasRequest: setting.HasRequest,
	}, nil
}

func (s *PreferenceService) ensureOpen(ctx context.Context, exec sqlx.ExtContext, facultyID int64) error {
	setting, err := s.loadSetting(ctx, exec, facultyID)
	if err != nil {
		return err
	}
	if state := DeriveWindowState(setting, s.now(), s.opts.Location); state != models.WindowOpen {
		return appErrors.Clone(appErrors.ErrForbidden, windowClosedMessage(state, setting))
	}
	return nil
}

func normalizeDays(input []dto.PreferenceDayInput) ([]models.PreferenceDay, error) {
	days := make([]models.PreferenceDay, 0, len(input))
	for _, in := range input {
		if !models.IsWeekday(in.Day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "preferred_day must be a weekday name")
		}
		start, err := parseClock("preferred_start_time", in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock("preferred_end_time", in.EndTime)
		if err != nil {
			return nil, err
		}
		if end <= start {
			return nil, appErrors.Clone(appErrors.ErrValidation, "preferred_end_time must be after preferred_start_time")
		}
		days = append(days, models.PreferenceDay{Day: in.Day, StartTime: start, EndTime: end})
	}
	sortDays(days)
	return days, nil
}

func sortDays(days []models.PreferenceDay) {
	sort.SliceStable(days, func(i, j int) bool {
		a, b := days[i], days[j]
		if a.Day != b.Day {
			return models.WeekdayIndex(a.Day) < models.WeekdayIndex(b.Day)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.EndTime < b.EndTime
	})
}

func sameDays(a, b []models.PreferenceDay) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Day != b[i].Day || a[i].StartTime != b[i].StartTime || a[i].EndTime != b[i].EndTime {
			return false
		}
	}
	return true
}

// SubmitPreferences upserts a preference for the active semester. Stored days
// are replaced only when the sorted submission differs.
func (s *PreferenceService) SubmitPreferences(ctx context.Context, facultyID int64, req dto.SubmitPreferencesRequest) (pref *models.Preference, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	days, err := normalizeDays(req.Days)
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

	period, err := loadActivePeriod(ctx, s.periods, tx)
	if err != nil {
		return nil, err
	}
	if err = s.ensureOpen(ctx, tx, facultyID); err != nil {
		return nil, err
	}

	pref = &models.Preference{FacultyID: facultyID, ActiveSemesterID: period.ActiveSemesterID, CourseAssignmentID: req.CourseAssignmentID}
	if err = s.store.UpsertPreference(ctx, tx, pref); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preference")
	}

	stored, err := s.store.ListDays(ctx, tx, pref.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preferred days")
	}
	sortDays(stored)
	if sameDays(stored, days) {
		pref.Days = stored
	} else {
		if err = s.store.ReplaceDays(ctx, tx, pref.ID, days); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preferred days")
		}
		pref.Days = days
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit preference")
	}
	return pref, nil
}

// ListPreferences returns the faculty's preferences for the active semester.
func (s *PreferenceService) ListPreferences(ctx context.Context, facultyID int64) ([]models.Preference, error) {
	period, err := loadActivePeriod(ctx, s.periods, nil)
	if err != nil {
		return nil, err
	}
	prefs, err := s.store.ListPreferences(ctx, facultyID, period.ActiveSemesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}
	return prefs, nil
}

// DeletePreference removes one preference while the window is open.
func (s *PreferenceService) DeletePreference(ctx context.Context, facultyID, preferenceID int64) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.ensureOpen(ctx, tx, facultyID); err != nil {
		return err
	}
	if err = s.store.DeletePreference(ctx, tx, facultyID, preferenceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "preference not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preference")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit preference deletion")
	}
	return nil
}

// DeleteAllPreferences clears the faculty's preferences for the active semester.
func (s *PreferenceService) DeleteAllPreferences(ctx context.Context, facultyID int64) (deleted int, err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	period, err := loadActivePeriod(ctx, s.periods, tx)
	if err != nil {
		return 0, err
	}
	if err = s.ensureOpen(ctx, tx, facultyID); err != nil {
		return 0, err
	}
	deleted, err = s.store.DeleteAllPreferences(ctx, tx, facultyID, period.ActiveSemesterID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preferences")
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit preference deletion")
	}
	return deleted, nil
}

// RequestAccess flags the faculty as asking for a window and mails every active admin.
func (s *PreferenceService) RequestAccess(ctx context.Context, facultyID int64) error {
	faculty, err := s.findFaculty(ctx, facultyID)
	if err != nil {
		return err
	}
	if err := s.setRequest(ctx, facultyID, true); err != nil {
		return err
	}

	admins, err := s.faculty.ListActiveAdmins(ctx)
	if err != nil {
		s.logger.Warn("failed to list admins for access request mail", zap.Int64("faculty_id", facultyID), zap.Error(err))
		return nil
	}
	s.mail.AccessRequested(ctx, admins, *faculty)
	return nil
}

// CancelRequest clears the faculty's access request flag.
func (s *PreferenceService) CancelRequest(ctx context.Context, facultyID int64) error {
	if _, err := s.findFaculty(ctx, facultyID); err != nil {
		return err
	}
	return s.setRequest(ctx, facultyID, false)
}

func (s *PreferenceService) setRequest(ctx context.Context, facultyID int64, requested bool) error {
	if err := s.store.EnsureSettings(ctx, nil, &facultyID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare preference settings")
	}
	if err := s.store.SetRequest(ctx, nil, facultyID, requested); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update access request")
	}
	return nil
}
