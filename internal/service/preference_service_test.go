package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type appliedWindow struct {
	facultyID *int64
	enabled   bool
	deadline  null.Time
	startDate null.Time
}

type preferenceStoreStub struct {
	setting     *models.PreferencesSetting
	applied     []appliedWindow
	requests    map[int64]bool
	upsertErr   error
	storedDays  []models.PreferenceDay
	replaced    [][]models.PreferenceDay
	deleteErr   error
	deletedAll  int
	preferences []models.Preference
}

func (s *preferenceStoreStub) EnsureSettings(context.Context, sqlx.ExtContext, *int64) error {
	return nil
}

func (s *preferenceStoreStub) GetSetting(_ context.Context, _ sqlx.ExtContext, facultyID int64) (*models.PreferencesSetting, error) {
	if s.setting == nil {
		return nil, sql.ErrNoRows
	}
	copied := *s.setting
	copied.FacultyID = facultyID
	return &copied, nil
}

func (s *preferenceStoreStub) ApplyGlobal(_ context.Context, _ sqlx.ExtContext, enabled bool, deadline, startDate null.Time) error {
	s.applied = append(s.applied, appliedWindow{enabled: enabled, deadline: deadline, startDate: startDate})
	return nil
}

func (s *preferenceStoreStub) ApplyIndividual(_ context.Context, _ sqlx.ExtContext, facultyID int64, enabled bool, deadline, startDate null.Time) error {
	s.applied = append(s.applied, appliedWindow{facultyID: &facultyID, enabled: enabled, deadline: deadline, startDate: startDate})
	return nil
}

func (s *preferenceStoreStub) SetRequest(_ context.Context, _ sqlx.ExtContext, facultyID int64, requested bool) error {
	if s.requests == nil {
		s.requests = make(map[int64]bool)
	}
	s.requests[facultyID] = requested
	return nil
}

func (s *preferenceStoreStub) UpsertPreference(_ context.Context, _ sqlx.ExtContext, pref *models.Preference) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	pref.ID = 77
	return nil
}

func (s *preferenceStoreStub) ListDays(context.Context, sqlx.ExtContext, int64) ([]models.PreferenceDay, error) {
	return s.storedDays, nil
}

func (s *preferenceStoreStub) ReplaceDays(_ context.Context, _ sqlx.ExtContext, _ int64, days []models.PreferenceDay) error {
	s.replaced = append(s.replaced, days)
	return nil
}

func (s *preferenceStoreStub) ListPreferences(context.Context, int64, int64) ([]models.Preference, error) {
	return s.preferences, nil
}

func (s *preferenceStoreStub) DeletePreference(context.Context, sqlx.ExtContext, int64, int64) error {
	return s.deleteErr
}

func (s *preferenceStoreStub) DeleteAllPreferences(context.Context, sqlx.ExtContext, int64, int64) (int, error) {
	return s.deletedAll, nil
}

type notificationSchedulerStub struct {
	created   []models.ScheduledNotification
	cancelled []*int64
}

func (s *notificationSchedulerStub) Create(_ context.Context, _ sqlx.ExtContext, n *models.ScheduledNotification) error {
	n.ID = int64(len(s.created) + 1)
	s.created = append(s.created, *n)
	return nil
}

func (s *notificationSchedulerStub) CancelPending(_ context.Context, _ sqlx.ExtContext, _ string, facultyID *int64) error {
	s.cancelled = append(s.cancelled, facultyID)
	return nil
}

type unpublishSpy struct {
	scopes []*int64
}

func (s *unpublishSpy) Unpublish(_ context.Context, _ sqlx.ExtContext, _ int64, _ int16, facultyID *int64) error {
	s.scopes = append(s.scopes, facultyID)
	return nil
}

type facultyLookupStub struct {
	faculty map[int64]models.Faculty
	admins  []models.User
}

func (s facultyLookupStub) FindByID(_ context.Context, id int64) (*models.Faculty, error) {
	f, ok := s.faculty[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (s facultyLookupStub) FindByUserID(_ context.Context, userID int64) (*models.Faculty, error) {
	for _, f := range s.faculty {
		if f.UserID == userID {
			return &f, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s facultyLookupStub) ListActive(context.Context) ([]models.Faculty, error) {
	out := make([]models.Faculty, 0, len(s.faculty))
	for _, f := range s.faculty {
		out = append(out, f)
	}
	return out, nil
}

func (s facultyLookupStub) ListActiveAdmins(context.Context) ([]models.User, error) {
	return s.admins, nil
}

type preferenceMailerSpy struct {
	opened    []models.Faculty
	requested []models.User
}

func (s *preferenceMailerSpy) WindowOpened(_ context.Context, faculty []models.Faculty, _ null.Time) {
	s.opened = append(s.opened, faculty...)
}

func (s *preferenceMailerSpy) AccessRequested(_ context.Context, admins []models.User, _ models.Faculty) {
	s.requested = append(s.requested, admins...)
}

type preferenceFixture struct {
	svc           *PreferenceService
	store         *preferenceStoreStub
	notifications *notificationSchedulerStub
	unpublish     *unpublishSpy
	mail          *preferenceMailerSpy
}

func newPreferenceFixture(t *testing.T, tx txProvider, scope string) preferenceFixture {
	f := preferenceFixture{
		store:         &preferenceStoreStub{},
		notifications: &notificationSchedulerStub{},
		unpublish:     &unpublishSpy{},
		mail:          &preferenceMailerSpy{},
	}
	lookup := facultyLookupStub{
		faculty: map[int64]models.Faculty{4: {ID: 4, UserID: 40, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu", Status: models.StatusActive}},
		admins:  []models.User{{ID: 1, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.edu", Role: models.RoleAdmin}},
	}
	f.svc = NewPreferenceService(activePeriodStub{period: testPeriod()}, f.store, f.notifications, f.unpublish, lookup, f.mail, tx, nil, PreferenceOptions{UnpublishScope: scope}, nil, nil)
	f.svc.now = func() time.Time { return time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC) }
	return f
}

func strPtr(v string) *string { return &v }

func TestSetGlobalFutureStartSchedulesOpening(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := f.svc.SetGlobal(context.Background(), dto.SetGlobalWindowRequest{
		Status:    true,
		StartDate: strPtr("2025-09-01"),
		Deadline:  strPtr("2025-09-30"),
		SendEmail: true,
	})
	require.NoError(t, err)
	assert.False(t, result.IsEnabled)
	assert.True(t, result.Scheduled)

	require.Len(t, f.store.applied, 1)
	assert.False(t, f.store.applied[0].enabled)
	require.Len(t, f.notifications.created, 1)
	job := f.notifications.created[0]
	assert.Equal(t, models.NotificationPreferencesWindowOpen, job.Kind)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), job.RunAt)

	var payload models.WindowOpenPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Nil(t, payload.FacultyID)
	assert.Equal(t, "2025-09-01", payload.StartDate)
	assert.True(t, payload.SendEmail)

	require.Len(t, f.unpublish.scopes, 1)
	assert.Nil(t, f.unpublish.scopes[0])
	assert.Empty(t, f.mail.opened)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGlobalImmediateSendsMail(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := f.svc.SetGlobal(context.Background(), dto.SetGlobalWindowRequest{Status: true, StartDate: strPtr("2025-08-20"), SendEmail: true})
	require.NoError(t, err)
	assert.True(t, result.IsEnabled)
	assert.False(t, result.Scheduled)
	assert.Empty(t, f.notifications.created)
	require.Len(t, f.notifications.cancelled, 1)
	assert.Len(t, f.mail.opened, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGlobalRejectsDeadlineBeforeStart(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	_, err := f.svc.SetGlobal(context.Background(), dto.SetGlobalWindowRequest{Status: true, StartDate: strPtr("2025-09-10"), Deadline: strPtr("2025-09-01")})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSetIndividualUnpublishScope(t *testing.T) {
	cases := []struct {
		scope   string
		faculty bool
	}{
		{config.UnpublishScopeAll, false},
		{config.UnpublishScopeFaculty, true},
	}
	for _, tc := range cases {
		t.Run(tc.scope, func(t *testing.T) {
			tx, mock := newTxProviderMock(t)
			f := newPreferenceFixture(t, tx, tc.scope)

			mock.ExpectBegin()
			mock.ExpectCommit()

			_, err := f.svc.SetIndividual(context.Background(), 4, dto.SetIndividualWindowRequest{Status: true})
			require.NoError(t, err)
			require.Len(t, f.unpublish.scopes, 1)
			if tc.faculty {
				require.NotNil(t, f.unpublish.scopes[0])
				assert.Equal(t, int64(4), *f.unpublish.scopes[0])
			} else {
				assert.Nil(t, f.unpublish.scopes[0])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSetIndividualUnknownFaculty(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	_, err := f.svc.SetIndividual(context.Background(), 99, dto.SetIndividualWindowRequest{Status: true})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSubmitPreferencesForbiddenWhenClosed(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")
	f.store.setting = &models.PreferencesSetting{IsEnabled: true, GlobalDeadline: day(2025, time.August, 19)}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.SubmitPreferences(context.Background(), 4, dto.SubmitPreferencesRequest{
		CourseAssignmentID: 12,
		Days:               []dto.PreferenceDayInput{{Day: "Monday", StartTime: "08:00", EndTime: "10:00"}},
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	assert.Contains(t, err.Error(), "2025-08-19")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitPreferencesSkipsUnchangedDays(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")
	f.store.setting = &models.PreferencesSetting{IsEnabled: true}
	f.store.storedDays = []models.PreferenceDay{
		{Day: "Wednesday", StartTime: "13:00:00", EndTime: "15:00:00"},
		{Day: "Monday", StartTime: "08:00:00", EndTime: "10:00:00"},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	pref, err := f.svc.SubmitPreferences(context.Background(), 4, dto.SubmitPreferencesRequest{
		CourseAssignmentID: 12,
		Days: []dto.PreferenceDayInput{
			{Day: "Monday", StartTime: "08:00", EndTime: "10:00"},
			{Day: "Wednesday", StartTime: "13:00", EndTime: "15:00:00"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.replaced)
	assert.Equal(t, int64(77), pref.ID)
	require.Len(t, pref.Days, 2)
	assert.Equal(t, "Monday", pref.Days[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitPreferencesReplacesChangedDays(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")
	f.store.setting = &models.PreferencesSetting{IsEnabled: true}
	f.store.storedDays = []models.PreferenceDay{{Day: "Monday", StartTime: "08:00:00", EndTime: "10:00:00"}}

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := f.svc.SubmitPreferences(context.Background(), 4, dto.SubmitPreferencesRequest{
		CourseAssignmentID: 12,
		Days: []dto.PreferenceDayInput{
			{Day: "Friday", StartTime: "09:00", EndTime: "11:00"},
			{Day: "Tuesday", StartTime: "07:30", EndTime: "09:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, f.store.replaced, 1)
	assert.Equal(t, []models.PreferenceDay{
		{Day: "Tuesday", StartTime: "07:30:00", EndTime: "09:00:00"},
		{Day: "Friday", StartTime: "09:00:00", EndTime: "11:00:00"},
	}, f.store.replaced[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitPreferencesUnknownCourseAssignment(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")
	f.store.setting = &models.PreferencesSetting{IsEnabled: true}
	f.store.upsertErr = &pq.Error{Code: "23503"}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.SubmitPreferences(context.Background(), 4, dto.SubmitPreferencesRequest{
		CourseAssignmentID: 999,
		Days:               []dto.PreferenceDayInput{{Day: "Monday", StartTime: "08:00", EndTime: "10:00"}},
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitPreferencesRejectsInvertedTimes(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	_, err := f.svc.SubmitPreferences(context.Background(), 4, dto.SubmitPreferencesRequest{
		CourseAssignmentID: 12,
		Days:               []dto.PreferenceDayInput{{Day: "Monday", StartTime: "10:00", EndTime: "08:00"}},
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestDeletePreferenceNotFound(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")
	f.store.setting = &models.PreferencesSetting{IsEnabled: true}
	f.store.deleteErr = sql.ErrNoRows

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.DeletePreference(context.Background(), 4, 5)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAllPreferencesGated(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.DeleteAllPreferences(context.Background(), 4)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWindowWithoutSettingsIsDisabled(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	status, err := f.svc.GetWindow(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.WindowDisabled, status.State)
}

func TestRequestAccessMailsAdmins(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	require.NoError(t, f.svc.RequestAccess(context.Background(), 4))
	assert.True(t, f.store.requests[4])
	require.Len(t, f.mail.requested, 1)
	assert.Equal(t, "grace@example.edu", f.mail.requested[0].Email)

	require.NoError(t, f.svc.CancelRequest(context.Background(), 4))
	assert.False(t, f.store.requests[4])
	assert.Len(t, f.mail.requested, 1)
}

func TestFacultyForUser(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPreferenceFixture(t, tx, "")

	faculty, err := f.svc.FacultyForUser(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(4), faculty.ID)

	_, err = f.svc.FacultyForUser(context.Background(), 41)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}
