package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type periodRepoStub struct {
	years       map[int64]models.AcademicYear
	semesters   map[int16]models.ActiveSemester
	lockErr     error
	exists      bool
	createErr   error
	activated   []int64
	deactivated int
	created     []models.AcademicYear
	deleted     []int64
}

func (s *periodRepoStub) FindActive(context.Context, sqlx.ExtContext) (*models.ActivePeriod, error) {
	return testPeriod(), nil
}

func (s *periodRepoStub) ListYears(context.Context) ([]models.AcademicYearWithSemesters, error) {
	return nil, nil
}

func (s *periodRepoStub) FindYearByID(_ context.Context, _ sqlx.ExtContext, id int64) (*models.AcademicYear, error) {
	y, ok := s.years[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &y, nil
}

func (s *periodRepoStub) FindSemester(_ context.Context, _ sqlx.ExtContext, _ int64, semesterID int16) (*models.ActiveSemester, error) {
	sem, ok := s.semesters[semesterID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sem, nil
}

func (s *periodRepoStub) LockActivation(context.Context, sqlx.ExtContext) error {
	return s.lockErr
}

func (s *periodRepoStub) DeactivateAll(context.Context, sqlx.ExtContext) error {
	s.deactivated++
	return nil
}

func (s *periodRepoStub) Activate(_ context.Context, _ sqlx.ExtContext, semesterRowID, _ int64, _, _ time.Time) error {
	s.activated = append(s.activated, semesterRowID)
	return nil
}

func (s *periodRepoStub) YearExists(context.Context, int, int) (bool, error) {
	return s.exists, nil
}

func (s *periodRepoStub) CreateYear(_ context.Context, _ sqlx.ExtContext, year *models.AcademicYear) error {
	if s.createErr != nil {
		return s.createErr
	}
	year.ID = 42
	s.created = append(s.created, *year)
	return nil
}

func (s *periodRepoStub) DeleteYear(_ context.Context, _ sqlx.ExtContext, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type periodCatalogStub struct {
	programs  []models.Program
	curricula int
	pins      []models.ProgramYearLevelCurriculum
}

func (s *periodCatalogStub) CountActive(context.Context) (int, int, error) {
	return len(s.programs), s.curricula, nil
}

func (s *periodCatalogStub) ListActivePrograms(context.Context, sqlx.ExtContext) ([]models.Program, error) {
	return s.programs, nil
}

func (s *periodCatalogStub) NewestCurriculumFor(context.Context, sqlx.ExtContext, int64) (*models.Curriculum, error) {
	return &models.Curriculum{ID: 9, CurriculumYear: "2024", Status: models.StatusActive}, nil
}

func (s *periodCatalogStub) UpsertYearLevelCurriculum(_ context.Context, _ sqlx.ExtContext, link models.ProgramYearLevelCurriculum) error {
	s.pins = append(s.pins, link)
	return nil
}

type sectionCreatorSpy struct {
	created []models.Section
}

func (s *sectionCreatorSpy) Create(_ context.Context, _ sqlx.ExtContext, section *models.Section) error {
	section.ID = int64(len(s.created) + 1)
	s.created = append(s.created, *section)
	return nil
}

type periodFixture struct {
	svc      *PeriodService
	repo     *periodRepoStub
	catalog  *periodCatalogStub
	sections *sectionCreatorSpy
	live     *liveFinderStub
	resets   *preferenceResetSpy
	views    *invalidatorSpy
}

func newPeriodFixture(t *testing.T, tx txProvider) periodFixture {
	f := periodFixture{
		repo: &periodRepoStub{
			years:     map[int64]models.AcademicYear{5: {ID: 5, YearStart: 2025, YearEnd: 2026}},
			semesters: map[int16]models.ActiveSemester{1: {ID: 11, AcademicYearID: 5, SemesterID: 1}, 2: {ID: 12, AcademicYearID: 5, SemesterID: 2}},
		},
		catalog:  &periodCatalogStub{programs: []models.Program{{ID: 1, ProgramCode: "BSCS", NumberOfYears: 4}, {ID: 2, ProgramCode: "BSIT", NumberOfYears: 2}}, curricula: 1},
		sections: &sectionCreatorSpy{},
		live:     &liveFinderStub{},
		resets:   &preferenceResetSpy{},
		views:    &invalidatorSpy{},
	}
	f.svc = NewPeriodService(f.repo, f.catalog, f.sections, f.live, f.resets, tx, f.views, nil, nil, nil)
	return f
}

func TestActivatePeriod(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectCommit()

	period, err := f.svc.Activate(context.Background(), dto.ActivatePeriodRequest{AcademicYearID: 5, SemesterID: 2, StartDate: "2026-01-05", EndDate: "2026-05-30"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), period.ActiveSemesterID)
	assert.Equal(t, int16(2), period.SemesterID)
	assert.Equal(t, null.TimeFrom(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)), period.StartDate)
	assert.Equal(t, 1, f.repo.deactivated)
	assert.Equal(t, []int64{12}, f.repo.activated)
	require.Len(t, f.resets.calls, 1)
	assert.Nil(t, f.resets.calls[0])
	assert.Equal(t, 1, f.views.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivatePeriodValidation(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)

	cases := []dto.ActivatePeriodRequest{
		{AcademicYearID: 5, SemesterID: 4, StartDate: "2026-01-05", EndDate: "2026-05-30"},
		{AcademicYearID: 5, SemesterID: 1, StartDate: "2026-05-30", EndDate: "2026-01-05"},
		{AcademicYearID: 99, SemesterID: 1, StartDate: "2026-01-05", EndDate: "2026-05-30"},
	}
	for _, req := range cases {
		_, err := f.svc.Activate(context.Background(), req)
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), err.Error())
	}
	assert.Empty(t, f.repo.activated)
}

func TestActivatePeriodLockBusy(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)
	f.repo.lockErr = &pq.Error{Code: "55P03"}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.Activate(context.Background(), dto.ActivatePeriodRequest{AcademicYearID: 5, SemesterID: 1, StartDate: "2025-08-01", EndDate: "2025-12-20"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Zero(t, f.repo.deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivatePeriodMissingSemesterRollsBack(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := f.svc.Activate(context.Background(), dto.ActivatePeriodRequest{AcademicYearID: 5, SemesterID: 3, StartDate: "2026-06-01", EndDate: "2026-07-30"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Contains(t, err.Error(), "2025-2026")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePeriodProvisionsSections(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectCommit()

	year, err := f.svc.CreatePeriod(context.Background(), dto.CreatePeriodRequest{YearStart: 2026, YearEnd: 2027})
	require.NoError(t, err)
	assert.Equal(t, int64(42), year.ID)
	assert.Len(t, year.Semesters, 3)
	assert.Len(t, f.sections.created, 6)
	assert.Len(t, f.catalog.pins, 6)
	for _, section := range f.sections.created {
		assert.Equal(t, "1", section.SectionName)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePeriodPreconditions(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)

	_, err := f.svc.CreatePeriod(context.Background(), dto.CreatePeriodRequest{YearStart: 2026, YearEnd: 2028})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	f.repo.exists = true
	_, err = f.svc.CreatePeriod(context.Background(), dto.CreatePeriodRequest{YearStart: 2025, YearEnd: 2026})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	f.catalog.curricula = 0
	_, err = f.svc.CreatePeriod(context.Background(), dto.CreatePeriodRequest{YearStart: 2026, YearEnd: 2027})
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
}

func TestDeletePeriodBlockedByLiveSchedule(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)
	f.live.live = &models.LiveSchedule{ProgramCode: "BSCS", YearLevel: 1, SectionName: "1", CourseCode: "CS101", RoomCode: null.StringFrom("R-101")}

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.DeletePeriod(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Contains(t, err.Error(), "BSCS 1 - Section 1 has a scheduled CS101 in room R-101")
	assert.Empty(t, f.repo.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePeriod(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, f.svc.DeletePeriod(context.Background(), 5))
	assert.Equal(t, []int64{5}, f.repo.deleted)
	require.Len(t, f.live.scopes, 1)
	assert.Equal(t, int64(5), f.live.scopes[0].AcademicYearID)
	assert.Equal(t, []string{"lock", "find"}, f.live.calls)
	assert.NoError(t, mock.ExpectationsWereMet())

	err := f.svc.DeletePeriod(context.Background(), 404)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestDeletePeriodLockFailureRollsBack(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newPeriodFixture(t, tx)
	f.live.lockErr = errors.New("lock timeout")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.DeletePeriod(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
	assert.Equal(t, []string{"lock"}, f.live.calls)
	assert.Empty(t, f.repo.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
