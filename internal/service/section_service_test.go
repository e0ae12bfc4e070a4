package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-scheduler-api/internal/dto"
	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

type sectionStoreStub struct {
	sections       []models.Section
	created        []models.Section
	deleted        []int64
	droppedCourses [][]int64
}

func (s *sectionStoreStub) ListByProgramYear(context.Context, sqlx.ExtContext, int64, int64, int) ([]models.Section, error) {
	return s.sections, nil
}

func (s *sectionStoreStub) FindByID(_ context.Context, _ sqlx.ExtContext, id int64) (*models.Section, error) {
	for _, sec := range s.sections {
		if sec.ID == id {
			return &sec, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *sectionStoreStub) Create(_ context.Context, _ sqlx.ExtContext, section *models.Section) error {
	section.ID = 900
	s.created = append(s.created, *section)
	return nil
}

func (s *sectionStoreStub) Delete(_ context.Context, _ sqlx.ExtContext, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *sectionStoreStub) DeleteCourses(_ context.Context, _ sqlx.ExtContext, ids []int64) error {
	s.droppedCourses = append(s.droppedCourses, ids)
	return nil
}

type sectionCatalogStub struct {
	curriculum      *models.Curriculum
	linked          bool
	pins            []models.ProgramYearLevelCurriculum
	deletedPrograms []int64
}

func (s *sectionCatalogStub) FindProgram(_ context.Context, id int64) (*models.Program, error) {
	if id != 1 {
		return nil, sql.ErrNoRows
	}
	return &models.Program{ID: 1, ProgramCode: "BSCS", NumberOfYears: 4, Status: models.StatusActive}, nil
}

func (s *sectionCatalogStub) FindCurriculum(context.Context, int64) (*models.Curriculum, error) {
	if s.curriculum == nil {
		return nil, sql.ErrNoRows
	}
	return s.curriculum, nil
}

func (s *sectionCatalogStub) IsCurriculumLinked(context.Context, int64, int64) (bool, error) {
	return s.linked, nil
}

func (s *sectionCatalogStub) UpsertYearLevelCurriculum(_ context.Context, _ sqlx.ExtContext, link models.ProgramYearLevelCurriculum) error {
	s.pins = append(s.pins, link)
	return nil
}

func (s *sectionCatalogStub) DeleteProgram(_ context.Context, _ sqlx.ExtContext, id int64) error {
	s.deletedPrograms = append(s.deletedPrograms, id)
	return nil
}

type sectionFixture struct {
	svc     *SectionService
	store   *sectionStoreStub
	catalog *sectionCatalogStub
	live    *liveFinderStub
}

func newSectionFixture(t *testing.T, tx txProvider) sectionFixture {
	f := sectionFixture{
		store: &sectionStoreStub{sections: []models.Section{
			{ID: 1, ProgramID: 1, YearLevel: 1, SectionName: "1"},
			{ID: 2, ProgramID: 1, YearLevel: 1, SectionName: "10"},
			{ID: 3, ProgramID: 1, YearLevel: 1, SectionName: "3"},
		}},
		catalog: &sectionCatalogStub{curriculum: &models.Curriculum{ID: 9, Status: models.StatusActive}, linked: true},
		live:    &liveFinderStub{},
	}
	f.svc = NewSectionService(activePeriodStub{period: testPeriod()}, f.store, f.catalog, f.live, tx, nil, nil, nil)
	return f
}

func TestNextSectionName(t *testing.T) {
	assert.Equal(t, "1", nextSectionName(nil))
	assert.Equal(t, "11", nextSectionName([]models.Section{{SectionName: "10"}, {SectionName: "A"}, {SectionName: "2"}}))
}

func TestAddSection(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newSectionFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectCommit()

	section, err := f.svc.AddSection(context.Background(), dto.AddSectionRequest{ProgramID: 1, YearLevel: 1})
	require.NoError(t, err)
	assert.Equal(t, "11", section.SectionName)
	assert.Equal(t, int64(5), section.AcademicYearID)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = f.svc.AddSection(context.Background(), dto.AddSectionRequest{ProgramID: 1, YearLevel: 5})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.svc.AddSection(context.Background(), dto.AddSectionRequest{ProgramID: 2, YearLevel: 1})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestRemoveSectionGuarded(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newSectionFixture(t, tx)
	f.live.live = &models.LiveSchedule{ProgramCode: "BSCS", YearLevel: 1, SectionName: "3", CourseCode: "CS102"}

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.RemoveSection(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Contains(t, err.Error(), "BSCS 1 - Section 3 has a scheduled CS102")
	assert.Empty(t, f.store.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveSection(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newSectionFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, f.svc.RemoveSection(context.Background(), 3))
	assert.Equal(t, []int64{3}, f.store.deleted)
	assert.Equal(t, []string{"lock", "find"}, f.live.calls)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := f.svc.RemoveSection(context.Background(), 404)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwitchCurriculum(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newSectionFixture(t, tx)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, f.svc.SwitchCurriculum(context.Background(), dto.SwitchCurriculumRequest{ProgramID: 1, YearLevel: 1, CurriculumID: 9}))
	require.Len(t, f.store.droppedCourses, 1)
	assert.Equal(t, []int64{1, 2, 3}, f.store.droppedCourses[0])
	require.Len(t, f.catalog.pins, 1)
	assert.Equal(t, int64(9), f.catalog.pins[0].CurriculumID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwitchCurriculumRejectsInactiveOrUnlinked(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	f := newSectionFixture(t, tx)
	req := dto.SwitchCurriculumRequest{ProgramID: 1, YearLevel: 1, CurriculumID: 9}

	f.catalog.curriculum.Status = models.StatusInactive
	err := f.svc.SwitchCurriculum(context.Background(), req)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	f.catalog.curriculum.Status = models.StatusActive
	f.catalog.linked = false
	err = f.svc.SwitchCurriculum(context.Background(), req)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, f.catalog.pins)
}

func TestDeleteProgramGuarded(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newSectionFixture(t, tx)
	f.live.live = &models.LiveSchedule{ProgramCode: "BSCS", YearLevel: 2, SectionName: "1", CourseCode: "CS201"}

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := f.svc.DeleteProgram(context.Background(), 1)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Empty(t, f.catalog.deletedPrograms)
	require.Len(t, f.live.scopes, 1)
	assert.Equal(t, int64(1), f.live.scopes[0].ProgramID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
