package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

func int64Ptr(v int64) *int64 { return &v }

type slotListerStub struct {
	slots []models.CurriculumSlot
}

func (s slotListerStub) ListCurriculumSlots(context.Context, sqlx.ExtContext, int64, int16) ([]models.CurriculumSlot, error) {
	return s.slots, nil
}

// reconcileStore keeps section courses and schedules in memory. semesterOf
// maps course assignments to their curriculum semester; unmapped assignments
// count as first semester.
type reconcileStore struct {
	sections   []models.Section
	courses    map[int64]models.SectionCourse
	schedules  map[int64]int64
	semesterOf map[int64]int16
	nextID     int64
}

func newReconcileStore(sections ...models.Section) *reconcileStore {
	return &reconcileStore{sections: sections, courses: map[int64]models.SectionCourse{}, schedules: map[int64]int64{}, nextID: 100}
}

func (s *reconcileStore) ListByYear(context.Context, sqlx.ExtContext, int64) ([]models.Section, error) {
	return s.sections, nil
}

func (s *reconcileStore) ListOriginalKeys(context.Context, sqlx.ExtContext, []int64) (map[models.SectionCourseKey]struct{}, error) {
	keys := make(map[models.SectionCourseKey]struct{})
	for _, c := range s.courses {
		if !c.IsCopy {
			keys[models.SectionCourseKey{SectionID: c.SectionID, CourseAssignmentID: c.CourseAssignmentID}] = struct{}{}
		}
	}
	return keys, nil
}

func (s *reconcileStore) InsertOriginals(_ context.Context, _ sqlx.ExtContext, keys []models.SectionCourseKey) (int, error) {
	for _, k := range keys {
		s.nextID++
		s.courses[s.nextID] = models.SectionCourse{ID: s.nextID, SectionID: k.SectionID, CourseAssignmentID: k.CourseAssignmentID}
	}
	return len(keys), nil
}

func (s *reconcileStore) FindCourse(_ context.Context, _ sqlx.ExtContext, id int64) (*models.SectionCourse, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (s *reconcileStore) CreateCopy(_ context.Context, _ sqlx.ExtContext, sectionID, courseAssignmentID int64) (*models.SectionCourse, error) {
	s.nextID++
	c := models.SectionCourse{ID: s.nextID, SectionID: sectionID, CourseAssignmentID: courseAssignmentID, IsCopy: true}
	s.courses[c.ID] = c
	return &c, nil
}

func (s *reconcileStore) DeleteCourse(_ context.Context, _ sqlx.ExtContext, id int64) error {
	delete(s.courses, id)
	return nil
}

func (s *reconcileStore) InsertMissingForYear(context.Context, sqlx.ExtContext, int64) (int, error) {
	created := 0
	for id := range s.courses {
		if _, ok := s.schedules[id]; !ok {
			s.nextID++
			s.schedules[id] = s.nextID
			created++
		}
	}
	return created, nil
}

func (s *reconcileStore) CreateEmpty(_ context.Context, _ sqlx.ExtContext, sectionCourseID int64) (*models.Schedule, error) {
	s.nextID++
	s.schedules[sectionCourseID] = s.nextID
	return &models.Schedule{ID: s.nextID, SectionCourseID: sectionCourseID}, nil
}

func (s *reconcileStore) DeleteBySectionCourse(_ context.Context, _ sqlx.ExtContext, sectionCourseID int64) error {
	delete(s.schedules, sectionCourseID)
	return nil
}

func (s *reconcileStore) List(_ context.Context, _ sqlx.ExtContext, filter repository.OfferingFilter) ([]models.Offering, error) {
	var offerings []models.Offering
	for _, c := range s.courses {
		semester, ok := s.semesterOf[c.CourseAssignmentID]
		if !ok {
			semester = models.SemesterFirst
		}
		if filter.SemesterID > 0 && semester != filter.SemesterID {
			continue
		}
		o := models.Offering{SectionID: c.SectionID, SectionCourseID: c.ID, CourseAssignmentID: c.CourseAssignmentID, IsCopy: c.IsCopy}
		if id, ok := s.schedules[c.ID]; ok {
			o.ScheduleID = null.Int64From(id)
		}
		offerings = append(offerings, o)
	}
	sort.Slice(offerings, func(i, j int) bool { return offerings[i].SectionCourseID < offerings[j].SectionCourseID })
	return offerings, nil
}

func reconcileSlots() []models.CurriculumSlot {
	return []models.CurriculumSlot{
		{ProgramID: 1, ProgramCode: "BSCS", YearLevel: 1, CurriculumID: 9, CurriculumYear: "2024", CourseAssignmentID: int64Ptr(21)},
		{ProgramID: 1, ProgramCode: "BSCS", YearLevel: 1, CurriculumID: 9, CurriculumYear: "2024", CourseAssignmentID: int64Ptr(22)},
		{ProgramID: 1, ProgramCode: "BSCS", YearLevel: 2, CurriculumID: 9, CurriculumYear: "2024"},
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newReconcileStore(
		models.Section{ID: 1, ProgramID: 1, YearLevel: 1, SectionName: "1"},
		models.Section{ID: 2, ProgramID: 1, YearLevel: 1, SectionName: "2"},
		models.Section{ID: 3, ProgramID: 1, YearLevel: 2, SectionName: "1"},
		models.Section{ID: 4, ProgramID: 7, YearLevel: 1, SectionName: "1"},
	)
	views := &invalidatorSpy{}
	tx, mock := newTxProviderMock(t)
	svc := NewReconcileService(activePeriodStub{period: testPeriod()}, slotListerStub{slots: reconcileSlots()}, store, store, store, tx, views, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.courses, 4)
	assert.Len(t, store.schedules, 4)
	assert.Equal(t, 1, views.calls)

	mock.ExpectBegin()
	mock.ExpectCommit()
	second, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.courses, 4)
	assert.Len(t, store.schedules, 4)
	assert.Equal(t, 1, views.calls)
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileTreeKeepsActiveSemesterCourses(t *testing.T) {
	store := newReconcileStore(models.Section{ID: 1, ProgramID: 1, YearLevel: 1, SectionName: "1"})
	store.semesterOf = map[int64]int16{21: models.SemesterFirst, 31: models.SemesterSecond}
	store.courses[50] = models.SectionCourse{ID: 50, SectionID: 1, CourseAssignmentID: 21}
	store.schedules[50] = 60

	period := testPeriod()
	period.SemesterID = models.SemesterSecond
	slots := []models.CurriculumSlot{
		{ProgramID: 1, ProgramCode: "BSCS", YearLevel: 1, CurriculumID: 9, CurriculumYear: "2024", CourseAssignmentID: int64Ptr(31)},
	}
	tx, mock := newTxProviderMock(t)
	svc := NewReconcileService(activePeriodStub{period: period}, slotListerStub{slots: slots}, store, store, store, tx, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	tree, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.courses, 2)

	require.Len(t, tree.Programs, 1)
	require.Len(t, tree.Programs[0].YearLevels, 1)
	semester := tree.Programs[0].YearLevels[0].Semesters[0]
	assert.Equal(t, models.SemesterSecond, semester.Semester)
	require.Len(t, semester.Sections, 1)
	courses := semester.Sections[0].Courses
	require.Len(t, courses, 1)
	assert.Equal(t, int64(31), courses[0].CourseAssignmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileWithoutActivePeriod(t *testing.T) {
	store := newReconcileStore()
	tx, _ := newTxProviderMock(t)
	svc := NewReconcileService(activePeriodStub{}, slotListerStub{}, store, store, store, tx, nil, nil, nil)

	_, err := svc.Reconcile(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestBuildScheduleTree(t *testing.T) {
	sections := []models.Section{
		{ID: 1, ProgramID: 1, YearLevel: 1, SectionName: "1"},
		{ID: 2, ProgramID: 1, YearLevel: 1, SectionName: "2"},
		{ID: 3, ProgramID: 1, YearLevel: 2, SectionName: "1"},
		{ID: 4, ProgramID: 7, YearLevel: 1, SectionName: "1"},
	}
	offerings := []models.Offering{
		{ProgramID: 1, SectionID: 1, SectionCourseID: 101, CourseAssignmentID: 21, CourseCode: "CS101", ScheduleID: null.Int64From(501),
			Day: null.StringFrom("Monday"), FacultyID: null.Int64From(4), FacultyFirstName: null.StringFrom("Ada"), FacultyLastName: null.StringFrom("Lovelace")},
		{ProgramID: 1, SectionID: 1, SectionCourseID: 105, CourseAssignmentID: 21, CourseCode: "CS101", IsCopy: true, ScheduleID: null.Int64From(505)},
		{ProgramID: 7, SectionID: 4, SectionCourseID: 110, CourseAssignmentID: 70, CourseCode: "ENG1"},
	}

	tree := BuildScheduleTree(testPeriod(), reconcileSlots(), sections, offerings)
	require.Len(t, tree.Programs, 1)
	program := tree.Programs[0]
	assert.Equal(t, "BSCS", program.ProgramCode)
	require.Len(t, program.YearLevels, 2)

	first := program.YearLevels[0].Semesters[0]
	assert.Equal(t, models.SemesterFirst, first.Semester)
	require.Len(t, first.Sections, 2)
	require.Len(t, first.Sections[0].Courses, 2)
	assert.Equal(t, "Ada Lovelace", first.Sections[0].Courses[0].Schedule.FacultyName.String)
	assert.True(t, first.Sections[0].Courses[1].IsCopy)
	assert.False(t, first.Sections[0].Courses[1].Schedule.FacultyName.Valid)
	assert.NotNil(t, first.Sections[1].Courses)
	assert.Empty(t, first.Sections[1].Courses)

	second := program.YearLevels[1].Semesters[0]
	require.Len(t, second.Sections, 1)
	assert.Empty(t, second.Sections[0].Courses)

	again := BuildScheduleTree(testPeriod(), reconcileSlots(), sections, offerings)
	assert.Equal(t, tree, again)
}

func TestBuildScheduleTreeEmpty(t *testing.T) {
	tree := BuildScheduleTree(testPeriod(), nil, nil, nil)
	assert.NotNil(t, tree.Programs)
	assert.Empty(t, tree.Programs)
}

func TestDuplicateCourseLineage(t *testing.T) {
	store := newReconcileStore()
	store.courses[101] = models.SectionCourse{ID: 101, SectionID: 1, CourseAssignmentID: 21}
	tx, mock := newTxProviderMock(t)
	svc := NewReconcileService(activePeriodStub{period: testPeriod()}, slotListerStub{}, store, store, store, tx, nil, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	dup, err := svc.DuplicateCourse(context.Background(), 101)
	require.NoError(t, err)
	assert.True(t, dup.IsCopy)
	assert.Equal(t, int64(21), dup.CourseAssignmentID)
	assert.NotZero(t, dup.ScheduleID)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.DuplicateCourse(context.Background(), dup.SectionCourseID)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidOperation))

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = svc.RemoveDuplicate(context.Background(), 101)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidOperation))

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.RemoveDuplicate(context.Background(), dup.SectionCourseID))
	assert.NotContains(t, store.courses, dup.SectionCourseID)
	assert.NotContains(t, store.schedules, dup.SectionCourseID)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.DuplicateCourse(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
