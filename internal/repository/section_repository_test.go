package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

func TestSectionRepositoryListOriginalKeys(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "sections_per_program_year_id", "course_assignment_id", "is_copy", "created_at"}).
		AddRow(1, 10, 100, false, time.Now()).
		AddRow(2, 10, 101, false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM section_courses WHERE is_copy = FALSE")).WillReturnRows(rows)

	keys, err := repo.ListOriginalKeys(context.Background(), nil, []int64{10})
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	_, ok := keys[models.SectionCourseKey{SectionID: 10, CourseAssignmentID: 101}]
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryListOriginalKeysEmptyInput(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	keys, err := repo.ListOriginalKeys(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryInsertOriginalsSkipsConflicts(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE NOT is_copy DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.InsertOriginals(context.Background(), nil, []models.SectionCourseKey{
		{SectionID: 1, CourseAssignmentID: 5},
		{SectionID: 1, CourseAssignmentID: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryDeleteRemovesSchedulesFirst(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM section_courses")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sections_per_program_year WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), nil, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryCreateCopy(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("VALUES ($1, $2, TRUE, $3) RETURNING id")).
		WithArgs(int64(4), int64(40), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))

	sc, err := repo.CreateCopy(context.Background(), nil, 4, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(99), sc.ID)
	assert.True(t, sc.IsCopy)
}
