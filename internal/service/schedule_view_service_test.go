package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
)

type viewOfferingsStub struct {
	calls   int
	filters []repository.OfferingFilter
	rows    []models.Offering
}

func (s *viewOfferingsStub) List(_ context.Context, _ sqlx.ExtContext, filter repository.OfferingFilter) ([]models.Offering, error) {
	s.calls++
	s.filters = append(s.filters, filter)
	return s.rows, nil
}

func newViewCache(t *testing.T) *CacheService {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := repository.NewCacheRepository(client, "views", nil)
	return NewCacheService(repo, nil, time.Minute, nil, true)
}

func TestScheduleViewByFacultyUsesCache(t *testing.T) {
	offerings := &viewOfferingsStub{rows: []models.Offering{
		{ProgramCode: "BSCS", YearLevel: 1, SectionName: "1", CourseCode: "CS101", ScheduleID: null.Int64From(501),
			FacultyID: null.Int64From(4), FacultyFirstName: null.StringFrom("Ada"), FacultyLastName: null.StringFrom("Lovelace")},
		{ProgramCode: "BSCS", YearLevel: 1, SectionName: "1", CourseCode: "CS102"},
	}}
	cache := newViewCache(t)
	svc := NewScheduleViewService(activePeriodStub{period: testPeriod()}, offerings, cache, nil)

	rows, err := svc.ByFaculty(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Lovelace", rows[0].FacultyName.String)
	require.Len(t, offerings.filters, 1)
	assert.True(t, offerings.filters[0].PublishedOnly)
	assert.Equal(t, int64(4), *offerings.filters[0].FacultyID)

	again, err := svc.ByFaculty(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
	assert.Equal(t, 1, offerings.calls)

	cache.InvalidateViews(context.Background())
	_, err = svc.ByFaculty(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, offerings.calls)
}

func TestScheduleViewByProgramWithoutCache(t *testing.T) {
	offerings := &viewOfferingsStub{}
	svc := NewScheduleViewService(activePeriodStub{period: testPeriod()}, offerings, nil, nil)
	level := 2

	rows, err := svc.ByProgram(context.Background(), 1, &level)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, 2, *offerings.filters[0].YearLevel)

	_, err = svc.ByRoom(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *offerings.filters[1].RoomID)
}
