package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/repository"
)

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type activePeriodStub struct {
	period *models.ActivePeriod
	err    error
}

func (s activePeriodStub) FindActive(context.Context, sqlx.ExtContext) (*models.ActivePeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.period == nil {
		return nil, sql.ErrNoRows
	}
	return s.period, nil
}

func testPeriod() *models.ActivePeriod {
	return &models.ActivePeriod{ActiveSemesterID: 11, AcademicYearID: 5, YearStart: 2025, YearEnd: 2026, SemesterID: models.SemesterFirst}
}

type invalidatorSpy struct {
	mu    sync.Mutex
	calls int
}

func (s *invalidatorSpy) InvalidateViews(context.Context) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

type notifierCall struct {
	action      string
	isPublished bool
	facultyID   *int64
}

type notifierSpy struct {
	calls []notifierCall
}

func (s *notifierSpy) NotifyPublicationChanged(_ context.Context, action string, isPublished bool, facultyID *int64) {
	s.calls = append(s.calls, notifierCall{action: action, isPublished: isPublished, facultyID: facultyID})
}

type preferenceResetSpy struct {
	calls []*int64
	err   error
}

func (s *preferenceResetSpy) Reset(_ context.Context, _ sqlx.ExtContext, facultyID *int64) error {
	s.calls = append(s.calls, facultyID)
	return s.err
}

type liveFinderStub struct {
	live    *models.LiveSchedule
	err     error
	lockErr error
	scopes  []repository.LiveScope
	calls   []string
}

func (s *liveFinderStub) LockScope(_ context.Context, _ sqlx.ExtContext, scope repository.LiveScope) error {
	s.calls = append(s.calls, "lock")
	return s.lockErr
}

func (s *liveFinderStub) FindLive(_ context.Context, _ sqlx.ExtContext, scope repository.LiveScope) (*models.LiveSchedule, error) {
	s.calls = append(s.calls, "find")
	s.scopes = append(s.scopes, scope)
	if s.err != nil {
		return nil, s.err
	}
	if s.live == nil {
		return nil, sql.ErrNoRows
	}
	return s.live, nil
}
