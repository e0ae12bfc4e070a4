package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/academic-scheduler-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type activePeriodFinder interface {
	FindActive(ctx context.Context, exec sqlx.ExtContext) (*models.ActivePeriod, error)
}

// viewInvalidator drops cached published views after writes that change them.
type viewInvalidator interface {
	InvalidateViews(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateViews(context.Context) {}

func loadActivePeriod(ctx context.Context, repo activePeriodFinder, exec sqlx.ExtContext) (*models.ActivePeriod, error) {
	period, err := repo.FindActive(ctx, exec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active academic period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period")
	}
	return period, nil
}

// liveScheduleConflict names the schedule blocking a destructive operation.
func liveScheduleConflict(action string, live *models.LiveSchedule) *appErrors.Error {
	msg := fmt.Sprintf("cannot %s: %s %d - Section %s has a scheduled %s", action, live.ProgramCode, live.YearLevel, live.SectionName, live.CourseCode)
	if live.RoomCode.Valid {
		msg += " in room " + live.RoomCode.String
	}
	return appErrors.Clone(appErrors.ErrConflict, msg)
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

// parseClock accepts HH:MM or HH:MM:SS and returns the canonical HH:MM:SS form.
func parseClock(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrValidation, field+" must be HH:MM or HH:MM:SS")
}

// calendarDay truncates t to its calendar date in loc, expressed at UTC midnight
// so it compares directly with DATE columns.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
