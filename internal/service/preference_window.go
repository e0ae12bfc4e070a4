package service

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// DeriveWindowState computes the preference window state of one faculty.
// The start date opens at 00:00 in loc and the deadline stays open through the
// end of its day. Enabled with neither date is an open-ended OPEN.
func DeriveWindowState(setting models.PreferencesSetting, now time.Time, loc *time.Location) models.WindowState {
	if !setting.IsEnabled {
		return models.WindowDisabled
	}
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	if start := setting.EffectiveStartDate(); start.Valid && now.Before(opensAt(start, loc)) {
		return models.WindowPending
	}
	if deadline := setting.EffectiveDeadline(); deadline.Valid && !now.Before(closesAt(deadline, loc)) {
		return models.WindowClosed
	}
	return models.WindowOpen
}

func opensAt(day null.Time, loc *time.Location) time.Time {
	y, m, d := day.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func closesAt(day null.Time, loc *time.Location) time.Time {
	y, m, d := day.Time.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// windowClosedMessage explains to the faculty why submissions are refused.
func windowClosedMessage(state models.WindowState, setting models.PreferencesSetting) string {
	switch state {
	case models.WindowPending:
		return "preference submission opens on " + setting.EffectiveStartDate().Time.Format(dateLayout)
	case models.WindowClosed:
		return "the preference submission deadline passed on " + setting.EffectiveDeadline().Time.Format(dateLayout)
	default:
		return "preference submission is currently disabled"
	}
}
