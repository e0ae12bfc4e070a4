package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

func day(y int, m time.Month, d int) null.Time {
	return null.TimeFrom(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestDeriveWindowState(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	enabled := models.PreferencesSetting{
		IsEnabled:       true,
		GlobalStartDate: day(2025, time.September, 1),
		GlobalDeadline:  day(2025, time.September, 30),
	}

	cases := []struct {
		name    string
		setting models.PreferencesSetting
		now     time.Time
		want    models.WindowState
	}{
		{"disabled", models.PreferencesSetting{GlobalDeadline: day(2030, time.January, 1)}, time.Now(), models.WindowDisabled},
		{"enabled without dates", models.PreferencesSetting{IsEnabled: true}, time.Now(), models.WindowOpen},
		{"one second before start", enabled, time.Date(2025, time.August, 31, 23, 59, 59, 0, loc), models.WindowPending},
		{"at start", enabled, time.Date(2025, time.September, 1, 0, 0, 0, 0, loc), models.WindowOpen},
		{"end of deadline day", enabled, time.Date(2025, time.September, 30, 23, 59, 59, 0, loc), models.WindowOpen},
		{"one second after deadline", enabled, time.Date(2025, time.October, 1, 0, 0, 0, 0, loc), models.WindowClosed},
		{"deadline only", models.PreferencesSetting{IsEnabled: true, GlobalDeadline: day(2025, time.May, 1)}, time.Date(2025, time.April, 1, 0, 0, 0, 0, loc), models.WindowOpen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveWindowState(tc.setting, tc.now, loc))
		})
	}
}

func TestDeriveWindowStateIndividualShadowsGlobal(t *testing.T) {
	setting := models.PreferencesSetting{
		IsEnabled:          true,
		GlobalDeadline:     day(2025, time.September, 30),
		IndividualDeadline: day(2025, time.October, 15),
	}
	now := time.Date(2025, time.October, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, models.WindowOpen, DeriveWindowState(setting, now, time.UTC))

	setting.IndividualDeadline = null.Time{}
	assert.Equal(t, models.WindowClosed, DeriveWindowState(setting, now, time.UTC))
}

func TestDeriveWindowStateUsesLocation(t *testing.T) {
	setting := models.PreferencesSetting{IsEnabled: true, GlobalDeadline: day(2025, time.September, 30)}
	// 2025-09-30 20:00 UTC is already 2025-10-01 in UTC+8
	now := time.Date(2025, time.September, 30, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, models.WindowOpen, DeriveWindowState(setting, now, time.UTC))
	assert.Equal(t, models.WindowClosed, DeriveWindowState(setting, now, time.FixedZone("UTC+8", 8*3600)))
}

func TestWindowClosedMessage(t *testing.T) {
	setting := models.PreferencesSetting{GlobalDeadline: day(2025, time.September, 30), GlobalStartDate: day(2025, time.September, 1)}
	assert.Contains(t, windowClosedMessage(models.WindowClosed, setting), "2025-09-30")
	assert.Contains(t, windowClosedMessage(models.WindowPending, setting), "2025-09-01")
	assert.Contains(t, windowClosedMessage(models.WindowDisabled, setting), "disabled")
}
