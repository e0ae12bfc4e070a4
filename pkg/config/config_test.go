package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, UnpublishScopeAll, cfg.Preferences.IndividualUnpublishScope)
	assert.Equal(t, MailProviderConsole, cfg.Mail.Provider)
	assert.Equal(t, 5*time.Second, cfg.Notifier.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.ViewCache.TTL)
	assert.True(t, cfg.Database.RunMigrations)
	assert.Equal(t, time.UTC, cfg.Scheduling.Location())
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("NOTIFIER_PARTNER_URLS", " https://a.example/hook, ,https://b.example/hook ")
	v.Set("PREFERENCES_INDIVIDUAL_UNPUBLISH_SCOPE", "FACULTY")
	v.Set("NOTIFIER_TIMEOUT", "not-a-duration")
	v.Set("FRONTEND_BASE_URL", "https://portal.example/")

	cfg := fromViper(v)

	require.Equal(t, []string{"https://a.example/hook", "https://b.example/hook"}, cfg.Notifier.PartnerURLs)
	assert.Equal(t, UnpublishScopeFaculty, cfg.Preferences.IndividualUnpublishScope)
	assert.Equal(t, 5*time.Second, cfg.Notifier.Timeout)
	assert.Equal(t, "https://portal.example", cfg.Mail.FrontendBaseURL)
}

func TestUnknownScopeFallsBackToAll(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("PREFERENCES_INDIVIDUAL_UNPUBLISH_SCOPE", "department")

	assert.Equal(t, UnpublishScopeAll, fromViper(v).Preferences.IndividualUnpublishScope)
}

func TestSchedulingLocationInvalidZone(t *testing.T) {
	assert.Equal(t, time.UTC, SchedulingConfig{Timezone: "Mars/Olympus"}.Location())
}
