//go:build integration

package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/noah-isme/academic-scheduler-api/pkg/config"
)

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "scheduler",
			"POSTGRES_PASSWORD": "scheduler",
			"POSTGRES_DB":       "scheduler",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:     host,
		Port:     portNum,
		User:     "scheduler",
		Password: "scheduler",
		Name:     "scheduler",
		SSLMode:  "disable",
	}
}

func TestRunMigrationsCreatesSchema(t *testing.T) {
	db, err := NewPostgres(startPostgres(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db.DB, nil))
	// second run is a no-op
	require.NoError(t, RunMigrations(db.DB, nil))

	tables := []string{
		"faculty", "rooms", "programs", "courses", "course_assignments",
		"academic_years", "active_semesters", "period_activation_lock",
		"sections_per_program_year", "section_courses", "schedules",
		"faculty_schedule_publications", "preferences_settings", "preferences",
		"preference_days", "scheduled_notifications",
	}
	for _, table := range tables {
		var exists bool
		err := db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	var locks int
	require.NoError(t, db.Get(&locks, `SELECT COUNT(*) FROM period_activation_lock`))
	assert.Equal(t, 1, locks)
}
