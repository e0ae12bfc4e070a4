package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/academic-scheduler-api/pkg/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "sched", Password: "p@ss/word", Name: "scheduler"})

	assert.Contains(t, dsn, "postgres://sched:p%40ss%2Fword@db:5432/scheduler?")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "application_name=academic-scheduler")
}
