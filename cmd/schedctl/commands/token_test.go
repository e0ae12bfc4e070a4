package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
	"github.com/noah-isme/academic-scheduler-api/internal/service"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
)

func TestWriteTokenRoundTrip(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "schedctl-test"}
	var out bytes.Buffer

	require.NoError(t, writeToken(&out, jwtCfg, 40, 4, "faculty", "ada@example.edu"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "expires "))

	claims, err := service.NewTokenService(service.TokenConfig{Secret: jwtCfg.Secret, Expiry: jwtCfg.Expiration, Issuer: jwtCfg.Issuer}).ValidateToken(lines[0])
	require.NoError(t, err)
	assert.Equal(t, int64(40), claims.UserID)
	assert.Equal(t, int64(4), claims.FacultyID)
	assert.Equal(t, models.RoleFaculty, claims.Role)
}

func TestWriteTokenRejectsBadInput(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}
	var out bytes.Buffer

	assert.Error(t, writeToken(&out, jwtCfg, 1, 0, "student", ""))
	assert.Error(t, writeToken(&out, jwtCfg, 40, 0, "FACULTY", ""))
	assert.Empty(t, out.String())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "reconcile", "dispatch-deferred", "token"} {
		assert.True(t, names[want], want)
	}
}
