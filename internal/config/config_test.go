package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)

	assert.Equal(t, 168*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, "gymora_session", cfg.Security.SessionCookie)
	assert.Equal(t, 30*time.Minute, cfg.Security.ResetTokenTTL)

	assert.Equal(t, "UTC", cfg.Attendance.Timezone)
	assert.Equal(t, 180, cfg.Attendance.MaxSessionMinutes)

	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GYMORA_HTTP_PORT", "9000")
	t.Setenv("GYMORA_ATTENDANCE_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Attendance.Timezone)
}
