package handlers

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/config"
)

func TestNewHandlerSetSharesServices(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Attendance.Timezone = "UTC"

	hs, err := NewHandlerSet(zerolog.Nop(), nil, nil, cfg)
	require.NoError(t, err)

	// The scheduler must reuse the handler set's instances rather than
	// constructing its own.
	assert.NotNil(t, hs.AttendanceService())
	assert.Same(t, hs.attendance, hs.AttendanceService())
	assert.NotNil(t, hs.SessionRepository())
	assert.Same(t, hs.sessions, hs.SessionRepository())
}
