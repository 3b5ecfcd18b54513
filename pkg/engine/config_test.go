package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	content := `
listen_address: "127.0.0.1:7000"
max_sessions: 4
connection_timeout: 10s
handshake_retry_delay: 500ms
azimuth_offset_deg: -2.5
protocol_log: /tmp/pilot.cborlog
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddress)
	assert.Equal(t, 4, cfg.MaxSessions)
	assert.Equal(t, 10*time.Second, cfg.ConnectionTimeout.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.HandshakeRetryDelay.Duration)
	assert.InDelta(t, -2.5, cfg.AzimuthOffsetDeg, 1e-9)
	assert.Equal(t, "/tmp/pilot.cborlog", cfg.ProtocolLogPath)

	// Unset fields fall back to defaults
	assert.Equal(t, DefaultConfig().ReleaseRetryDelay, cfg.ReleaseRetryDelay)
	assert.Equal(t, DefaultConfig().MaxHandshakeAttempts, cfg.MaxHandshakeAttempts)
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection_timeout: soon\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultMaxSessions, cfg.MaxSessions)
	assert.Equal(t, 30*time.Second, cfg.ConnectionTimeout.Duration)
	assert.Equal(t, time.Second, cfg.HandshakeRetryDelay.Duration)
	assert.Equal(t, 3, cfg.MaxHandshakeAttempts)
}
