package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pilot-uwb/pilot-go/pkg/session"
)

// Duration wraps time.Duration for YAML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds engine configuration.
type Config struct {
	// ListenAddress is the control-link listen address, host:port.
	ListenAddress string `yaml:"listen_address"`

	// MaxSessions limits concurrent device sessions.
	MaxSessions int `yaml:"max_sessions"`

	// ConnectionTimeout reaps sessions with no control-link activity.
	ConnectionTimeout Duration `yaml:"connection_timeout"`

	// HandshakeRetryDelay is the per-session handshake retry delay.
	HandshakeRetryDelay Duration `yaml:"handshake_retry_delay"`

	// ReleaseRetryDelay is the per-session release-then-retry delay.
	ReleaseRetryDelay Duration `yaml:"release_retry_delay"`

	// MaxHandshakeAttempts bounds handshake cycles per connection.
	MaxHandshakeAttempts int `yaml:"max_handshake_attempts"`

	// AzimuthOffsetDeg is added to freshly computed azimuth angles.
	AzimuthOffsetDeg float64 `yaml:"azimuth_offset_deg"`

	// DistanceOffsetMeters is added to clamped distances.
	DistanceOffsetMeters float64 `yaml:"distance_offset_meters"`

	// ProtocolLogPath enables CBOR protocol event logging when non-empty.
	ProtocolLogPath string `yaml:"protocol_log"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddress:        "0.0.0.0:5554",
		MaxSessions:          DefaultMaxSessions,
		ConnectionTimeout:    Duration{30 * time.Second},
		HandshakeRetryDelay:  Duration{session.DefaultHandshakeRetryDelay},
		ReleaseRetryDelay:    Duration{session.DefaultReleaseRetryDelay},
		MaxHandshakeAttempts: session.DefaultMaxHandshakeAttempts,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.ListenAddress == "" {
		c.ListenAddress = d.ListenAddress
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = d.MaxSessions
	}
	if c.ConnectionTimeout.Duration <= 0 {
		c.ConnectionTimeout = d.ConnectionTimeout
	}
	if c.HandshakeRetryDelay.Duration <= 0 {
		c.HandshakeRetryDelay = d.HandshakeRetryDelay
	}
	if c.ReleaseRetryDelay.Duration <= 0 {
		c.ReleaseRetryDelay = d.ReleaseRetryDelay
	}
	if c.MaxHandshakeAttempts <= 0 {
		c.MaxHandshakeAttempts = d.MaxHandshakeAttempts
	}
}
