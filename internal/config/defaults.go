package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mathfacts.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration. It matches the
// embedded defaults/mathfacts.yaml.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Path: "~/.mathfacts/history.db",
		},
		SSH: SSHConfig{
			Address:     ":2323",
			HostKeyPath: ".ssh/mathfacts_ed25519",
			IdleTimeout: 10 * time.Minute,
			MaxTimeout:  2 * time.Hour,
		},
		Web: WebConfig{
			Address:         ":8080",
			SessionIdle:     30 * time.Minute,
			SweepInterval:   time.Minute,
			CookieName:      "mathfacts_session",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: DisplayConfig{
			ShowProgress: true,
			ShowStats:    true,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
