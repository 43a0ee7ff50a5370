// Package config provides YAML-based configuration loading for the
// mathfacts front ends, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
	Display DisplayConfig `yaml:"display"`
}

// StorageConfig locates the run history database.
type StorageConfig struct {
	Path    string `yaml:"path" env:"DB_PATH"`
	Disable bool   `yaml:"disable" env:"NO_HISTORY"` // Play without recording runs
}

// SSHConfig configures the SSH front end.
type SSHConfig struct {
	Address     string        `yaml:"address" env:"SSH_ADDR"`
	HostKeyPath string        `yaml:"host_key_path" env:"SSH_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SSH_IDLE_TIMEOUT"`
	MaxTimeout  time.Duration `yaml:"max_timeout" env:"SSH_MAX_TIMEOUT"`
}

// WebConfig configures the HTTP front end.
type WebConfig struct {
	Address         string        `yaml:"address" env:"WEB_ADDR"`
	SessionIdle     time.Duration `yaml:"session_idle" env:"WEB_SESSION_IDLE"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env:"WEB_SWEEP_INTERVAL"`
	CookieName      string        `yaml:"cookie_name" env:"WEB_COOKIE_NAME"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"WEB_SHUTDOWN_TIMEOUT"`
}

// LogConfig controls the charmbracelet logger.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// DisplayConfig tunes the terminal UI.
type DisplayConfig struct {
	ShowProgress bool   `yaml:"show_progress" env:"SHOW_PROGRESS"`
	ShowStats    bool   `yaml:"show_stats" env:"SHOW_STATS"`
	Player       string `yaml:"player" env:"PLAYER"` // Name recorded for local runs
}

// Validate checks that addresses, durations and the log level are usable.
func (c Config) Validate() error {
	var errs []error

	if c.SSH.Address != "" {
		if _, _, err := net.SplitHostPort(c.SSH.Address); err != nil {
			errs = append(errs, fmt.Errorf("ssh.address %q: %w", c.SSH.Address, err))
		}
	}
	if c.Web.Address != "" {
		if _, _, err := net.SplitHostPort(c.Web.Address); err != nil {
			errs = append(errs, fmt.Errorf("web.address %q: %w", c.Web.Address, err))
		}
	}
	if c.SSH.IdleTimeout < 0 || c.SSH.MaxTimeout < 0 {
		errs = append(errs, errors.New("ssh timeouts must not be negative"))
	}
	if c.Web.SessionIdle <= 0 {
		errs = append(errs, errors.New("web.session_idle must be positive"))
	}
	if c.Web.SweepInterval <= 0 {
		errs = append(errs, errors.New("web.sweep_interval must be positive"))
	}
	if c.Web.CookieName == "" {
		errs = append(errs, errors.New("web.cookie_name must not be empty"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}
