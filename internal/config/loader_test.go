package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points HOME and the working directory at empty temp dirs so the
// search order only sees files the test creates.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()
	home = t.TempDir()
	wd = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(wd)
	return home, wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSearchOrder(t *testing.T) {
	home, wd := isolate(t)

	cfg, src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, src)
	assert.Equal(t, ":8080", cfg.Web.Address)

	writeFile(t, filepath.Join(wd, "configs", "mathfacts.yaml"), "web:\n  address: \":9001\"\n")
	cfg, src, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, src)
	assert.Equal(t, ":9001", cfg.Web.Address)
	assert.Equal(t, ":2323", cfg.SSH.Address, "unset keys keep defaults")

	writeFile(t, filepath.Join(home, ".mathfacts", "config.yaml"), "web:\n  address: \":9002\"\n")
	cfg, src, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, src)
	assert.Equal(t, ":9002", cfg.Web.Address)

	custom := filepath.Join(wd, "custom.yaml")
	writeFile(t, custom, "web:\n  address: \":9003\"\n  session_idle: 5m\n")
	cfg, src, err = Load(custom)
	require.NoError(t, err)
	assert.Equal(t, SourceCustom, src)
	assert.Equal(t, ":9003", cfg.Web.Address)
	assert.Equal(t, 5*time.Minute, cfg.Web.SessionIdle)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, wd := isolate(t)

	_, _, err := Load(filepath.Join(wd, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(wd, "bad.yaml")
	writeFile(t, bad, "web: [not, a, map")
	_, _, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestLoadSkipsBrokenUserFile(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".mathfacts", "config.yaml"), "web: [not, a, map")

	_, src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, src)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	_, wd := isolate(t)
	custom := filepath.Join(wd, "loud.yaml")
	writeFile(t, custom, "log:\n  level: loud\n")

	cfg, src, err := Load(custom)
	require.NoError(t, err)
	assert.Equal(t, SourceCustom, src)
	assert.Equal(t, "loud", cfg.Log.Level)
	assert.ErrorContains(t, cfg.Validate(), "log.level")

	cfg.Log.Level = "debug"
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyEnv(&cfg, map[string]string{
		"MATHFACTS_DB_PATH":          "/tmp/h.db",
		"MATHFACTS_SSH_ADDR":         "127.0.0.1:2222",
		"MATHFACTS_WEB_ADDR":         "127.0.0.1:8081",
		"MATHFACTS_LOG_LEVEL":        "debug",
		"MATHFACTS_WEB_SESSION_IDLE": "90s",
		"MATHFACTS_NO_HISTORY":       "true",
		"DB_PATH":                    "ignored-without-prefix",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/h.db", cfg.Storage.Path)
	assert.True(t, cfg.Storage.Disable)
	assert.Equal(t, "127.0.0.1:2222", cfg.SSH.Address)
	assert.Equal(t, "127.0.0.1:8081", cfg.Web.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 90*time.Second, cfg.Web.SessionIdle)
	assert.Equal(t, time.Minute, cfg.Web.SweepInterval, "unset variables keep values")
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyEnv(&cfg, map[string]string{"MATHFACTS_WEB_SESSION_IDLE": "soon"})
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	_, wd := isolate(t)
	writeFile(t, filepath.Join(wd, "configs", ".env"), "MATHFACTS_WEB_ADDR=:7070\nMATHFACTS_SSH_ADDR=:7071\n")
	t.Setenv("MATHFACTS_SSH_ADDR", ":7072")

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Web.Address)
	assert.Equal(t, ":7072", cfg.SSH.Address, "process environment wins over .env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty addresses", func(c *Config) { c.SSH.Address = ""; c.Web.Address = "" }, false},
		{"bad web address", func(c *Config) { c.Web.Address = "8080" }, true},
		{"bad ssh address", func(c *Config) { c.SSH.Address = "localhost" }, true},
		{"zero idle", func(c *Config) { c.Web.SessionIdle = 0 }, true},
		{"zero sweep", func(c *Config) { c.Web.SweepInterval = 0 }, true},
		{"negative ssh timeout", func(c *Config) { c.SSH.IdleTimeout = -time.Second }, true},
		{"no cookie", func(c *Config) { c.Web.CookieName = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultYAML(), data)

	assert.Error(t, WriteDefault(path), "refuses to overwrite")
}
