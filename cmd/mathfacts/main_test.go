package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mathfacts/internal/config"
)

// flagCmd parses args into the global flags the way the root command does,
// with HOME and the working directory pointed at empty temp dirs.
func flagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	oldConfig, oldDB, oldLevel := flagConfig, flagDBPath, flagLogLevel
	t.Cleanup(func() {
		flagConfig, flagDBPath, flagLogLevel = oldConfig, oldDB, oldLevel
	})

	cmd := &cobra.Command{Use: "mathfacts"}
	cmd.Flags().StringVar(&flagConfig, "config", "", "")
	cmd.Flags().StringVar(&flagDBPath, "db", "", "")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mathfacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveConfigRejectsBadFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")
	cmd := flagCmd(t, "--config", path)

	_, _, err := resolveConfig(cmd)
	assert.ErrorContains(t, err, "log.level")
}

func TestResolveConfigFlagsOverrideBeforeValidation(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")
	db := filepath.Join(t.TempDir(), "runs.db")
	cmd := flagCmd(t, "--config", path, "--log-level", "debug", "--db", db)

	cfg, src, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.SourceCustom, src)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, db, cfg.Storage.Path)
}

func TestResolveConfigCommandOverrides(t *testing.T) {
	path := writeConfig(t, "web:\n  cookie_name: \"\"\n")
	cmd := flagCmd(t, "--config", path)

	_, _, err := resolveConfig(cmd)
	require.ErrorContains(t, err, "web.cookie_name")

	cfg, _, err := resolveConfig(cmd, func(cfg *config.Config) {
		cfg.Web.CookieName = "drill"
	})
	require.NoError(t, err)
	assert.Equal(t, "drill", cfg.Web.CookieName)
}
