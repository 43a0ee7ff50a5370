package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. MATHFACTS_DB_PATH.
const EnvPrefix = "MATHFACTS_"

const (
	localConfigPath = "configs/mathfacts.yaml"
	dotEnvPath      = "configs/.env"
)

// Source names where the file part of a configuration came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// Load loads the configuration.
// Search order: customPath -> ~/.mathfacts/config.yaml -> ./configs/mathfacts.yaml -> embedded default.
// MATHFACTS_* variables, from the process or from ./configs/.env, are applied on top.
// The result is not validated: callers apply their flag overrides first and
// then call Validate.
func Load(customPath string) (Config, Source, error) {
	cfg, src, err := loadFile(customPath)
	if err != nil {
		return cfg, src, err
	}

	if err := ApplyEnv(&cfg, environment(dotEnvPath)); err != nil {
		return cfg, src, err
	}
	return cfg, src, nil
}

// loadFile resolves the YAML part of the configuration. Files only need to
// set the keys they change; everything else keeps its default.
func loadFile(customPath string) (Config, Source, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := readFile(customPath)
		if err != nil {
			return DefaultConfig(), SourceCustom, err
		}
		return cfg, SourceCustom, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if cfg, err := readFile(userCfgPath); err == nil {
			return cfg, SourceUser, nil
		}
	}

	// Try local configs directory
	if cfg, err := readFile(localConfigPath); err == nil {
		return cfg, SourceLocal, nil
	}

	// Use embedded default YAML
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig(), SourceBuiltin, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

func readFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with MATHFACTS_* entries from environ.
// Unset variables leave the current values alone.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("config: failed to apply environment: %w", err)
	}
	return nil
}

// environment merges the optional dotenv file with the process environment.
// Real environment variables win.
func environment(dotenv string) map[string]string {
	merged := make(map[string]string)

	if vars, err := godotenv.Read(dotenv); err == nil {
		for k, v := range vars {
			merged[k] = v
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not read %s: %v\n", dotenv, err)
	}

	for k, v := range env.ToMap(os.Environ()) {
		merged[k] = v
	}
	return merged
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mathfacts", filename)
}

// WriteDefault writes the embedded default configuration to path unless a
// file already exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory: %w", err)
	}
	if err := os.WriteFile(path, defaultYAML, 0o644); err != nil {
		return fmt.Errorf("config: cannot write %s: %w", path, err)
	}
	return nil
}
