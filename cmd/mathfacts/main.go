// mathfacts is an addition-facts drill for the terminal, SSH and the browser.
//
// Usage:
//
//	mathfacts play [--level N]   - Play in this terminal
//	mathfacts serve              - Start SSH server for remote play
//	mathfacts web                - Start HTTP server for browser play
//	mathfacts levels             - List the levels
//	mathfacts history            - Show recorded runs
//	mathfacts config init        - Write the default config file
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.mathfacts, ./configs)
//	--db <path>         - Run history database (default: ~/.mathfacts/history.db)
//	--seed <value>      - RNG seed for reproducible decks
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathfacts/internal/config"
	"github.com/vovakirdan/mathfacts/internal/logging"
	"github.com/vovakirdan/mathfacts/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mathfacts",
	Short: "Math Facts - practice addition in your terminal",
	Long: `Math Facts is an addition drill. Each level deals a shuffled deck of
problems; reach 15 points to move on, drop below zero and the level starts
over. Clear level 14, the mixed deck, to win.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  web      - Start HTTP server for browser play
  levels   - List the levels
  history  - Show recorded runs
  config   - Manage the config file

Examples:
  mathfacts play
  mathfacts play --level 5
  mathfacts serve --ssh :2323
  mathfacts web --addr :8080
  mathfacts history --best`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig resolves the configuration or exits.
func loadConfig(cmd *cobra.Command, overrides ...func(*config.Config)) (config.Config, config.Source) {
	cfg, src, err := resolveConfig(cmd, overrides...)
	if err != nil {
		exitf("%v", err)
	}
	return cfg, src
}

// resolveConfig loads the configuration, applies the global flags that were
// set and then the command's own overrides, and validates the result.
func resolveConfig(cmd *cobra.Command, overrides ...func(*config.Config)) (config.Config, config.Source, error) {
	cfg, src, err := config.Load(flagConfig)
	if err != nil {
		return cfg, src, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, src, err
	}
	return cfg, src, nil
}

// newLogger builds the server logger from the config.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	logger, err := logging.New(os.Stderr, prefix, cfg.Log.Level)
	if err != nil {
		exitf("%v", err)
	}
	return logger
}

// openStore opens the run history. Play continues without history when the
// database is disabled or cannot be opened.
func openStore(cfg config.Config) *storage.Store {
	if cfg.Storage.Disable {
		return nil
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return nil
	}
	return store
}
