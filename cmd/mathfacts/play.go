package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mathfacts/internal/drill"
	"github.com/vovakirdan/mathfacts/internal/logging"
	"github.com/vovakirdan/mathfacts/internal/platform/tui"
	"github.com/vovakirdan/mathfacts/internal/storage"
)

var (
	flagLevel  int
	flagPlayer string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a drill in this terminal.

Without --level you pick a level from the list first. After a win, Esc or
Enter returns to the list with a fresh game.

Controls:
  Up/Down/j/k  - Move in the level list
  1-9, 0       - Jump to level 1-10
  Enter        - Start level / submit answer
  Tab          - Run history (from the level list)
  Esc          - Back to the level list
  Ctrl+C       - Quit (Q on the menus)

Examples:
  mathfacts play
  mathfacts play --level 14
  mathfacts play --seed 42`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start directly at this level (1-14)")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name recorded in the run history")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if flagLevel != 0 && !drill.ValidLevel(flagLevel) {
		exitf("level must be between %d and %d", drill.MinLevel, drill.MaxLevel)
	}

	cfg, _ := loadConfig(cmd)

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	player := cfg.Display.Player
	if flagPlayer != "" {
		player = flagPlayer
	}
	if player == "" {
		player = os.Getenv("USER")
	}

	// Open run history; the drill still works without it
	store := openStore(cfg)

	// Nothing may write to the terminal while the alt screen is up
	rec := tui.NewRecorder(store, logging.Discard(), player, storage.FrontendTerminal)

	runErr := tui.Run(tui.SessionOptions{
		Store:    store,
		Recorder: rec,
		Display:  cfg.Display,
		Seed:     flagSeed,
		Level:    flagLevel,
		Width:    width,
		Height:   height,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		exitf("running drill: %v", runErr)
	}
}
