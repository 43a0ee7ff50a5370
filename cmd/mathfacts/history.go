package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mathfacts/internal/platform/tui"
	"github.com/vovakirdan/mathfacts/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryBest  bool
	flagHistoryClear bool
	flagHistoryTUI   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `Display recorded runs with totals.

Runs are recorded when a game is won, when the player leaves a game, and
when an SSH or browser session ends. Games without a single answer are
not recorded.

Examples:
  mathfacts history
  mathfacts history --limit 50
  mathfacts history --best
  mathfacts history --tui
  mathfacts history --clear`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryBest, "best", false, "Order by best runs instead of most recent")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded runs")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse runs in an interactive table")
}

func runHistory(cmd *cobra.Command, _ []string) {
	cfg, _ := loadConfig(cmd)
	if cfg.Storage.Disable {
		fmt.Println("History is turned off (storage.disable).")
		return
	}

	// Open run storage
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		exitf("opening history database: %v", err)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearRuns(); err != nil {
			exitf("%v", err)
		}
		fmt.Println("History cleared.")
		return
	}

	if flagHistoryTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			exitf("%v", err)
		}
		return
	}

	var runs []storage.RunRecord
	if flagHistoryBest {
		runs, err = store.BestRuns(flagHistoryLimit)
	} else {
		runs, err = store.RecentRuns(flagHistoryLimit)
	}
	if err != nil {
		exitf("retrieving runs: %v", err)
	}

	if flagHistoryBest {
		fmt.Println("Best Runs")
	} else {
		fmt.Println("Recent Runs")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mathfacts play' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-7s  %-3s  %5s  %5s  %4s  %8s  %s\n",
		"#", "Player", "Via", "Levels", "Won", "Right", "Wrong", "Acc", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-7s  %-3s  %5s  %5s  %4s  %8s  %s\n",
		"-", "------", "---", "------", "---", "-----", "-----", "---", "----", "----")

	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		won := ""
		if r.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-12.12s  %-8s  %-7s  %-3s  %5d  %5d  %3.0f%%  %8s  %s\n",
			i+1,
			player,
			r.Frontend,
			fmt.Sprintf("%d-%d", r.StartLevel, r.FinalLevel),
			won,
			r.Correct,
			r.Incorrect,
			r.Accuracy()*100,
			(time.Duration(r.DurationSecs) * time.Second).String(),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	printTotals(os.Stdout, os.Stderr, store)
}

type totalsSource interface {
	Totals() (storage.Totals, error)
}

// printTotals writes the summary line under the runs table. A failed query
// is reported on errW and the summary is left out.
func printTotals(w, errW io.Writer, src totalsSource) {
	totals, err := src.Totals()
	if err != nil {
		fmt.Fprintf(errW, "Warning: could not load totals: %v\n", err)
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Runs: %d  Wins: %d  Highest level: %d\n", totals.Runs, totals.Wins, totals.HighestLevel)
	if !totals.LastPlayed.IsZero() {
		fmt.Fprintf(w, "Last played: %s\n", totals.LastPlayed.Format("2006-01-02 15:04"))
	}
}
