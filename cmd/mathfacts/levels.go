package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathfacts/internal/drill"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the levels",
	Long:  `Shows every level with the size of its deck.`,
	Run:   runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	fmt.Println("Levels:")
	fmt.Println()

	// Print header
	fmt.Printf("  %-5s  %-12s  %s\n", "Level", "Name", "Problems")
	fmt.Printf("  %-5s  %-12s  %s\n", "-----", "----", "--------")

	for _, lvl := range drill.Levels {
		fmt.Printf("  %-5d  %-12s  %d\n", lvl.ID, lvl.Name, drill.DeckSize(lvl.ID))
	}

	fmt.Println()
	fmt.Printf("Score %d points to clear a level.\n", drill.TargetScore)
	fmt.Println("Run 'mathfacts play --level <n>' to start at a level.")
}
