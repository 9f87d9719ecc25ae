package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bytepath/internal/registry"
	"github.com/vovakirdan/bytepath/internal/storage"
)

var (
	flagRuns  int
	flagAll   bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores and run history",
	Long: `Display the top 10 high scores, aggregate run statistics and the
most recent runs for the given mode (default: bytepath).

Examples:
  bytepath scores
  bytepath scores bytepath_classic --runs 5
  bytepath scores --all
  bytepath scores bytepath_classic --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRuns, "runs", 10, "Number of recent runs to show")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "List every stored score instead of the top 10")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores and runs for the mode")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := defaultMode
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'bytepath list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		logger.Info("scores cleared", "game", gameID)
		fmt.Printf("Cleared scores and runs for %s\n", game.Title())
		return
	}

	if err := printScores(store, gameID, game.Title()); err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
}

func printScores(store *storage.Store, gameID, title string) error {
	var scores []storage.ScoreEntry
	var err error
	if flagAll {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bytepath play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Best: %d  Average: %.1f\n", stats.Runs, stats.HighScore, stats.AvgScore)
	fmt.Printf("Pickups: %d  Hits: %d  Played: %s\n",
		stats.TotalCollected, stats.TotalDestroyed, stats.TimePlayed.Round(time.Second))

	if flagRuns <= 0 || stats.Runs == 0 {
		return nil
	}
	runs, err := store.RecentRuns(gameID, flagRuns)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-8s  %-7s  %-5s  %-8s  %-20s  %s\n", "Score", "Pickups", "Hits", "Time", "Seed", "Date")
	for _, r := range runs {
		fmt.Printf("  %-8d  %-7d  %-5d  %-8s  %-20d  %s\n",
			r.Score, r.Collected, r.Destroyed, r.Duration.Round(time.Second), r.Seed,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
