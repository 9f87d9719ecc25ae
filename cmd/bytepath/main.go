// bytepath is a terminal arena shooter built on an entity component store
// and a rigid-body physics world.
//
// Usage:
//
//	bytepath list              - List available modes
//	bytepath play [mode]       - Play a round (default: bytepath)
//	bytepath menu              - Start menu to pick modes interactively
//	bytepath serve             - Start SSH server for remote play
//	bytepath scores [mode]     - Show high scores and run stats
//	bytepath sim               - Run a headless round with scripted input
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.bytepath/scores.db)
//	--log <path>         - Write logs to a file
//	--log-level <level>  - debug, info, warn or error
//	--config <path>      - Custom settings YAML
//	--difficulty <name>  - easy, normal, hard or fixed
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bytepath/internal/games/bytepath"
)

const defaultMode = "bytepath"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLogPath    string
	flagLogLevel   string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bytepath",
	Short: "BYTEPATH - an arena shooter in your terminal",
	Long: `BYTEPATH is a terminal arena shooter. Steer your ship, shoot the
drifting pickups or fly into them, and keep your score up until the
round timer runs out.

Available commands:
  list     - Show all available modes
  play     - Play a round directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores and run history
  sim      - Run a headless round and print statistics

Examples:
  bytepath play
  bytepath play bytepath_classic --difficulty hard
  bytepath menu --log ./bytepath.log
  bytepath serve --ssh :2222
  bytepath sim --frames 3600 --seed 42`,
	PersistentPreRunE: setupGame,
	SilenceUsage:      true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.bytepath/scores.db", "Path to scores database")
	pf.StringVar(&flagLogPath, "log", "", "Write logs to this file")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagConfig, "config", "", "Path to custom settings YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// logger is shared by every command once setupGame has run.
var logger = log.New(io.Discard)

// setupGame configures logging and hands the settings flags to the game
// package before any game instance is created.
func setupGame(cmd *cobra.Command, _ []string) error {
	l, err := newLogger(cmd)
	if err != nil {
		return err
	}
	logger = l

	bytepath.SetConfigPath(flagConfig)
	bytepath.SetDifficultyPreset(flagDifficulty)
	bytepath.SetLogger(logger)
	return nil
}

// newLogger builds the process logger. Interactive commands log to a file
// or nowhere so the terminal frame stays intact; sim and serve default
// to stderr.
func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	var out io.Writer = io.Discard
	switch {
	case flagLogPath != "":
		if err := os.MkdirAll(filepath.Dir(flagLogPath), 0o755); err != nil {
			return nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
	case cmd == simCmd || cmd == serveCmd:
		out = os.Stderr
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}
