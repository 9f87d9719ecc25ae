package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/bytepath/internal/core"
	"github.com/vovakirdan/bytepath/internal/games/bytepath"
	"github.com/vovakirdan/bytepath/internal/registry"
)

var (
	flagSimFrames int
	flagSimRuns   int
	flagSimEvery  int
	flagSimRecord bool
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Run headless rounds with scripted input",
	Long: `Run the simulation without a terminal front end. A seeded pilot
steers, boosts and fires; each round runs until its timer ends or the
frame limit is reached. Frame statistics are logged every --every frames
and a summary line is printed per round.

Several rounds run concurrently with --runs; round i uses seed+i.

Examples:
  bytepath sim --seed 42
  bytepath sim bytepath_classic --frames 7200 --every 600 --log-level debug
  bytepath sim --runs 8 --record`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimFrames, "frames", 3600, "Frame limit per round")
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of rounds to run concurrently")
	simCmd.Flags().IntVar(&flagSimEvery, "every", 0, "Log frame statistics every N frames (0 = off)")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Store results in the scores database")
}

// simResult is the outcome of one headless round.
type simResult struct {
	seed  int64
	stats core.RunStats
}

func runSim(cmd *cobra.Command, args []string) {
	gameID := defaultMode
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		os.Exit(1)
	}
	if flagSimRuns < 1 || flagSimFrames < 1 {
		fmt.Fprintln(os.Stderr, "Error: --runs and --frames must be positive")
		os.Exit(1)
	}

	baseSeed := flagSeed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	results := make([]simResult, flagSimRuns)
	g, ctx := errgroup.WithContext(cmd.Context())
	for i := range results {
		seed := baseSeed + int64(i)
		g.Go(func() error {
			stats, err := simulate(ctx, gameID, seed, logger.With("run", i, "seed", seed))
			if err != nil {
				return err
			}
			results[i] = simResult{seed: seed, stats: stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("seed=%d score=%d collected=%d destroyed=%d frames=%d elapsed=%s\n",
			r.seed, r.stats.Score, r.stats.Collected, r.stats.Destroyed, r.stats.Frames, r.stats.Elapsed)
	}

	if flagSimRecord {
		recordSims(gameID, results)
	}
}

// recordSims stores every result; failures are reported and skipped.
func recordSims(gameID string, results []simResult) {
	store := openStore()
	if store == nil {
		return
	}
	defer store.Close()

	for _, r := range results {
		if r.stats.Score > 0 {
			if _, err := store.SaveScore(gameID, r.stats.Score); err != nil {
				logger.Warn("could not save score", "seed", r.seed, "error", err)
			}
		}
		if _, err := store.RecordRun(gameID, r.seed, r.stats); err != nil {
			logger.Warn("could not record run", "seed", r.seed, "error", err)
		}
	}
}

// simulate runs one round to completion with a scripted pilot.
func simulate(ctx context.Context, gameID string, seed int64, l *log.Logger) (core.RunStats, error) {
	created, err := registry.Create(gameID)
	if err != nil {
		return core.RunStats{}, err
	}
	game, ok := created.(*bytepath.Game)
	if !ok {
		return core.RunStats{}, fmt.Errorf("mode %q cannot run headless", gameID)
	}

	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed})
	pilot := newPilot(seed)

	for frame := 1; frame <= flagSimFrames; frame++ {
		if frame%256 == 0 {
			if err := ctx.Err(); err != nil {
				return game.RunStats(), err
			}
		}

		res := game.Step(pilot.next())
		if flagSimEvery > 0 && frame%flagSimEvery == 0 {
			fs := game.FrameStats()
			l.Info("frame",
				"frame", frame,
				"score", res.State.Score,
				"entities", fs.Entities,
				"bodies", fs.Bodies,
				"pickups", fs.Pickups,
				"spawned", fs.Applied.Spawned,
				"destroyed", fs.Applied.Destroyed,
				"dropped_events", fs.Dropped,
				"lost_events", fs.Lost,
				"pending_events", fs.Pending,
				"player_speed", fs.PlayerSpeed,
			)
		}
		if res.State.GameOver {
			break
		}
	}

	stats := game.RunStats()
	l.Debug("round finished", "score", stats.Score, "frames", stats.Frames)
	return stats, nil
}

// pilot produces deterministic scripted input. It holds an intent for a
// random number of frames and then picks a new one.
type pilot struct {
	rng   *rand.Rand
	left  int
	steer core.Action
	boost core.Action
	fire  bool
}

func newPilot(seed int64) *pilot {
	return &pilot{rng: rand.New(rand.NewSource(seed))}
}

func (p *pilot) next() core.InputFrame {
	if p.left <= 0 {
		p.left = 20 + p.rng.Intn(60)
		p.steer = []core.Action{core.ActionNone, core.ActionLeft, core.ActionRight}[p.rng.Intn(3)]
		p.boost = []core.Action{core.ActionNone, core.ActionNone, core.ActionUp, core.ActionDown}[p.rng.Intn(4)]
		p.fire = p.rng.Intn(3) > 0
	}
	p.left--

	frame := core.NewInputFrame()
	if p.steer != core.ActionNone {
		frame.Set(p.steer)
	}
	if p.boost != core.ActionNone {
		frame.Set(p.boost)
	}
	if p.fire {
		frame.Set(core.ActionAttack)
	}
	return frame
}
