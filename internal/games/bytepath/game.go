// Package bytepath implements a physics-driven arena shooter on an entity
// component store. A ship steers around the arena, shoots drifting
// pickups or collects them, and everything that dies bursts into
// short-lived fragments.
package bytepath

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"

	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/core"
	"github.com/vovakirdan/bytepath/internal/ecs"
	"github.com/vovakirdan/bytepath/internal/physics"
	"github.com/vovakirdan/bytepath/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = "" // Use config default
	}
}

// SetLogger sets the logger handed to games created afterwards.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game runs one arena simulation.
type Game struct {
	mode     Mode
	fixed    *config.Settings // used instead of loading when set
	log      *log.Logger
	runtime  core.RuntimeConfig
	world    donburi.World
	res      *Resources
	sched    *ecs.Scheduler[Resources]
	paused   bool
	lastStep ecs.ApplyStats
}

// New creates a standard-mode game.
func New() *Game {
	return &Game{mode: ModeStandard, log: logger}
}

// NewClassic creates a classic-mode game.
func NewClassic() *Game {
	return &Game{mode: ModeClassic, log: logger}
}

// NewWithSettings creates a game that uses s instead of loading settings.
func NewWithSettings(mode Mode, s config.Settings, l *log.Logger) *Game {
	if l == nil {
		l = logger
	}
	return &Game{mode: mode, fixed: &s, log: l}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeClassic {
		return "bytepath_classic"
	}
	return "bytepath"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeClassic {
		return "BYTEPATH Classic"
	}
	return "BYTEPATH"
}

func (g *Game) settings() config.Settings {
	if g.fixed != nil {
		return *g.fixed
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		g.log.Warn("using default settings", "error", err)
		cfg = config.DefaultSettings()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	return cfg
}

// Reset builds a fresh world, resources and schedule and places the player.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if g.sched != nil && g.res != nil {
		g.sched.Teardown(g.res)
	}
	g.runtime = runtime
	g.paused = false
	g.lastStep = ecs.ApplyStats{}

	s := g.settings()
	diff := config.NewDifficultyManager(s.Difficulty)
	if difficultyPreset != "" && g.fixed == nil {
		diff.SetInitialLevel(config.InitialLevelForPreset(difficultyPreset))
	}

	g.world = donburi.NewWorld()
	g.res = &Resources{
		Time:       Time{Delta: runtime.FrameDelta()},
		Settings:   s,
		Spawn:      SpawnInfo{AmmoEvery: s.Spawn.AmmoEvery.D(), AmmoMax: s.Spawn.AmmoMax},
		Physics:    physics.NewSim(g.log),
		Collisions: ecs.NewChannel[physics.CollisionEvent](s.Simulation.EventRetention),
		Round:      Round{Remaining: s.Round.Duration.D()},
		Difficulty: diff,
		Rand:       rand.New(rand.NewSource(runtime.Seed)),
		Log:        g.log,
		Mode:       g.mode,
	}

	sched, err := newScheduler(s.Simulation)
	if err != nil {
		panic(fmt.Sprintf("bytepath: invalid system graph: %v", err))
	}
	g.sched = sched
	g.sched.Setup(g.res)

	SpawnPlayer(g.res)(g.world)
	g.log.Debug("round reset", "mode", g.ID(), "seed", runtime.Seed, "stages", len(sched.Stages()))
}

// Step advances the simulation by one fixed frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.res.Round.Over {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.res.Input = Input{
		Up:     in.Has(core.ActionUp),
		Down:   in.Has(core.ActionDown),
		Left:   in.Has(core.ActionLeft),
		Right:  in.Has(core.ActionRight),
		Attack: in.Has(core.ActionAttack),
	}
	g.res.Time.Frame++
	g.res.Time.Elapsed += g.res.Time.Delta

	g.lastStep = g.sched.Dispatch(g.world, g.res)

	if g.res.Round.Over {
		g.log.Info("round over",
			"mode", g.ID(),
			"score", g.res.Score.Points,
			"collected", g.res.Score.Collected,
			"destroyed", g.res.Score.Destroyed,
			"frames", g.res.Time.Frame,
		)
	}
	return core.StepResult{State: g.State()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.res == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.res.Score.Points,
		GameOver: g.res.Round.Over,
		Paused:   g.paused,
		Elapsed:  g.res.Time.Elapsed,
	}
}

// RunStats reports the round's totals.
func (g *Game) RunStats() core.RunStats {
	if g.res == nil {
		return core.RunStats{}
	}
	return core.RunStats{
		Score:     g.res.Score.Points,
		Collected: g.res.Score.Collected,
		Destroyed: g.res.Score.Destroyed,
		Frames:    g.res.Time.Frame,
		Elapsed:   g.res.Time.Elapsed,
	}
}

// FrameStats describes the last frame's structural changes and world size.
// Dropped counts every event retention discarded; Lost and Pending are the
// collision reader's own view of the channel.
type FrameStats struct {
	Applied     ecs.ApplyStats
	Entities    int
	Bodies      int
	Pickups     int
	Dropped     uint64
	Lost        uint64
	Pending     int
	PlayerSpeed float64
}

// FrameStats returns bookkeeping for the last frame.
func (g *Game) FrameStats() FrameStats {
	if g.res == nil {
		return FrameStats{}
	}
	return FrameStats{
		Applied:     g.lastStep,
		Entities:    g.world.Len(),
		Bodies:      g.res.Physics.Len(),
		Pickups:     g.res.Spawn.AmmoCount,
		Dropped:     g.res.Collisions.Dropped(),
		Lost:        g.res.Collisions.Lost(g.res.CollisionReader),
		Pending:     g.res.Collisions.Pending(g.res.CollisionReader),
		PlayerSpeed: g.playerSpeed(),
	}
}

// playerSpeed returns the ship's body speed, or 0 once it is gone.
func (g *Game) playerSpeed() float64 {
	entry, ok := controllableQuery.First(g.world)
	if !ok {
		return 0
	}
	vx, vy, err := g.res.Physics.Velocity(RigidBody.Get(entry).Handle)
	if err != nil {
		return 0
	}
	return math.Hypot(vx, vy)
}

// Remaining returns the time left in the round.
func (g *Game) Remaining() time.Duration {
	if g.res == nil {
		return 0
	}
	return g.res.Round.Remaining
}

// Register the game modes with the registry
func init() {
	registry.Register("bytepath", func() registry.Game {
		return New()
	})
	registry.Register("bytepath_classic", func() registry.Game {
		return NewClassic()
	})
}
