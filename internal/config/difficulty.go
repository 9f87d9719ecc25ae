package config

import (
	"math"
	"time"
)

// minSpawnInterval keeps the spawn system from firing every frame.
const minSpawnInterval = 50 * time.Millisecond

// SpawnTuning is the pickup pacing in effect for one frame.
type SpawnTuning struct {
	Level float64       // 0.0 = easiest, 1.0 = hardest
	Every time.Duration // time between pickups
}

// DifficultyManager derives spawn pacing from the score or the frame count.
// With progression disabled the level stays at the initial level.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clamp01(cfg.InitialLevel),
	}
}

// SetInitialLevel overrides the level the round starts at.
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clamp01(level)
}

// IsEnabled reports whether the level rises during a round.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty for the given score and frame.
func (d *DifficultyManager) Level(score int, frame uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(max(d.cfg.Progression.MaxAt, 1))
	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(frame) / maxAt
	default:
		return d.initialLevel
	}

	return d.initialLevel + clamp01(progress)*(1-d.initialLevel)
}

// Tune shortens the configured cadence by up to SpawnReduction as the
// level rises. The live-pickup cap is not a difficulty parameter.
func (d *DifficultyManager) Tune(every time.Duration, score int, frame uint64) SpawnTuning {
	level := d.Level(score, frame)
	cut := clamp01(level * d.cfg.Scaling.SpawnReduction)
	return SpawnTuning{
		Level: level,
		Every: max(time.Duration(float64(every)*(1-cut)), minSpawnInterval),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
