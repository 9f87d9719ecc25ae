// Package config provides YAML-based settings loading and difficulty
// management for the shooter.
package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the immutable-per-frame configuration snapshot read by the
// simulation systems.
type Settings struct {
	Arena      ArenaConfig      `yaml:"arena"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Player     PlayerConfig     `yaml:"player"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Ammo       AmmoConfig       `yaml:"ammo"`
	Explosion  ExplosionConfig  `yaml:"explosion"`
	Round      RoundConfig      `yaml:"round"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Simulation SimulationConfig `yaml:"simulation"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// ArenaConfig defines the playfield in world units.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// SpawnConfig defines pickup spawn cadence.
type SpawnConfig struct {
	AmmoEvery Duration `yaml:"ammo_every"`
	AmmoMax   int      `yaml:"ammo_max"`
}

// PlayerConfig defines the controllable ship.
type PlayerConfig struct {
	Radius        float64  `yaml:"radius"`
	Speed         float64  `yaml:"speed"`     // units per second
	Boost         float64  `yaml:"boost"`     // speed multiplier while Up is held
	Slow          float64  `yaml:"slow"`      // speed multiplier while Down is held
	TurnRate      float64  `yaml:"turn_rate"` // radians per frame
	ShootInterval Duration `yaml:"shoot_interval"`
	BoundsPolicy  string   `yaml:"bounds_policy"` // "clamp" or "kill"
}

// ProjectileConfig defines player projectiles.
type ProjectileConfig struct {
	Radius   float64  `yaml:"radius"`
	Speed    float64  `yaml:"speed"`
	Lifetime Duration `yaml:"lifetime"`
}

// AmmoConfig defines ammo pickups.
type AmmoConfig struct {
	Radius   float64  `yaml:"radius"`
	MinSpeed float64  `yaml:"min_speed"`
	MaxSpeed float64  `yaml:"max_speed"`
	Spin     float64  `yaml:"spin"` // max angular velocity, radians per second
	Lifetime Duration `yaml:"lifetime"`
	Margin   float64  `yaml:"margin"` // how far outside the arena a pickup may drift
}

// ExplosionConfig defines death and bounds-exit effects.
type ExplosionConfig struct {
	MinFragments   int      `yaml:"min_fragments"`
	MaxFragments   int      `yaml:"max_fragments"`
	MinSpeed       float64  `yaml:"min_speed"`
	MaxSpeed       float64  `yaml:"max_speed"`
	MinLifetime    Duration `yaml:"min_lifetime"`
	MaxLifetime    Duration `yaml:"max_lifetime"`
	BoundsLifetime Duration `yaml:"bounds_lifetime"`
}

// RoundConfig defines how long a round lasts.
type RoundConfig struct {
	Duration Duration `yaml:"duration"`
}

// ScoringConfig defines points awarded per collision reaction.
type ScoringConfig struct {
	Pickup  int `yaml:"pickup"`
	Destroy int `yaml:"destroy"`
}

// SimulationConfig tunes the scheduler and event channel.
type SimulationConfig struct {
	Parallel       bool `yaml:"parallel"`
	Workers        int  `yaml:"workers"`
	EventRetention int  `yaml:"event_retention"` // 0 = unbounded
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes. Difficulty
// only shortens the pickup cadence; spawn.ammo_max is a hard cap.
type ScalingConfig struct {
	SpawnReduction float64 `yaml:"spawn_reduction"` // fraction of ammo_every removed at max difficulty
}

// Duration is a time.Duration that reads and writes YAML strings like "250ms".
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Validate reports every setting that would break the simulation.
func (s Settings) Validate() error {
	var errs []error
	if s.Arena.Width <= 0 || s.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena: size must be positive, got %gx%g", s.Arena.Width, s.Arena.Height))
	}
	if s.Spawn.AmmoMax < 0 {
		errs = append(errs, fmt.Errorf("spawn: ammo_max must not be negative, got %d", s.Spawn.AmmoMax))
	}
	if s.Spawn.AmmoEvery <= 0 {
		errs = append(errs, errors.New("spawn: ammo_every must be positive"))
	}
	if s.Player.Radius <= 0 {
		errs = append(errs, errors.New("player: radius must be positive"))
	}
	if _, err := ParseBoundsPolicy(s.Player.BoundsPolicy); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if s.Ammo.MinSpeed > s.Ammo.MaxSpeed {
		errs = append(errs, errors.New("ammo: min_speed exceeds max_speed"))
	}
	if s.Explosion.MinFragments > s.Explosion.MaxFragments || s.Explosion.MinFragments < 0 {
		errs = append(errs, errors.New("explosion: invalid fragment range"))
	}
	if s.Explosion.MinLifetime > s.Explosion.MaxLifetime {
		errs = append(errs, errors.New("explosion: min_lifetime exceeds max_lifetime"))
	}
	if s.Simulation.EventRetention < 0 {
		errs = append(errs, errors.New("simulation: event_retention must not be negative"))
	}
	return errors.Join(errs...)
}

// BoundsPolicy selects what happens when an entity leaves its bounds.
type BoundsPolicy int

const (
	BoundsKill  BoundsPolicy = iota // mark dead on exit
	BoundsClamp                     // hold inside the rectangle
)

// String returns the YAML spelling of the policy.
func (p BoundsPolicy) String() string {
	switch p {
	case BoundsClamp:
		return "clamp"
	default:
		return "kill"
	}
}

// ParseBoundsPolicy parses "kill" or "clamp". An empty string means clamp.
func ParseBoundsPolicy(s string) (BoundsPolicy, error) {
	switch s {
	case "kill":
		return BoundsKill, nil
	case "clamp", "":
		return BoundsClamp, nil
	default:
		return BoundsKill, fmt.Errorf("unknown bounds policy %q", s)
	}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
