package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/bytepath.yaml
var defaultSettingsYAML []byte

// DefaultSettings returns the hard-coded settings, mirroring the embedded YAML.
func DefaultSettings() Settings {
	return Settings{
		Arena: ArenaConfig{
			Width:  800,
			Height: 600,
			Scale:  1,
		},
		Spawn: SpawnConfig{
			AmmoEvery: Duration(750 * time.Millisecond),
			AmmoMax:   4,
		},
		Player: PlayerConfig{
			Radius:        10,
			Speed:         250,
			Boost:         1.5,
			Slow:          0.5,
			TurnRate:      0.05,
			ShootInterval: Duration(250 * time.Millisecond),
			BoundsPolicy:  "clamp",
		},
		Projectile: ProjectileConfig{
			Radius:   2.5,
			Speed:    500,
			Lifetime: Duration(2 * time.Second),
		},
		Ammo: AmmoConfig{
			Radius:   8,
			MinSpeed: 40,
			MaxSpeed: 90,
			Spin:     2,
			Lifetime: Duration(12 * time.Second),
			Margin:   40,
		},
		Explosion: ExplosionConfig{
			MinFragments:   4,
			MaxFragments:   20,
			MinSpeed:       80,
			MaxSpeed:       240,
			MinLifetime:    Duration(200 * time.Millisecond),
			MaxLifetime:    Duration(700 * time.Millisecond),
			BoundsLifetime: Duration(250 * time.Millisecond),
		},
		Round: RoundConfig{
			Duration: Duration(90 * time.Second),
		},
		Scoring: ScoringConfig{
			Pickup:  10,
			Destroy: 25,
		},
		Simulation: SimulationConfig{
			Parallel:       false,
			Workers:        4,
			EventRetention: 1024,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpawnReduction: 0.5,
			},
		},
	}
}

// DefaultYAML returns the embedded default settings file.
func DefaultYAML() []byte {
	return defaultSettingsYAML
}
