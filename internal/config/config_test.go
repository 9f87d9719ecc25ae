package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	def := DefaultSettings()

	if cfg.Arena != def.Arena {
		t.Errorf("arena = %+v, expected %+v", cfg.Arena, def.Arena)
	}
	if cfg.Spawn != def.Spawn {
		t.Errorf("spawn = %+v, expected %+v", cfg.Spawn, def.Spawn)
	}
	if cfg.Player != def.Player {
		t.Errorf("player = %+v, expected %+v", cfg.Player, def.Player)
	}
	if cfg.Explosion != def.Explosion {
		t.Errorf("explosion = %+v, expected %+v", cfg.Explosion, def.Explosion)
	}
	if cfg.Difficulty != def.Difficulty {
		t.Errorf("difficulty = %+v, expected %+v", cfg.Difficulty, def.Difficulty)
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "spawn:\n  ammo_every: 2s\n  ammo_max: 7\nplayer:\n  bounds_policy: kill\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Spawn.AmmoEvery.D() != 2*time.Second {
		t.Errorf("ammo_every = %v, expected 2s", cfg.Spawn.AmmoEvery.D())
	}
	if cfg.Spawn.AmmoMax != 7 {
		t.Errorf("ammo_max = %d, expected 7", cfg.Spawn.AmmoMax)
	}
	if cfg.Player.BoundsPolicy != "kill" {
		t.Errorf("bounds_policy = %q, expected kill", cfg.Player.BoundsPolicy)
	}
	// Untouched keys keep their defaults
	if cfg.Arena.Width != 800 {
		t.Errorf("arena width = %g, expected default 800", cfg.Arena.Width)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() with missing custom path should fail")
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad duration", "spawn:\n  ammo_every: soon\n"},
		{"negative cap", "spawn:\n  ammo_max: -1\n"},
		{"unknown policy", "player:\n  bounds_policy: bounce\n"},
		{"zero arena", "arena:\n  width: 0\n"},
		{"inverted fragments", "explosion:\n  min_fragments: 9\n  max_fragments: 3\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Errorf("Parse(%q) should fail", tc.yaml)
			}
		})
	}
}

func TestParseBoundsPolicy(t *testing.T) {
	tests := []struct {
		in       string
		expected BoundsPolicy
		wantErr  bool
	}{
		{"kill", BoundsKill, false},
		{"clamp", BoundsClamp, false},
		{"", BoundsClamp, false},
		{"wrap", BoundsKill, true},
	}

	for _, tc := range tests {
		got, err := ParseBoundsPolicy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseBoundsPolicy(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.expected {
			t.Errorf("ParseBoundsPolicy(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultSettings()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultSettings()
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard initial level = %f, expected 0.7", cfg.Difficulty.InitialLevel)
	}
	if cfg.Player.BoundsPolicy != "kill" {
		t.Errorf("hard preset should kill on exit, got %q", cfg.Player.BoundsPolicy)
	}

	cfg = DefaultSettings()
	ApplyPreset(&cfg, DifficultyEasy)
	if cfg.Spawn.AmmoMax != DefaultSettings().Spawn.AmmoMax+2 {
		t.Errorf("easy ammo_max = %d", cfg.Spawn.AmmoMax)
	}
}

func TestDifficultyProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpawnReduction: 0.5},
	})

	tests := []struct {
		score int
		level float64
	}{
		{0, 0},
		{50, 0.5},
		{100, 1},
		{1000, 1},
	}
	for _, tt := range tests {
		if got := d.Level(tt.score, 0); got != tt.level {
			t.Errorf("Level(%d) = %f, expected %f", tt.score, got, tt.level)
		}
	}

	got := d.Tune(time.Second, 100, 0)
	if got.Every != 500*time.Millisecond {
		t.Errorf("Tune().Every at max = %v, expected 500ms", got.Every)
	}
	if got.Level != 1 {
		t.Errorf("Tune().Level at max = %f, expected 1", got.Level)
	}
	if got := d.Tune(10*time.Millisecond, 0, 0); got.Every != minSpawnInterval {
		t.Errorf("Tune().Every should floor at %v, got %v", minSpawnInterval, got.Every)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 600},
	})
	if got := d.Level(0, 300); got != 0.75 {
		t.Errorf("Level at half time = %f, expected 0.75", got)
	}
	if got := d.Level(0, 6000); got != 1 {
		t.Errorf("Level past max_at = %f, expected 1", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.3,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
		Scaling:      ScalingConfig{SpawnReduction: 0.5},
	})
	if d.IsEnabled() {
		t.Error("IsEnabled() = true for a disabled config")
	}
	if d.Level(999, 999) != 0.3 {
		t.Errorf("disabled Level = %f, expected initial 0.3", d.Level(999, 999))
	}
	// Level stays at 0.3, so the cadence is cut by 0.3*0.5
	if got := d.Tune(time.Second, 999, 0); got.Every != 850*time.Millisecond {
		t.Errorf("disabled Tune().Every = %v, expected 850ms", got.Every)
	}
}
