package bytepath

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/ecs"
	"github.com/vovakirdan/bytepath/internal/physics"
)

// Mode selects the ruleset.
type Mode uint8

const (
	// ModeStandard gives the player an auto-firing gun.
	ModeStandard Mode = iota
	// ModeClassic has no gun; holding attack bursts fragments around the ship.
	ModeClassic
)

// Time is the simulation clock.
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Frame   uint64
}

// Input is the held-control snapshot for one frame.
type Input struct {
	Up, Down    bool
	Left, Right bool
	Attack      bool
}

// SpawnInfo tracks pickup cadence and how many pickups are live.
type SpawnInfo struct {
	AmmoLast  time.Duration
	AmmoEvery time.Duration
	AmmoCount int
	AmmoMax   int
}

// Score accumulates collision rewards.
type Score struct {
	Points    int
	Collected int
	Destroyed int
}

// Round tracks the end condition.
type Round struct {
	Remaining  time.Duration
	PlayerDown bool
	Over       bool
}

// Resources is the per-simulation shared state handed to every system.
type Resources struct {
	Time       Time
	Input      Input
	Settings   config.Settings
	Spawn      SpawnInfo
	Physics    *physics.Sim
	Collisions *ecs.Channel[physics.CollisionEvent]
	// CollisionReader is the collision system's cursor on Collisions.
	CollisionReader ecs.ReaderID
	Score           Score
	Round           Round
	Difficulty      *config.DifficultyManager
	Rand            *rand.Rand
	Log             *log.Logger
	Mode            Mode
}

// Access keys for scheduler conflict analysis.
const (
	KeyPosition     ecs.Key = "position"
	KeyRigidBody    ecs.Key = "rigidbody"
	KeyBounds       ecs.Key = "bounds"
	KeyExplode      ecs.Key = "explode"
	KeyControllable ecs.Key = "controllable"
	KeyShooting     ecs.Key = "shooting"
	KeyLifetime     ecs.Key = "lifetime"
	KeyTween        ecs.Key = "tween"
	KeyGarbage      ecs.Key = "garbage"
	KeyMesh         ecs.Key = "mesh"
	KeyPickup       ecs.Key = "pickup"

	KeyTime       ecs.Key = "time"
	KeyInput      ecs.Key = "input"
	KeySettings   ecs.Key = "settings"
	KeySpawn      ecs.Key = "spawn"
	KeyPhysics    ecs.Key = "physics"
	KeyCollisions ecs.Key = "collisions"
	KeyScore      ecs.Key = "score"
	KeyRound      ecs.Key = "round"
	KeyRand       ecs.Key = "rand"
	KeyCommands   ecs.Key = "commands"
)

// Context is the per-frame system context.
type Context = ecs.Context[Resources]
