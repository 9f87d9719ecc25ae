package bytepath

import (
	"github.com/vovakirdan/bytepath/internal/config"
	"github.com/vovakirdan/bytepath/internal/ecs"
)

func keys(k ...ecs.Key) []ecs.Key { return k }

// newScheduler wires the frame: steering, physics, sync, then everything
// that reacts to the new positions, and finally garbage collection.
func newScheduler(sim config.SimulationConfig) (*ecs.Scheduler[Resources], error) {
	b := ecs.NewBuilder[Resources]().
		With("controllable", ControllableSystem{}, ecs.Access{
			Reads:  keys(KeyInput, KeySettings, KeyControllable, KeyRigidBody),
			Writes: keys(KeyPhysics, KeyRand, KeyCommands),
		}).
		With("physics", PhysicsSystem{}, ecs.Access{
			Reads:  keys(KeyTime),
			Writes: keys(KeyPhysics, KeyCollisions),
		}, "controllable").
		With("position", PositionSystem{}, ecs.Access{
			Reads:  keys(KeyRigidBody, KeyPhysics),
			Writes: keys(KeyPosition),
		}, "physics").
		With("bounds", BoundsSystem{}, ecs.Access{
			Reads:  keys(KeyBounds, KeyExplode, KeyRigidBody, KeySettings),
			Writes: keys(KeyPosition, KeyPhysics, KeyGarbage, KeyCommands),
		}, "position").
		With("shooting", ShootingSystem{}, ecs.Access{
			Reads:  keys(KeyPosition, KeyTime, KeySettings),
			Writes: keys(KeyShooting, KeyCommands),
		}, "position").
		With("spawn", SpawnSystem{}, ecs.Access{
			Reads:  keys(KeyTime, KeySettings, KeyScore),
			Writes: keys(KeySpawn, KeyRand, KeyCommands),
		}).
		With("collision", &CollisionSystem{}, ecs.Access{
			Reads:  keys(KeySettings, KeyPickup),
			Writes: keys(KeyCollisions, KeyGarbage, KeyScore, KeyRand, KeyCommands),
		}, "physics").
		With("lifetime", LifetimeSystem{}, ecs.Access{
			Reads:  keys(KeyTime),
			Writes: keys(KeyLifetime, KeyGarbage),
		}).
		With("tween", TweenSystem{}, ecs.Access{
			Reads:  keys(KeyTime),
			Writes: keys(KeyTween, KeyMesh),
		}).
		With("garbage", GarbageSystem{}, ecs.Access{
			Reads:  keys(KeyGarbage, KeyRigidBody, KeyPickup, KeyControllable),
			Writes: keys(KeyPhysics, KeySpawn, KeyRound, KeyCommands),
		}, "bounds", "lifetime", "collision").
		With("round", RoundSystem{}, ecs.Access{
			Reads:  keys(KeyTime, KeySettings),
			Writes: keys(KeyRound),
		}, "garbage")

	if sim.Parallel {
		b.Parallel(sim.Workers)
	}
	return b.Build()
}
