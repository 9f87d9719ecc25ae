package ecs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yohamta/donburi"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateSystem = errors.New("ecs: duplicate system")
	ErrUnknownSystem   = errors.New("ecs: unknown dependency")
	ErrCycle           = errors.New("ecs: dependency cycle")
)

// Key names a component type or shared resource for conflict analysis.
type Key string

// Access declares what a system reads and writes.
type Access struct {
	Reads  []Key
	Writes []Key
}

// Conflicts reports whether two systems may not run at the same time:
// either writes something the other reads or writes.
func (a Access) Conflicts(b Access) bool {
	return overlaps(a.Writes, b.Writes) || overlaps(a.Writes, b.Reads) || overlaps(b.Writes, a.Reads)
}

func overlaps(xs, ys []Key) bool {
	for _, x := range xs {
		for _, y := range ys {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Context is handed to every system call. Res is the simulation's shared
// resource struct.
type Context[R any] struct {
	World    donburi.World
	Commands *Commands
	Res      *R
}

// System is one unit of per-frame logic.
type System[R any] interface {
	Run(ctx *Context[R])
}

// SystemFunc adapts a function to System.
type SystemFunc[R any] func(ctx *Context[R])

// Run calls f(ctx).
func (f SystemFunc[R]) Run(ctx *Context[R]) { f(ctx) }

// SetupSystem is implemented by systems that need the resources before
// the first frame, e.g. to register a channel reader.
type SetupSystem[R any] interface {
	Setup(res *R)
}

// TeardownSystem is implemented by systems that hold state outside the
// scheduler, such as a channel reader, and must release it.
type TeardownSystem[R any] interface {
	Teardown(res *R)
}

type node[R any] struct {
	name   string
	sys    System[R]
	access Access
	after  []string
	stage  int
}

// Builder collects systems and their ordering constraints.
type Builder[R any] struct {
	nodes   []*node[R]
	byName  map[string]*node[R]
	workers int
}

// NewBuilder creates an empty builder.
func NewBuilder[R any]() *Builder[R] {
	return &Builder[R]{byName: make(map[string]*node[R])}
}

// With registers sys under name; it runs after every system named in after.
func (b *Builder[R]) With(name string, sys System[R], access Access, after ...string) *Builder[R] {
	n := &node[R]{name: name, sys: sys, access: access, after: after}
	b.nodes = append(b.nodes, n)
	if _, dup := b.byName[name]; !dup {
		b.byName[name] = n
	}
	return b
}

// Parallel lets non-conflicting systems of one stage run on up to workers
// goroutines. workers <= 1 keeps execution sequential.
func (b *Builder[R]) Parallel(workers int) *Builder[R] {
	b.workers = workers
	return b
}

// Build validates the graph and computes the execution stages.
func (b *Builder[R]) Build() (*Scheduler[R], error) {
	seen := make(map[string]bool, len(b.nodes))
	for _, n := range b.nodes {
		if seen[n.name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSystem, n.name)
		}
		seen[n.name] = true
		for _, dep := range n.after {
			if _, ok := b.byName[dep]; !ok {
				return nil, fmt.Errorf("%w: %q needs %q", ErrUnknownSystem, n.name, dep)
			}
		}
	}

	order, err := b.topoSort()
	if err != nil {
		return nil, err
	}

	// A system's stage is one past every dependency and every earlier
	// conflicting system, so conflicting systems keep registration order.
	var stages [][]*node[R]
	for i, n := range order {
		stage := 0
		for _, dep := range n.after {
			stage = max(stage, b.byName[dep].stage+1)
		}
		for _, prev := range order[:i] {
			if prev.access.Conflicts(n.access) {
				stage = max(stage, prev.stage+1)
			}
		}
		n.stage = stage
		for len(stages) <= stage {
			stages = append(stages, nil)
		}
		stages[stage] = append(stages[stage], n)
	}

	return &Scheduler[R]{
		stages:   stages,
		workers:  b.workers,
		commands: NewCommands(),
	}, nil
}

// topoSort orders nodes with Kahn's algorithm, preferring registration
// order among ready nodes.
func (b *Builder[R]) topoSort() ([]*node[R], error) {
	indegree := make(map[*node[R]]int, len(b.nodes))
	dependents := make(map[*node[R]][]*node[R], len(b.nodes))
	for _, n := range b.nodes {
		for _, dep := range n.after {
			d := b.byName[dep]
			indegree[n]++
			dependents[d] = append(dependents[d], n)
		}
	}

	placed := make(map[*node[R]]bool, len(b.nodes))
	order := make([]*node[R], 0, len(b.nodes))
	for len(order) < len(b.nodes) {
		progressed := false
		for _, n := range b.nodes {
			if placed[n] || indegree[n] > 0 {
				continue
			}
			placed[n] = true
			order = append(order, n)
			for _, d := range dependents[n] {
				indegree[d]--
			}
			progressed = true
			break
		}
		if !progressed {
			var stuck []string
			for _, n := range b.nodes {
				if !placed[n] {
					stuck = append(stuck, n.name)
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
		}
	}
	return order, nil
}

// Scheduler runs the systems of one frame in stage order and then applies
// the deferred commands.
type Scheduler[R any] struct {
	stages   [][]*node[R]
	workers  int
	commands *Commands
}

// Commands returns the scheduler's command buffer.
func (s *Scheduler[R]) Commands() *Commands {
	return s.commands
}

// Setup runs the Setup hook of every system that has one.
func (s *Scheduler[R]) Setup(res *R) {
	for _, stage := range s.stages {
		for _, n := range stage {
			if ss, ok := n.sys.(SetupSystem[R]); ok {
				ss.Setup(res)
			}
		}
	}
}

// Teardown runs the Teardown hook of every system that has one.
func (s *Scheduler[R]) Teardown(res *R) {
	for _, stage := range s.stages {
		for _, n := range stage {
			if ts, ok := n.sys.(TeardownSystem[R]); ok {
				ts.Teardown(res)
			}
		}
	}
}

// Dispatch runs one frame: every stage in order, then the command buffer.
func (s *Scheduler[R]) Dispatch(world donburi.World, res *R) ApplyStats {
	ctx := &Context[R]{World: world, Commands: s.commands, Res: res}
	for _, stage := range s.stages {
		if s.workers > 1 && len(stage) > 1 {
			s.runParallel(ctx, stage)
			continue
		}
		for _, n := range stage {
			n.sys.Run(ctx)
		}
	}
	return s.commands.Apply(world)
}

func (s *Scheduler[R]) runParallel(ctx *Context[R], stage []*node[R]) {
	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, n := range stage {
		g.Go(func() error {
			n.sys.Run(ctx)
			return nil
		})
	}
	//nolint:errcheck // systems do not return errors
	g.Wait()
}

// Order returns system names in execution order.
func (s *Scheduler[R]) Order() []string {
	var out []string
	for _, stage := range s.stages {
		for _, n := range stage {
			out = append(out, n.name)
		}
	}
	return out
}

// Stages returns system names grouped by stage.
func (s *Scheduler[R]) Stages() [][]string {
	out := make([][]string, len(s.stages))
	for i, stage := range s.stages {
		for _, n := range stage {
			out[i] = append(out[i], n.name)
		}
	}
	return out
}
