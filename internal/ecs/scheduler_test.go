package ecs

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/yohamta/donburi"
)

type testRes struct {
	mu       sync.Mutex
	trace    []string
	setup    []string
	teardown []string
}

func (r *testRes) log(name string) {
	r.mu.Lock()
	r.trace = append(r.trace, name)
	r.mu.Unlock()
}

func traceSystem(name string) SystemFunc[testRes] {
	return func(ctx *Context[testRes]) { ctx.Res.log(name) }
}

type setupSystem struct{ name string }

func (s setupSystem) Setup(res *testRes)        { res.setup = append(res.setup, s.name) }
func (s setupSystem) Run(ctx *Context[testRes]) { ctx.Res.log(s.name) }
func (s setupSystem) Teardown(res *testRes)     { res.teardown = append(res.teardown, s.name) }

func TestSchedulerDependencyOrder(t *testing.T) {
	s, err := NewBuilder[testRes]().
		With("position", traceSystem("position"), Access{Writes: []Key{"position"}}, "physics").
		With("physics", traceSystem("physics"), Access{Writes: []Key{"physics"}}, "input").
		With("input", traceSystem("input"), Access{Writes: []Key{"velocity"}}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"input", "physics", "position"}
	if got := s.Order(); !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}

	res := &testRes{}
	s.Dispatch(donburi.NewWorld(), res)
	if !slices.Equal(res.trace, want) {
		t.Errorf("run trace = %v, want %v", res.trace, want)
	}
}

func TestSchedulerStages(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder[testRes]
		want  [][]string
	}{
		{
			name: "independent systems share a stage",
			build: func() *Builder[testRes] {
				return NewBuilder[testRes]().
					With("a", traceSystem("a"), Access{Writes: []Key{"x"}}).
					With("b", traceSystem("b"), Access{Writes: []Key{"y"}})
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "shared readers share a stage",
			build: func() *Builder[testRes] {
				return NewBuilder[testRes]().
					With("a", traceSystem("a"), Access{Reads: []Key{"time"}}).
					With("b", traceSystem("b"), Access{Reads: []Key{"time"}})
			},
			want: [][]string{{"a", "b"}},
		},
		{
			name: "write/write conflict is serialized",
			build: func() *Builder[testRes] {
				return NewBuilder[testRes]().
					With("a", traceSystem("a"), Access{Writes: []Key{"garbage"}}).
					With("b", traceSystem("b"), Access{Writes: []Key{"garbage"}})
			},
			want: [][]string{{"a"}, {"b"}},
		},
		{
			name: "read/write conflict is serialized",
			build: func() *Builder[testRes] {
				return NewBuilder[testRes]().
					With("reader", traceSystem("reader"), Access{Reads: []Key{"score"}}).
					With("writer", traceSystem("writer"), Access{Writes: []Key{"score"}})
			},
			want: [][]string{{"reader"}, {"writer"}},
		},
		{
			name: "dependency pushes later stage",
			build: func() *Builder[testRes] {
				return NewBuilder[testRes]().
					With("a", traceSystem("a"), Access{}).
					With("b", traceSystem("b"), Access{}, "a").
					With("c", traceSystem("c"), Access{})
			},
			want: [][]string{{"a", "c"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.build().Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			got := s.Stages()
			if len(got) != len(tt.want) {
				t.Fatalf("Stages() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("stage %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSchedulerBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder[testRes]
		want    error
	}{
		{
			name: "duplicate",
			builder: NewBuilder[testRes]().
				With("a", traceSystem("a"), Access{}).
				With("a", traceSystem("a"), Access{}),
			want: ErrDuplicateSystem,
		},
		{
			name: "unknown dependency",
			builder: NewBuilder[testRes]().
				With("a", traceSystem("a"), Access{}, "missing"),
			want: ErrUnknownSystem,
		},
		{
			name: "cycle",
			builder: NewBuilder[testRes]().
				With("a", traceSystem("a"), Access{}, "b").
				With("b", traceSystem("b"), Access{}, "a"),
			want: ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSchedulerSetupHooks(t *testing.T) {
	s, err := NewBuilder[testRes]().
		With("plain", traceSystem("plain"), Access{}).
		With("hooked", setupSystem{name: "hooked"}, Access{}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	res := &testRes{}
	s.Setup(res)
	if !slices.Equal(res.setup, []string{"hooked"}) {
		t.Errorf("setup calls = %v, want [hooked]", res.setup)
	}
}

func TestSchedulerTeardownHooks(t *testing.T) {
	s, err := NewBuilder[testRes]().
		With("plain", traceSystem("plain"), Access{}).
		With("hooked", setupSystem{name: "hooked"}, Access{}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	res := &testRes{}
	s.Teardown(res)
	if !slices.Equal(res.teardown, []string{"hooked"}) {
		t.Errorf("teardown calls = %v, want [hooked]", res.teardown)
	}
	if len(res.trace) != 0 {
		t.Errorf("teardown ran systems: %v", res.trace)
	}
}

func TestSchedulerAppliesCommandsAfterSystems(t *testing.T) {
	var countDuringRun int
	spawner := SystemFunc[testRes](func(ctx *Context[testRes]) {
		ctx.Commands.Spawn(spawnCounter(1))
	})
	observer := SystemFunc[testRes](func(ctx *Context[testRes]) {
		countDuringRun = countQuery.Count(ctx.World)
	})

	s, err := NewBuilder[testRes]().
		With("spawner", spawner, Access{Writes: []Key{"commands"}}).
		With("observer", observer, Access{}, "spawner").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	w := donburi.NewWorld()
	stats := s.Dispatch(w, &testRes{})
	if countDuringRun != 0 {
		t.Errorf("spawn visible during frame: count = %d", countDuringRun)
	}
	if stats.Spawned != 1 {
		t.Errorf("Spawned = %d, want 1", stats.Spawned)
	}
	if got := countQuery.Count(w); got != 1 {
		t.Errorf("entities after dispatch = %d, want 1", got)
	}
}

func TestSchedulerParallelRunsEverySystem(t *testing.T) {
	b := NewBuilder[testRes]().Parallel(4)
	names := []string{"a", "b", "c", "d", "e", "f"}
	for _, n := range names {
		b.With(n, traceSystem(n), Access{Writes: []Key{Key(n)}})
	}
	b.With("last", traceSystem("last"), Access{}, names...)

	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	res := &testRes{}
	s.Dispatch(donburi.NewWorld(), res)

	if len(res.trace) != len(names)+1 {
		t.Fatalf("ran %d systems, want %d", len(res.trace), len(names)+1)
	}
	if res.trace[len(res.trace)-1] != "last" {
		t.Errorf("dependent ran before its dependencies: %v", res.trace)
	}
	first := slices.Clone(res.trace[:len(names)])
	slices.Sort(first)
	if !slices.Equal(first, names) {
		t.Errorf("first stage ran %v, want %v", first, names)
	}
}
