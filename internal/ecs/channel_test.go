package ecs

import (
	"slices"
	"testing"
)

func TestChannelEveryReaderSeesEveryEvent(t *testing.T) {
	ch := NewChannel[int](0)
	a := ch.Register()
	b := ch.Register()

	ch.Write(1, 2)
	ch.Write(3)

	if got := ch.Read(a); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("reader a got %v, want [1 2 3]", got)
	}
	if got := ch.Read(a); got != nil {
		t.Errorf("second read of a got %v, want nothing", got)
	}
	if ch.Pending(b) != 3 {
		t.Errorf("reader b pending = %d, want 3", ch.Pending(b))
	}
	if got := ch.Read(b); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("reader b got %v, want [1 2 3]", got)
	}
	if ch.Len() != 0 {
		t.Errorf("Len() = %d after all readers caught up, want 0", ch.Len())
	}
}

func TestChannelReaderResumesAfterCursor(t *testing.T) {
	ch := NewChannel[string](0)
	slow := ch.Register()
	fast := ch.Register()

	ch.Write("a")
	ch.Read(fast)
	ch.Write("b")

	if got := ch.Read(fast); !slices.Equal(got, []string{"b"}) {
		t.Errorf("fast got %v, want [b]", got)
	}
	if got := ch.Read(slow); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("slow got %v, want [a b]", got)
	}
}

func TestChannelLateReader(t *testing.T) {
	ch := NewChannel[int](0)
	early := ch.Register()
	ch.Write(1)

	late := ch.Register()
	ch.Write(2)

	if got := ch.Read(late); !slices.Equal(got, []int{2}) {
		t.Errorf("late reader got %v, want [2]", got)
	}
	if got := ch.Read(early); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("early reader got %v, want [1 2]", got)
	}
}

func TestChannelRetention(t *testing.T) {
	ch := NewChannel[int](3)
	starving := ch.Register()

	ch.Write(1, 2, 3, 4, 5)

	if ch.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ch.Len())
	}
	if ch.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", ch.Dropped())
	}
	if ch.Lost(starving) != 2 {
		t.Errorf("Lost() = %d, want 2", ch.Lost(starving))
	}
	if got := ch.Read(starving); !slices.Equal(got, []int{3, 4, 5}) {
		t.Errorf("starving reader got %v, want [3 4 5]", got)
	}
}

func TestChannelNoReadersDiscards(t *testing.T) {
	ch := NewChannel[int](0)
	ch.Write(1, 2, 3)
	if ch.Len() != 0 {
		t.Errorf("Len() = %d with no readers, want 0", ch.Len())
	}
}

func TestChannelUnregisterReleases(t *testing.T) {
	ch := NewChannel[int](0)
	a := ch.Register()
	b := ch.Register()

	ch.Write(1, 2)
	ch.Read(a)
	if ch.Len() != 2 {
		t.Fatalf("Len() = %d while b is behind, want 2", ch.Len())
	}

	ch.Unregister(b)
	if ch.Len() != 0 {
		t.Errorf("Len() = %d after unregister, want 0", ch.Len())
	}
	if got := ch.Read(b); got != nil {
		t.Errorf("unregistered reader got %v", got)
	}
}
