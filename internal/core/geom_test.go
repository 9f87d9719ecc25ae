package core

import (
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"zero", 0, 0},
		{"inside range", 1.5, 1.5},
		{"negative", -0.5, 2*math.Pi - 0.5},
		{"full turn", 2 * math.Pi, 0},
		{"several turns", 5*math.Pi + 0.25, math.Pi + 0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WrapAngle(tc.in)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("WrapAngle(%f) = %f, expected %f", tc.in, got, tc.expected)
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("WrapAngle(%f) = %f, out of [0, 2π)", tc.in, got)
			}
		})
	}
}

func TestHeading(t *testing.T) {
	h := Heading(math.Pi / 2)
	if math.Abs(h.X) > 1e-9 || math.Abs(h.Y-1) > 1e-9 {
		t.Errorf("Heading(π/2) = %+v, expected (0, 1)", h)
	}
	if math.Abs(Heading(1.234).Len()-1) > 1e-9 {
		t.Error("Heading should return a unit vector")
	}
}

func TestVecOps(t *testing.T) {
	v := V(1, 2).Add(V(3, 4)).Scale(2)
	if v.X != 8 || v.Y != 12 {
		t.Errorf("V(1,2)+V(3,4) scaled by 2 = %+v, expected (8, 12)", v)
	}
	if V(3, 4).Len() != 5 {
		t.Errorf("Len() = %f, expected 5", V(3, 4).Len())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestFrameDelta(t *testing.T) {
	cfg := RuntimeConfig{TickRate: 50}
	if cfg.FrameDelta().Milliseconds() != 20 {
		t.Errorf("FrameDelta() at 50 ticks = %v, expected 20ms", cfg.FrameDelta())
	}
	if (RuntimeConfig{}).FrameDelta() <= 0 {
		t.Error("FrameDelta() should fall back to a positive step")
	}
}
