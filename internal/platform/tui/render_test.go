package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/bytepath/internal/core"
)

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetColor(3, 0, '*', core.ColorAmmo)
	s.SetColor(4, 0, '*', core.ColorAmmo)
	s.SetColor(0, 1, '^', core.ColorPlayer)

	out := ansi.Strip(RenderScreen(s))
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	expected := []string{"ab ** ", "^     "}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("line %d = %q, expected %q", i, lines[i], want)
		}
	}
}

func TestStyleForDefault(t *testing.T) {
	if got := styleFor(core.ColorDefault).Render("x"); got != "x" {
		t.Errorf("default color should render unstyled, got %q", got)
	}
}
