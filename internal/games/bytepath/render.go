package bytepath

import (
	"fmt"
	"math"
	"time"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/vovakirdan/bytepath/internal/core"
)

// Glyphs used by the rasterizer
const (
	CircleChar = '•'
	DotChar    = 'o'
	HLineChar  = '-'
	VLineChar  = '|'
	SlashChar  = '/'
	BSlashChar = '\\'
)

var renderQuery = donburi.NewQuery(filter.Contains(Position, Mesh))

// viewport maps arena coordinates onto screen cells below the HUD row.
type viewport struct {
	sx, sy float64
	top    int
}

func (v viewport) project(p core.Vec2) (int, int) {
	return int(math.Floor(p.X * v.sx)), v.top + int(math.Floor(p.Y*v.sy))
}

// Render draws every meshed entity and the HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.res == nil {
		return
	}

	arena := g.res.Settings.Arena
	vp := viewport{
		sx:  float64(dst.Width()) / arena.Width,
		sy:  float64(dst.Height()-1) / arena.Height,
		top: 1,
	}
	scale := arena.Scale
	if scale <= 0 {
		scale = 1
	}

	renderQuery.Each(g.world, func(entry *donburi.Entry) {
		pos := Position.Get(entry)
		mesh := Mesh.Get(entry)
		s := mesh.Scale * scale
		if s <= 0 {
			return
		}
		origin := core.V(pos.X, pos.Y)
		for _, sh := range mesh.Shapes {
			switch sh := sh.(type) {
			case Circle:
				center := origin.Add(rotate(sh.Offset.Scale(s), pos.Angle))
				drawCircle(dst, vp, center, sh.Radius*s, mesh.Color)
			case Line:
				from := origin.Add(rotate(sh.From.Scale(s), pos.Angle))
				to := origin.Add(rotate(sh.To.Scale(s), pos.Angle))
				drawLine(dst, vp, from, to, mesh.Color)
			}
		}
	})

	g.drawHUD(dst)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.res.Round.Over {
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.res.Score.Points))
	}
}

func rotate(v core.Vec2, angle float64) core.Vec2 {
	sin, cos := math.Sincos(angle)
	return core.V(v.X*cos-v.Y*sin, v.X*sin+v.Y*cos)
}

func drawCircle(dst *core.Screen, vp viewport, c core.Vec2, r float64, color core.Color) {
	rx, ry := r*vp.sx, r*vp.sy
	if rx < 1 && ry < 1 {
		x, y := vp.project(c)
		dst.SetColor(x, y, DotChar, color)
		return
	}
	steps := int(2*math.Pi*math.Max(rx, ry)) + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := vp.project(c.Add(core.Heading(a).Scale(r)))
		dst.SetColor(x, y, CircleChar, color)
	}
}

func drawLine(dst *core.Screen, vp viewport, from, to core.Vec2, color core.Color) {
	fx, fy := from.X*vp.sx, from.Y*vp.sy
	tx, ty := to.X*vp.sx, to.Y*vp.sy
	dx, dy := tx-fx, ty-fy

	glyph := lineGlyph(dx, dy)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := vp.project(core.V(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t))
		dst.SetColor(x, y, glyph, color)
	}
}

// lineGlyph picks the character closest to the segment's slope in screen
// space, where y grows downward.
func lineGlyph(dx, dy float64) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay <= ax*0.4:
		return HLineChar
	case ax <= ay*0.4:
		return VLineChar
	case (dx > 0) == (dy > 0):
		return BSlashChar
	default:
		return SlashChar
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	sc := g.res.Score
	hud := fmt.Sprintf(" SCORE %d  PICKUPS %d  HITS %d  AMMO %d/%d ",
		sc.Points, sc.Collected, sc.Destroyed, g.res.Spawn.AmmoCount, g.res.Spawn.AmmoMax)
	dst.DrawHLine(0, 0, dst.Width(), ' ', core.ColorHUD)
	dst.DrawTextColor(0, 0, hud, core.ColorHUD)

	if g.res.Settings.Round.Duration.D() > 0 {
		clock := " " + formatClock(g.res.Round.Remaining) + " "
		dst.DrawTextColor(dst.Width()-len(clock), 0, clock, core.ColorHUD)
	}
}

func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawTextCentered(boxY+1, title)
	dst.DrawTextCentered(boxY+3, subtitle)
}
