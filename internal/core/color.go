package core

// Color represents a foreground color for a screen cell.
// Values map onto ANSI 256-color codes in the terminal renderer.
type Color uint8

// Palette used by the shooter. ColorDefault leaves the terminal's own foreground.
const (
	ColorDefault Color = iota
	ColorPlayer
	ColorProjectile
	ColorAmmo
	ColorBoost
	ColorHP
	ColorExplosion
	ColorHUD
	ColorDim
)

// ANSI returns the ANSI 256-color code for the color, or "" for ColorDefault.
func (c Color) ANSI() string {
	switch c {
	case ColorPlayer:
		return "15"
	case ColorProjectile:
		return "230"
	case ColorAmmo:
		// rgb(123, 200, 164)
		return "115"
	case ColorBoost:
		// rgb(76, 195, 217)
		return "74"
	case ColorHP:
		// rgb(241, 103, 69)
		return "203"
	case ColorExplosion:
		return "208"
	case ColorHUD:
		return "250"
	case ColorDim:
		return "238"
	default:
		return ""
	}
}
