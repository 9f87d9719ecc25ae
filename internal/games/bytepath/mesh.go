package bytepath

import "github.com/vovakirdan/bytepath/internal/core"

// Shape is one primitive of an entity's mesh, in local coordinates
// relative to the entity's position and heading.
type Shape interface {
	shape()
}

// Circle is an outline centred at Offset.
type Circle struct {
	Offset core.Vec2
	Radius float64
}

// Line is a segment between two local points.
type Line struct {
	From, To core.Vec2
}

func (Circle) shape() {}
func (Line) shape()   {}

// MeshData is render geometry. The simulation only touches Scale.
type MeshData struct {
	Shapes []Shape
	Color  core.Color
	Scale  float64
}
