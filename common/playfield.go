package common

import "github.com/jakecoffman/cp"

const (
	BaseWidth  = 1200
	BaseHeight = 800
)

// Playfield is the logical screen every spawn, bounds check and clamp uses.
type Playfield struct {
	Width  float64
	Height float64
}

func DefaultPlayfield() Playfield {
	return Playfield{Width: BaseWidth, Height: BaseHeight}
}

// Contains reports whether v lies inside [0,Width]x[0,Height].
func (p Playfield) Contains(v cp.Vector) bool {
	return v.X >= 0 && v.X <= p.Width && v.Y >= 0 && v.Y <= p.Height
}

func (p Playfield) Clamp(v cp.Vector) cp.Vector {
	return cp.Vector{X: Clamp(v.X, 0, p.Width), Y: Clamp(v.Y, 0, p.Height)}
}

func (p Playfield) Center() cp.Vector {
	return cp.Vector{X: p.Width / 2, Y: p.Height / 2}
}
