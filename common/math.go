package common

import "github.com/jakecoffman/cp"

// Step moves from towards to by at most maxDist and never past it. It
// returns the new position and the unit heading of travel. When there is
// nothing to travel the heading is the zero vector.
func Step(from, to cp.Vector, maxDist float64) (cp.Vector, cp.Vector) {
	delta := to.Sub(from)
	dist := delta.Length()
	if dist == 0 || maxDist <= 0 {
		return from, cp.Vector{}
	}
	heading := delta.Mult(1 / dist)
	if maxDist >= dist {
		return to, heading
	}
	return from.Add(heading.Mult(maxDist)), heading
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
