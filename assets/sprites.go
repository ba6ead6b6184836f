// Package assets rasterizes the game's sprite shapes. Sprites are alpha
// images so the simulation can derive pixel hitboxes without a GPU; the
// front end tints and uploads them.
package assets

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// Point is a vertex in sprite pixel space.
type Point struct {
	X, Y float32
}

// Polygon fills the closed polygon pts into a w x h alpha image.
func Polygon(w, h int, pts ...Point) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(pts) < 3 || w <= 0 || h <= 0 {
		return dst
	}
	z := vector.NewRasterizer(w, h)
	z.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		z.LineTo(p.X, p.Y)
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// Ship is the player's arrowhead, nose pointing up.
func Ship(w, h int) *image.Alpha {
	fw, fh := float32(w), float32(h)
	return Polygon(w, h,
		Point{fw / 2, 0},
		Point{fw, fh},
		Point{fw / 2, fh * 0.75},
		Point{0, fh},
	)
}

// Saucer is the alien hull: an ellipse.
func Saucer(w, h int) *image.Alpha {
	const segments = 24
	rx, ry := float64(w)/2, float64(h)/2
	pts := make([]Point, 0, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		pts = append(pts, Point{float32(rx + rx*math.Cos(a)), float32(ry + ry*math.Sin(a))})
	}
	return Polygon(w, h, pts...)
}

// Laser is a solid bolt.
func Laser(w, h int) *image.Alpha {
	fw, fh := float32(w), float32(h)
	return Polygon(w, h, Point{0, 0}, Point{fw, 0}, Point{fw, fh}, Point{0, fh})
}

// Explosion is the star drawn over a destroyed ship.
func Explosion(size int) *image.Alpha {
	const spikes = 8
	r := float64(size) / 2
	pts := make([]Point, 0, spikes*2)
	for i := 0; i < spikes*2; i++ {
		rad := r
		if i%2 == 1 {
			rad = r * 0.45
		}
		a := math.Pi * float64(i) / spikes
		pts = append(pts, Point{float32(r + rad*math.Cos(a)), float32(r + rad*math.Sin(a))})
	}
	return Polygon(size, size, pts...)
}

// Render draws a named shape. Unknown names fall back to a solid box.
func Render(shape string, w, h int) *image.Alpha {
	switch shape {
	case "ship":
		return Ship(w, h)
	case "saucer":
		return Saucer(w, h)
	case "laser":
		return Laser(w, h)
	case "explosion":
		return Explosion(min(w, h))
	default:
		return Laser(w, h)
	}
}
