// Package collision holds per-pixel hitbox masks.
package collision

import (
	"image"
	"image/color"
	"math/bits"

	"github.com/jakecoffman/cp"
)

// DefaultAlphaThreshold marks a pixel solid when its alpha is above it.
const DefaultAlphaThreshold = 127

// Mask is a row-major bit set, one bit per pixel.
type Mask struct {
	w, h   int
	stride int
	words  []uint64
}

func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := (w + 63) / 64
	return &Mask{w: w, h: h, stride: stride, words: make([]uint64, stride*h)}
}

// Filled returns a mask with every pixel solid.
func Filled(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// FromImage builds a mask from the alpha channel of img.
func FromImage(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	if a, ok := img.(*image.Alpha); ok {
		for y := 0; y < m.h; y++ {
			for x := 0; x < m.w; x++ {
				if a.AlphaAt(b.Min.X+x, b.Min.Y+y).A > threshold {
					m.Set(x, y, true)
				}
			}
		}
		return m
	}
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			alpha := color.AlphaModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Alpha).A
			if alpha > threshold {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func (m *Mask) Size() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.w, m.h
}

func (m *Mask) inside(x, y int) bool {
	return m != nil && x >= 0 && y >= 0 && x < m.w && y < m.h
}

func (m *Mask) Get(x, y int) bool {
	if !m.inside(x, y) {
		return false
	}
	return m.words[y*m.stride+x/64]&(1<<uint(x%64)) != 0
}

func (m *Mask) Set(x, y int, on bool) {
	if !m.inside(x, y) {
		return
	}
	idx := y*m.stride + x/64
	bit := uint64(1) << uint(x%64)
	if on {
		m.words[idx] |= bit
	} else {
		m.words[idx] &^= bit
	}
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Overlap reports whether other, placed at (dx, dy) relative to m's top-left
// corner, shares at least one solid pixel with m.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	if m == nil || other == nil {
		return false
	}
	x0, y0 := max(0, dx), max(0, dy)
	x1, y1 := min(m.w, dx+other.w), min(m.h, dy+other.h)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.Get(x, y) && other.Get(x-dx, y-dy) {
				return true
			}
		}
	}
	return false
}

// Bounds is the mask's box with its top-left corner at (x, y).
func (m *Mask) Bounds(x, y int) cp.BB {
	w, h := m.Size()
	return cp.BB{L: float64(x), B: float64(y), R: float64(x + w), T: float64(y + h)}
}
