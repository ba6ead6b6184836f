package collision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskFromImage(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 4, 3))
	img.SetAlpha(1, 1, color.Alpha{A: 255})
	img.SetAlpha(2, 1, color.Alpha{A: 127})
	img.SetAlpha(3, 2, color.Alpha{A: 128})

	m := FromImage(img, DefaultAlphaThreshold)
	w, h := m.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
	assert.True(t, m.Get(1, 1))
	assert.False(t, m.Get(2, 1), "threshold is exclusive")
	assert.True(t, m.Get(3, 2))
	assert.Equal(t, 2, m.Count())

	rgba := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	rgba.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	assert.Equal(t, 1, FromImage(rgba, DefaultAlphaThreshold).Count())
}

func TestMaskOverlap(t *testing.T) {
	ring := NewMask(5, 5)
	for i := 0; i < 5; i++ {
		ring.Set(i, 0, true)
		ring.Set(i, 4, true)
		ring.Set(0, i, true)
		ring.Set(4, i, true)
	}
	dot := Filled(1, 1)

	cases := []struct {
		name   string
		dx, dy int
		want   bool
	}{
		{"on_edge", 0, 2, true},
		{"hollow_center", 2, 2, false},
		{"outside_left", -1, 2, false},
		{"outside_below", 2, 5, false},
		{"corner", 4, 4, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ring.Overlap(dot, c.dx, c.dy))
			assert.Equal(t, c.want, dot.Overlap(ring, -c.dx, -c.dy), "overlap is symmetric")
		})
	}
}

func TestMaskWideRows(t *testing.T) {
	m := NewMask(130, 2)
	m.Set(129, 1, true)
	m.Set(64, 0, true)
	assert.True(t, m.Get(129, 1))
	assert.True(t, m.Get(64, 0))
	assert.False(t, m.Get(63, 0))
	assert.Equal(t, 2, m.Count())
	m.Set(64, 0, false)
	assert.Equal(t, 1, m.Count())
	assert.False(t, m.Get(200, 0))
}

func TestMaskBounds(t *testing.T) {
	a := Filled(10, 10).Bounds(0, 0)
	b := Filled(4, 4).Bounds(8, 8)
	c := Filled(4, 4).Bounds(20, 20)
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}
