package common

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestStep(t *testing.T) {
	cases := []struct {
		name    string
		from    cp.Vector
		to      cp.Vector
		maxDist float64
		want    cp.Vector
		heading cp.Vector
	}{
		{"partial", cp.Vector{X: 0, Y: 0}, cp.Vector{X: 10, Y: 0}, 4, cp.Vector{X: 4, Y: 0}, cp.Vector{X: 1, Y: 0}},
		{"no_overshoot", cp.Vector{X: 0, Y: 0}, cp.Vector{X: 0, Y: 3}, 100, cp.Vector{X: 0, Y: 3}, cp.Vector{X: 0, Y: 1}},
		{"arrived", cp.Vector{X: 5, Y: 5}, cp.Vector{X: 5, Y: 5}, 10, cp.Vector{X: 5, Y: 5}, cp.Vector{}},
		{"zero_budget", cp.Vector{X: 1, Y: 1}, cp.Vector{X: 9, Y: 9}, 0, cp.Vector{X: 1, Y: 1}, cp.Vector{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, heading := Step(c.from, c.to, c.maxDist)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
			assert.InDelta(t, c.heading.X, heading.X, 1e-9)
			assert.InDelta(t, c.heading.Y, heading.Y, 1e-9)
		})
	}
}

func TestPlayfield(t *testing.T) {
	p := DefaultPlayfield()
	assert.True(t, p.Contains(cp.Vector{X: 0, Y: 0}))
	assert.True(t, p.Contains(cp.Vector{X: 1200, Y: 800}))
	assert.False(t, p.Contains(cp.Vector{X: -1, Y: 10}))
	assert.False(t, p.Contains(cp.Vector{X: 10, Y: 801}))
	assert.Equal(t, cp.Vector{X: 0, Y: 800}, p.Clamp(cp.Vector{X: -20, Y: 900}))
	assert.Equal(t, cp.Vector{X: 600, Y: 400}, p.Center())
}
