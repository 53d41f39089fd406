package geomutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Algebra(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 3, Y: -1}

	assert.Equal(t, Vec2{X: 4, Y: 1}, a.Add(b))
	assert.Equal(t, Vec2{X: -2, Y: 3}, a.Sub(b))
	assert.Equal(t, Vec2{X: 2, Y: 4}, a.Scale(2))
	assert.InDelta(t, 1.0, a.Dot(b), 1e-9)
	assert.InDelta(t, -7.0, a.Cross(b), 1e-9)
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{X: 3, Y: 4}
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-9)
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestVec2RotateAround(t *testing.T) {
	centre := Vec2{X: 1, Y: 1}
	p := Vec2{X: 2, Y: 1}
	rotated := p.RotateAround(centre, math.Pi/2)
	assert.InDelta(t, 1.0, rotated.X, 1e-9)
	assert.InDelta(t, 2.0, rotated.Y, 1e-9)
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Min: Vec2{X: 0, Y: 0}, Max: Vec2{X: 10, Y: 10}}
	assert.True(t, b.Contains(Vec2{X: 5, Y: 5}))
	assert.True(t, b.Contains(Vec2{X: 0, Y: 0}))
	assert.False(t, b.Contains(Vec2{X: -1, Y: 5}))
	assert.Equal(t, Vec2{X: 10, Y: 10}, b.Extent())
}
