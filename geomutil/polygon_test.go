package geomutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(side float64) Polyline {
	return Polyline{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}, {X: 0, Y: 0},
	}
}

func TestShoelaceAreaSquare(t *testing.T) {
	assert.InDelta(t, 100.0, ShoelaceArea(square(10)), 1e-9)
}

func TestPolygonAreaIgnoresWinding(t *testing.T) {
	ring := square(10)
	reversed := make(Polyline, len(ring))
	for i, p := range ring {
		reversed[len(ring)-1-i] = p
	}
	require.InDelta(t, ShoelaceArea(ring), -ShoelaceArea(reversed), 1e-9)
	assert.InDelta(t, PolygonArea(ring), PolygonArea(reversed), 1e-9)
}

func TestInsidePolygon(t *testing.T) {
	ring := square(10)
	assert.True(t, InsidePolygon(ring, Vec2{X: 5, Y: 5}))
	assert.False(t, InsidePolygon(ring, Vec2{X: 15, Y: 5}))
}

func TestAveragePoint(t *testing.T) {
	pts := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	c := AveragePoint(pts)
	assert.InDelta(t, 5.0, c.X, 1e-9)
	assert.InDelta(t, 5.0, c.Y, 1e-9)
}

func TestClosed(t *testing.T) {
	open := Polyline{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	closed := open.Closed()
	require.Len(t, closed, 4)
	assert.Equal(t, closed[0], closed[len(closed)-1])

	already := square(5)
	assert.Equal(t, already, already.Closed())
}

func TestSutherlandHodgmanHalvesSquare(t *testing.T) {
	ring := square(10)
	left := SutherlandHodgman(ring, Vec2{X: 5, Y: 0}, Vec2{X: 5, Y: 10}, KeepLeft)
	right := SutherlandHodgman(ring, Vec2{X: 5, Y: 0}, Vec2{X: 5, Y: 10}, KeepRight)
	assert.InDelta(t, 50.0, ShoelaceArea(left.Closed()), 1.0)
	assert.InDelta(t, 50.0, ShoelaceArea(right.Closed()), 1.0)
}
