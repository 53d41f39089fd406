package tensorfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voidshard/citygen/geomutil"
)

func TestFromAngleMajorMinor(t *testing.T) {
	tens := FromAngle(math.Pi / 4)
	major := tens.Major()
	assert.InDelta(t, math.Cos(math.Pi/4), major.X, 1e-9)
	assert.InDelta(t, math.Sin(math.Pi/4), major.Y, 1e-9)

	minor := tens.Minor()
	assert.InDelta(t, major.Dot(minor), 0, 1e-9)
}

func TestAddUnsmoothPinsRTwo(t *testing.T) {
	a := FromAngle(0)
	b := FromAngle(math.Pi / 2)
	sum := a.Add(b, false)
	assert.Equal(t, 2.0, sum.R)
}

func TestAddSmoothRenormalizes(t *testing.T) {
	a := FromAngle(0)
	b := FromAngle(0)
	sum := a.Add(b, true)
	assert.InDelta(t, math.Hypot(sum.M0, sum.M1), sum.R, 1e-9)
}

func TestRotateAddsToAngle(t *testing.T) {
	tens := FromAngle(0)
	rotated := tens.Rotate(math.Pi / 2)
	// Major axis rotated by pi/2 should point along +Y.
	assert.InDelta(t, 0, rotated.Major().X, 1e-9)
	assert.InDelta(t, 1, rotated.Major().Y, 1e-9)
}

func TestHashNoiseDeterministic(t *testing.T) {
	a := hashNoise(1.5, 2.5, 42)
	b := hashNoise(1.5, 2.5, 42)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, -1.0)
	assert.LessOrEqual(t, a, 1.0)

	c := hashNoise(1.5, 2.5, 43)
	assert.NotEqual(t, a, c)
}

func TestRadialFieldTensorTangent(t *testing.T) {
	f := NewRadialField(geomutil.Vec2{X: 0, Y: 0}, 100, 1)
	p := geomutil.Vec2{X: 10, Y: 0}
	tens := f.TensorAt(p)
	major := tens.Major()
	// Tangent to the circle at (10,0) around origin points along +/-Y.
	assert.InDelta(t, 0, major.X, 1e-9)
}

func TestRadialFieldWeightDecaysToZero(t *testing.T) {
	f := NewRadialField(geomutil.Vec2{X: 0, Y: 0}, 100, 2)
	near := f.WeightAt(geomutil.Vec2{X: 0, Y: 0}, false)
	far := f.WeightAt(geomutil.Vec2{X: 200, Y: 0}, false)
	assert.Greater(t, near, far)
	assert.Equal(t, 0.0, far)
}

func TestSquareFieldUsesChebyshevDistance(t *testing.T) {
	f := NewSquareField(geomutil.Vec2{X: 0, Y: 0}, 10, 1)
	onAxis := f.WeightAt(geomutil.Vec2{X: 5, Y: 0}, false)
	diagonal := f.WeightAt(geomutil.Vec2{X: 5, Y: 5}, false)
	assert.InDelta(t, onAxis, diagonal, 1e-9)
}

func TestDeltaFieldZeroAtTerminal(t *testing.T) {
	f := NewDeltaField(geomutil.Vec2{X: 0, Y: 0}, 10, 1, Top)
	term := f.terminalPoint()
	tens := f.TensorAt(term)
	assert.Equal(t, Zero(), tens)
}
