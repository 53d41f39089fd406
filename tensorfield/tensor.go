// Package tensorfield implements the symmetric traceless 2x2 tensor field
// (spec §4.1): tensor algebra, the four basis field kinds, and the
// aggregate TensorField sampling pipeline with park/global noise and
// sea/river masking.
package tensorfield

import (
	"math"

	"github.com/voidshard/citygen/geomutil"
)

// Tensor is (r, m0, m1) with m0 = r*cos(2*theta), m1 = r*sin(2*theta).
type Tensor struct {
	R, M0, M1 float64
}

// Zero returns the zero tensor.
func Zero() Tensor { return Tensor{} }

// FromAngle returns a unit-magnitude tensor whose principal angle is theta.
func FromAngle(theta float64) Tensor {
	return Tensor{R: 1, M0: math.Cos(2 * theta), M1: math.Sin(2 * theta)}
}

// FromVector returns a tensor whose major axis aligns with v, via the
// double-angle encoding (spec §4.1: "double-angle encoding so that
// streamlines align with v").
func FromVector(v geomutil.Vec2) Tensor {
	theta := math.Atan2(v.Y, v.X)
	return FromAngle(theta)
}

func (t Tensor) theta() float64 {
	return math.Atan2(t.M1, t.M0) / 2
}

// Add returns the component-wise sum of t and other. If smooth, the result
// is renormalized to the Euclidean norm of (m0,m1) (weighted averaging);
// otherwise r is pinned to 2 (unweighted averaging), per spec §4.1.
func (t Tensor) Add(other Tensor, smooth bool) Tensor {
	m0 := t.M0 + other.M0
	m1 := t.M1 + other.M1
	r := 2.0
	if smooth {
		r = math.Hypot(m0, m1)
	}
	return Tensor{R: r, M0: m0, M1: m1}
}

// Scale multiplies the tensor's magnitude by s.
func (t Tensor) Scale(s float64) Tensor {
	return Tensor{R: t.R * s, M0: t.M0 * s, M1: t.M1 * s}
}

// Rotate adds theta to the tensor's principal angle.
func (t Tensor) Rotate(theta float64) Tensor {
	newTheta := t.theta() + theta
	return Tensor{R: t.R, M0: t.R * math.Cos(2*newTheta), M1: t.R * math.Sin(2*newTheta)}
}

// Major returns the unit vector along the tensor's major (theta) axis.
func (t Tensor) Major() geomutil.Vec2 {
	th := t.theta()
	return geomutil.Vec2{X: math.Cos(th), Y: math.Sin(th)}
}

// Minor returns the unit vector along the tensor's minor (theta+90deg) axis.
func (t Tensor) Minor() geomutil.Vec2 {
	th := t.theta()
	return geomutil.Vec2{X: -math.Sin(th), Y: math.Cos(th)}
}

// hashNoise is the deterministic sine-hash of spec §4.1, ported literally
// from original_source/TensorField.cpp's hashNoise. Values land in ~[-1,1].
func hashNoise(x, y float64, seed uint32) float64 {
	v := math.Sin(x*12.9898+y*78.233+float64(seed)*1.234567) * 43758.5453
	return math.Sin(v)
}

// rotNoise is rot_noise(p, size, angleDeg) of spec §4.1.
func rotNoise(p geomutil.Vec2, size, angleDeg float64, seed uint32) float64 {
	if size == 0 {
		return 0
	}
	return hashNoise(p.X/size, p.Y/size, seed) * angleDeg * math.Pi / 180.0
}
