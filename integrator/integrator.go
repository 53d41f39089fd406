// Package integrator implements the Euler/RK4 field integrators of spec
// §4.2: dp/dt = major(T(p)) or minor(T(p)), stepped by dstep.
package integrator

import (
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/tensorfield"
)

// FieldIntegrator returns a short displacement (not a unit vector) along
// the field's major or minor direction at p.
type FieldIntegrator interface {
	Integrate(p geomutil.Vec2, major bool) geomutil.Vec2
}

// Euler steps the field's direction once, scaled by dstep.
type Euler struct {
	Field *tensorfield.TensorField
	Dstep float64
}

func (e Euler) Integrate(p geomutil.Vec2, major bool) geomutil.Vec2 {
	dir := e.Field.Evaluate(p, major)
	return dir.Scale(e.Dstep)
}

// RK4 steps the field's direction with fourth-order Runge-Kutta, matching
// original_source/Integrator.cpp's method selection.
type RK4 struct {
	Field *tensorfield.TensorField
	Dstep float64
}

func (r RK4) Integrate(p geomutil.Vec2, major bool) geomutil.Vec2 {
	h := r.Dstep
	k1 := r.Field.Evaluate(p, major)
	k2 := r.Field.Evaluate(p.Add(k1.Scale(h/2)), major)
	k3 := r.Field.Evaluate(p.Add(k2.Scale(h/2)), major)
	k4 := r.Field.Evaluate(p.Add(k3.Scale(h)), major)
	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return sum.Scale(h / 6)
}
