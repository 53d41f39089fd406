package tensorfield

import (
	"math"

	"github.com/voidshard/citygen/geomutil"
)

// BasisField is one summand of the tensor field (spec §4.1 "Basis field").
// This is the Go interface standing in for the tagged-sum the spec's
// design notes (§9) ask for in a systems language: one virtual dispatch per
// sample, matching the same cost and call shape.
type BasisField interface {
	TensorAt(p geomutil.Vec2) Tensor
	WeightedTensor(p geomutil.Vec2, smooth bool) Tensor
	WeightAt(p geomutil.Vec2, smooth bool) float64
	Centre() geomutil.Vec2
}

type base struct {
	centre geomutil.Vec2
	size   float64
	decay  float64
}

func (b base) Centre() geomutil.Vec2 { return b.centre }

// weight is the Euclidean-distance falloff shared by Grid/Radial/Delta
// fields (spec §4.1 "Radial weight").
func (b base) weight(p geomutil.Vec2, smooth bool) float64 {
	d := geomutil.Distance(p, b.centre) / b.size
	return falloff(d, b.decay, smooth)
}

// weightSquare is the Chebyshev-distance falloff used by Square/Block
// fields (spec §4.1 "Square/Block weight").
func (b base) weightSquare(p geomutil.Vec2, smooth bool) float64 {
	d := geomutil.ChebyshevDistance(p, b.centre) / b.size
	return falloff(d, b.decay, smooth)
}

func falloff(d, decay float64, smooth bool) float64 {
	if smooth {
		if decay == 0 {
			if d == 0 {
				return 0
			}
			return 1
		}
		return math.Pow(d, -decay)
	}
	if decay == 0 && d >= 1 {
		return 0
	}
	v := math.Max(0, 1-d)
	return math.Pow(v, decay)
}

// weightedTensorFrom is the shared WeightedTensor implementation: scale the
// field's raw tensorAt by its scalar weight.
func weightedTensorFrom(f BasisField, p geomutil.Vec2, smooth bool) Tensor {
	w := f.WeightAt(p, smooth)
	return f.TensorAt(p).Scale(w)
}

// GridField returns a fixed-angle tensor everywhere, weighted by Euclidean
// distance falloff (spec §4.1 "Grid basis").
type GridField struct {
	base
	Theta float64
}

func NewGridField(centre geomutil.Vec2, size, decay, theta float64) *GridField {
	return &GridField{base: base{centre, size, decay}, Theta: theta}
}

func (f *GridField) TensorAt(p geomutil.Vec2) Tensor { return FromAngle(f.Theta) }
func (f *GridField) WeightAt(p geomutil.Vec2, smooth bool) float64 {
	return f.weight(p, smooth)
}
func (f *GridField) WeightedTensor(p geomutil.Vec2, smooth bool) Tensor {
	return weightedTensorFrom(f, p, smooth)
}

// RadialField returns a tensor tangent to circles around its centre (spec
// §4.1 "Radial basis").
type RadialField struct{ base }

func NewRadialField(centre geomutil.Vec2, size, decay float64) *RadialField {
	return &RadialField{base{centre, size, decay}}
}

func (f *RadialField) TensorAt(p geomutil.Vec2) Tensor {
	t := p.Sub(f.centre)
	return Tensor{R: 1, M0: t.Y*t.Y - t.X*t.X, M1: -2 * t.X * t.Y}
}
func (f *RadialField) WeightAt(p geomutil.Vec2, smooth bool) float64 {
	return f.weight(p, smooth)
}
func (f *RadialField) WeightedTensor(p geomutil.Vec2, smooth bool) Tensor {
	return weightedTensorFrom(f, p, smooth)
}

// SquareField is a grid basis at theta=0 weighted by Chebyshev distance
// (spec §4.1 "Square basis").
type SquareField struct{ base }

func NewSquareField(centre geomutil.Vec2, size, decay float64) *SquareField {
	return &SquareField{base{centre, size, decay}}
}

func (f *SquareField) TensorAt(p geomutil.Vec2) Tensor { return FromAngle(0) }
func (f *SquareField) WeightAt(p geomutil.Vec2, smooth bool) float64 {
	return f.weightSquare(p, smooth)
}
func (f *SquareField) WeightedTensor(p geomutil.Vec2, smooth bool) Tensor {
	return weightedTensorFrom(f, p, smooth)
}

// DeltaTerminal is the terminal point a DeltaField points its streamlines at.
type DeltaTerminal int

const (
	Top DeltaTerminal = iota
	BottomLeft
	BottomRight
)

// DeltaField points toward one of three terminals relative to its centre
// (spec §4.1 "Delta basis").
type DeltaField struct {
	base
	Terminal DeltaTerminal
}

func NewDeltaField(centre geomutil.Vec2, size, decay float64, terminal DeltaTerminal) *DeltaField {
	return &DeltaField{base: base{centre, size, decay}, Terminal: terminal}
}

func (f *DeltaField) terminalPoint() geomutil.Vec2 {
	switch f.Terminal {
	case BottomLeft:
		return f.centre.Add(geomutil.Vec2{X: -f.size, Y: f.size})
	case BottomRight:
		return f.centre.Add(geomutil.Vec2{X: f.size, Y: f.size})
	default: // Top
		return f.centre.Add(geomutil.Vec2{X: 0, Y: -f.size})
	}
}

func (f *DeltaField) TensorAt(p geomutil.Vec2) Tensor {
	term := f.terminalPoint()
	v := term.Sub(p)
	if v.LengthSquared() == 0 {
		return Zero()
	}
	return FromVector(v)
}
func (f *DeltaField) WeightAt(p geomutil.Vec2, smooth bool) float64 {
	return f.weight(p, smooth)
}
func (f *DeltaField) WeightedTensor(p geomutil.Vec2, smooth bool) Tensor {
	return weightedTensorFrom(f, p, smooth)
}
