package tensorfield

import (
	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

// Config mirrors original_source's TensorFieldConfig.
type Config struct {
	Resolution float64
	Noise      citymodel.NoiseParams
	Smooth     bool
}

// TensorField composes basis fields, park/sea/river masks, and a noise
// overlay (spec §4.1). Noise toggles and temporary mask changes go through
// the With* scoped helpers below (spec §9 "explicit with_overrides scopes
// instead of mutable TensorField state"); the water stage assigns the Sea
// and River masks directly.
type TensorField struct {
	cfg    Config
	seed   uint32
	basis  []BasisField

	Parks       []geomutil.Polyline
	Sea         geomutil.Polyline
	River       geomutil.Polyline
	IgnoreRiver bool

	coastNoise bool
	riverNoise bool
}

// New returns an empty TensorField over the given config and seed.
func New(cfg Config, seed uint32) *TensorField {
	return &TensorField{cfg: cfg, seed: seed}
}

func (f *TensorField) AddGrid(centre geomutil.Vec2, size, decay, theta float64) {
	f.basis = append(f.basis, NewGridField(centre, size, decay, theta))
}
func (f *TensorField) AddRadial(centre geomutil.Vec2, size, decay float64) {
	f.basis = append(f.basis, NewRadialField(centre, size, decay))
}
func (f *TensorField) AddSquare(centre geomutil.Vec2, size, decay float64) {
	f.basis = append(f.basis, NewSquareField(centre, size, decay))
}
func (f *TensorField) AddDelta(centre geomutil.Vec2, size, decay float64, terminal DeltaTerminal) {
	f.basis = append(f.basis, NewDeltaField(centre, size, decay, terminal))
}

// Clear removes every basis field.
func (f *TensorField) Clear() { f.basis = nil }

// WithSeaPolygon installs sea for the duration of fn and restores the prior
// value afterward (spec §9 "with_overrides scopes").
func (f *TensorField) WithSeaPolygon(sea geomutil.Polyline, fn func()) {
	prev := f.Sea
	f.Sea = sea
	defer func() { f.Sea = prev }()
	fn()
}

// WithCoastNoise enables coast-phase noise for the duration of fn.
func (f *TensorField) WithCoastNoise(fn func()) {
	prev := f.coastNoise
	f.coastNoise = true
	defer func() { f.coastNoise = prev }()
	fn()
}

// WithRiverNoise enables river-phase noise for the duration of fn.
func (f *TensorField) WithRiverNoise(fn func()) {
	prev := f.riverNoise
	f.riverNoise = true
	defer func() { f.riverNoise = prev }()
	fn()
}

// WithoutSea temporarily clears the sea mask for the duration of fn (used
// by the river pass, which must ignore the coast while integrating).
func (f *TensorField) WithoutSea(fn func()) {
	prev := f.Sea
	f.Sea = nil
	defer func() { f.Sea = prev }()
	fn()
}

// OnLand reports whether p is outside the sea polygon and, unless
// ignore_river, outside the river polygon (spec §4.1 step 1).
func (f *TensorField) OnLand(p geomutil.Vec2) bool {
	if len(f.Sea) >= 3 && geomutil.InsidePolygon(f.Sea, p) {
		return false
	}
	if !f.IgnoreRiver && len(f.River) >= 3 && geomutil.InsidePolygon(f.River, p) {
		return false
	}
	return true
}

// InParks reports whether p lies inside any park polygon.
func (f *TensorField) InParks(p geomutil.Vec2) bool {
	for _, poly := range f.Parks {
		if geomutil.InsidePolygon(poly, p) {
			return true
		}
	}
	return false
}

// SamplePoint returns the aggregate tensor at p (spec §4.1 "Sampling at p").
func (f *TensorField) SamplePoint(p geomutil.Vec2) Tensor {
	if !f.OnLand(p) {
		return Zero()
	}
	acc := Zero()
	for _, b := range f.basis {
		acc = acc.Add(b.WeightedTensor(p, f.cfg.Smooth), f.cfg.Smooth)
	}
	if f.InParks(p) {
		acc = acc.Rotate(rotNoise(p, f.cfg.Noise.NoiseSizePark, f.cfg.Noise.NoiseAnglePark, f.seed))
	}
	if f.cfg.Noise.GlobalNoise {
		acc = acc.Rotate(rotNoise(p, f.cfg.Noise.NoiseSizeGlobal, f.cfg.Noise.NoiseAngleGlobal, f.seed))
	}
	if f.coastNoise {
		acc = acc.Rotate(rotNoise(p, f.cfg.Noise.NoiseSizeGlobal*0.5, f.cfg.Noise.NoiseAngleGlobal+10, f.seed^1))
	}
	if f.riverNoise {
		acc = acc.Rotate(rotNoise(p, f.cfg.Noise.NoiseSizeGlobal*0.5, f.cfg.Noise.NoiseAngleGlobal+10, f.seed^2))
	}
	return acc
}

// Evaluate returns a unit displacement along the tensor's major (or minor)
// axis at p.
func (f *TensorField) Evaluate(p geomutil.Vec2, major bool) geomutil.Vec2 {
	t := f.SamplePoint(p)
	if major {
		return t.Major()
	}
	return t.Minor()
}

// InfluenceAt sums every basis field's scalar weight at p, land-gated (spec
// §4.1 "Influence").
func (f *TensorField) InfluenceAt(p geomutil.Vec2, smooth bool) float64 {
	if !f.OnLand(p) {
		return 0
	}
	sum := 0.0
	for _, b := range f.basis {
		sum += b.WeightAt(p, smooth)
	}
	return sum
}

// Defaults installs the fallback grid+radial pair spec §4.1 mandates when
// axioms is empty: "guarantees nonzero direction everywhere on land."
func (f *TensorField) Defaults(bounds geomutil.Bounds) {
	centre := geomutil.AveragePoint(geomutil.Polyline(bounds.Corners()[:]))
	ext := bounds.Extent()
	shortSide := ext.X
	if ext.Y < shortSide {
		shortSide = ext.Y
	}
	f.AddGrid(centre, shortSide*0.5, 1.0, 0.0)
	f.AddRadial(centre, shortSide*0.5, 1.0)
}
