package tensorfield

import (
	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

// Make builds a TensorField from CityParams and the axiom list, mirroring
// original_source's make_tensor_field factory: each axiom contributes one
// basis field keyed by its AxiomType, and the field falls back to
// Defaults() when axioms is empty (spec §4.1 "Defaults").
func Make(params citymodel.CityParams, axioms []citymodel.AxiomInput, bounds geomutil.Bounds) *TensorField {
	f := New(Config{Resolution: 50.0, Noise: params.Noise, Smooth: false}, params.Seed)
	if params.Noise.GlobalNoise {
		f.cfg.Noise.GlobalNoise = true
	}

	if len(axioms) == 0 {
		f.Defaults(bounds)
		return f
	}

	for _, ax := range axioms {
		switch ax.Type {
		case citymodel.AxiomRadial:
			f.AddRadial(ax.Pos, ax.Radius, 1.0)
		case citymodel.AxiomDelta:
			f.AddDelta(ax.Pos, ax.Radius, 1.0, terminalFor(ax.Pos, bounds))
		case citymodel.AxiomBlock:
			f.AddSquare(ax.Pos, ax.Radius, 1.0)
		case citymodel.AxiomGridCorrective:
			f.AddGrid(ax.Pos, ax.Radius, 1.0, 0.0)
		}
	}
	return f
}

// terminalFor picks the DeltaField terminal closest to ax's position
// relative to bounds, giving delta axioms a stable, deterministic
// orientation without a separate configuration knob.
func terminalFor(pos geomutil.Vec2, bounds geomutil.Bounds) DeltaTerminal {
	mid := bounds.Min.X + bounds.Extent().X/2
	if pos.Y < bounds.Min.Y+bounds.Extent().Y/2 {
		return Top
	}
	if pos.X < mid {
		return BottomLeft
	}
	return BottomRight
}
