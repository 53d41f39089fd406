// Package water implements the coastline and river generator of spec §4.4:
// two streamline-integration passes whose endpoints, clipped against
// bounds, yield the sea and river polygons that mask the land for every
// later stage.
package water

import (
	"math/rand"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/integrator"
	"github.com/voidshard/citygen/streamline"
	"github.com/voidshard/citygen/tensorfield"
)

// Result carries the three water polylines spec §4.4 says are emitted.
type Result struct {
	SeaPolygon        geomutil.Polygon
	RiverPolygon      geomutil.Polygon
	RiverBankSecondary geomutil.Polyline
}

// Generate runs the coast pass then the river pass against field, mutating
// field's Sea/River masks as a side effect (spec §4.4).
func Generate(field *tensorfield.TensorField, params citymodel.WaterParams, bounds geomutil.Bounds, rng *rand.Rand) Result {
	var res Result

	coastLine, ok := findBoundsSpanningLine(field, params, bounds, rng, true)
	if ok {
		coastLine = extendToEdges(coastLine, params.Dstep)
		seaRing := geomutil.LineRectanglePolygonIntersection(bounds, coastLine).Closed()
		res.SeaPolygon = geomutil.Polygon{Outer: seaRing}
		field.Sea = seaRing
	}

	field.WithoutSea(func() {
		riverLine, ok := findBoundsSpanningLine(field, params, bounds, rng, false)
		if !ok {
			return
		}
		riverLine = extendToEdges(riverLine, params.Dstep)
		footprint := geomutil.Resize(riverLine, params.RiverSize)
		inner := geomutil.Resize(riverLine, params.RiverSize-params.RiverBankSize)

		riverRing := geomutil.LineRectanglePolygonIntersection(bounds, inner).Closed()
		res.RiverPolygon = geomutil.Polygon{Outer: riverRing}

		footprintRing := footprint.Closed()
		res.RiverBankSecondary = partitionBank(footprintRing, res.SeaPolygon.Outer, bounds)

		field.River = riverRing
	})

	return res
}

// findBoundsSpanningLine repeatedly seeds and integrates a streamline
// (coast or river noise enabled) until one reaches both edges of bounds, up
// to 100 tries (spec §4.4 step 1/2).
func findBoundsSpanningLine(field *tensorfield.TensorField, params citymodel.WaterParams, bounds geomutil.Bounds, rng *rand.Rand, coast bool) (geomutil.Polyline, bool) {
	origin := bounds.Min
	dims := bounds.Extent()
	fi := integrator.RK4{Field: field, Dstep: params.Dstep}

	run := func() (geomutil.Polyline, bool) {
		gen := streamline.New(fi, field, origin, dims, params.StreamlineParams, rng)
		major := rng.Float64() < 0.5
		seed, ok := gen.GetSeed(major)
		if !ok {
			return nil, false
		}
		var line geomutil.Polyline
		if coast {
			field.WithCoastNoise(func() { line = gen.IntegrateStreamline(seed, major) })
		} else {
			field.WithRiverNoise(func() { line = gen.IntegrateStreamline(seed, major) })
		}
		if reachesBothEdges(line, bounds) {
			return gen.Simplify(line), true
		}
		return nil, false
	}

	for i := 0; i < 100; i++ {
		if line, ok := run(); ok {
			return line, true
		}
	}
	return nil, false
}

func reachesBothEdges(line geomutil.Polyline, bounds geomutil.Bounds) bool {
	if len(line) < 2 {
		return false
	}
	const eps = 1.0
	touches := func(p geomutil.Vec2) bool {
		return p.X <= bounds.Min.X+eps || p.X >= bounds.Max.X-eps ||
			p.Y <= bounds.Min.Y+eps || p.Y >= bounds.Max.Y-eps
	}
	return touches(line[0]) && touches(line[len(line)-1])
}

// extendToEdges extends both ends of line by 5*dstep along their tangents
// (spec §4.4 step 1 "extend both ends by 5*dstep along their tangents").
func extendToEdges(line geomutil.Polyline, dstep float64) geomutil.Polyline {
	if len(line) < 2 {
		return line
	}
	out := make(geomutil.Polyline, 0, len(line)+2)

	startTangent := line[0].Sub(line[1]).Normalize()
	out = append(out, line[0].Add(startTangent.Scale(5*dstep)))
	out = append(out, line...)
	endTangent := line[len(line)-1].Sub(line[len(line)-2]).Normalize()
	out = append(out, line[len(line)-1].Add(endTangent.Scale(5*dstep)))
	return out
}

// partitionBank turns the river footprint ring into the secondary bank
// polyline by dropping points that are off-screen or inside the sea (spec
// §4.4 step 2). No half-plane split is applied: the result is one polyline
// that keeps the remaining footprint points of both river sides.
func partitionBank(footprint geomutil.Polyline, sea geomutil.Polyline, bounds geomutil.Bounds) geomutil.Polyline {
	var out geomutil.Polyline
	for _, p := range footprint {
		if !bounds.Contains(p) {
			continue
		}
		if len(sea) >= 3 && geomutil.InsidePolygon(sea, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
