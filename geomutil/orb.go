package geomutil

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// ToOrbRing converts a Polyline to an orb.Ring for consumption by orb-based
// tooling (simplification, future spatial indices).
func ToOrbRing(p Polyline) orb.Ring {
	ring := make(orb.Ring, len(p))
	for i, v := range p {
		ring[i] = orb.Point{v.X, v.Y}
	}
	return ring
}

// ToOrbLineString converts a Polyline to an orb.LineString.
func ToOrbLineString(p Polyline) orb.LineString {
	ls := make(orb.LineString, len(p))
	for i, v := range p {
		ls[i] = orb.Point{v.X, v.Y}
	}
	return ls
}

// FromOrbLineString converts an orb.LineString back to a Polyline.
func FromOrbLineString(ls orb.LineString) Polyline {
	out := make(Polyline, len(ls))
	for i, p := range ls {
		out[i] = Vec2{p[0], p[1]}
	}
	return out
}

// DouglasPeucker simplifies line at the given tolerance using orb/simplify,
// backing StreamlineGenerator.Simplify (spec §4.3).
func DouglasPeucker(line Polyline, tolerance float64) Polyline {
	if len(line) < 3 {
		return line
	}
	simplifier := simplify.DouglasPeucker(tolerance)
	simplified := simplifier.Simplify(ToOrbLineString(line))
	return FromOrbLineString(simplified.(orb.LineString))
}
