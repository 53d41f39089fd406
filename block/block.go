// Package block implements the block polygonizer of spec §4.7: shared
// linework preprocessing (sanitize, endpoint snap, intersection insertion,
// dedup) feeding either the Legacy face-walk or the PolygonEngine
// snap-and-heal mode, both selectable by params.BlockGenMode.
package block

import (
	"math"
	"sort"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/graph"
)

// Result carries the produced block polygons, debug faces, and stats.
type Result struct {
	Blocks []geomutil.BlockPolygon
	Faces  []citymodel.BlockFace
	Stats  citymodel.BlockDebugStats
}

type roadInput struct {
	points  geomutil.Polyline
	rtype   citymodel.RoadType
	closure bool
}

// Generate polygonizes the block network from every road class, falling
// back to one block per district border if nothing is produced (spec §4.7,
// §7).
func Generate(
	roadsByType map[citymodel.RoadType][]geomutil.Polyline,
	params citymodel.CityParams,
	field *citymodel.DistrictField,
	fieldSample func(geomutil.Vec2) int,
	districts []citymodel.District,
	bounds geomutil.Bounds,
) Result {
	var inputs []roadInput
	for _, class := range append(append([]citymodel.RoadType{}, citymodel.RoadTypeOrder...), citymodel.MMajor, citymodel.MMinor) {
		rp, ok := params.RoadClasses[class]
		barrier := !ok || rp.BlockBarrier
		closure := !ok || rp.BlockClosure
		if !barrier {
			continue
		}
		for _, line := range roadsByType[class] {
			if len(line) < 2 {
				continue
			}
			inputs = append(inputs, roadInput{points: line, rtype: class, closure: closure})
		}
	}

	stats := citymodel.BlockDebugStats{Inputs: len(inputs)}

	nearMiss := params.NearMissTolerance
	if nearMiss <= 0 {
		nearMiss = 2.0
	}
	segments, closureOf := preprocess(inputs, nearMiss, params.MergeRadius)
	stats.Segments = len(segments)

	var lines []geomutil.Polyline
	for _, s := range segments {
		lines = append(lines, geomutil.Polyline{s.a, s.b})
	}

	var blocks []geomutil.BlockPolygon
	var faces []citymodel.BlockFace

	switch params.BlockGenMode {
	case citymodel.PolygonEngine:
		blocks, faces, stats = polygonEngineMode(lines, closureOf, segments, params, field, fieldSample, districts, bounds, stats)
	default:
		blocks, faces, stats = legacyMode(lines, closureOf, segments, params, fieldSample, bounds, stats)
	}

	if len(blocks) == 0 {
		blocks = districtFallback(districts, bounds)
	}

	return Result{Blocks: blocks, Faces: faces, Stats: stats}
}

type segment struct {
	a, b    geomutil.Vec2
	rtype   citymodel.RoadType
	closure bool
}

// preprocess runs spec §4.7's shared preprocessing: sanitize colinear runs,
// snap endpoints onto nearby segments, insert intersections/near-misses,
// and de-duplicate.
func preprocess(inputs []roadInput, nearMiss, mergeRadius float64) ([]segment, map[[2]geomutil.Vec2]bool) {
	var raw []segment
	for _, in := range inputs {
		sanitized := sanitizePolyline(in.points, math.Max(1e-6, 0.01))
		for i := 0; i+1 < len(sanitized); i++ {
			raw = append(raw, segment{a: sanitized[i], b: sanitized[i+1], rtype: in.rtype, closure: in.closure})
		}
	}

	snapEndpoints(raw, nearMiss, math.Max(1.0, 0.25*mergeRadius))
	raw = insertIntersections(raw)

	eps := math.Max(1.0, 0.25*mergeRadius)
	seen := map[[4]int64]bool{}
	closureOf := map[[2]geomutil.Vec2]bool{}
	var out []segment
	keyOf := func(p geomutil.Vec2) [2]int64 {
		return [2]int64{int64(math.Round(p.X / eps)), int64(math.Round(p.Y / eps))}
	}
	for _, s := range raw {
		if geomutil.Distance(s.a, s.b) < 1e-6 {
			continue
		}
		ka, kb := keyOf(s.a), keyOf(s.b)
		key := [4]int64{ka[0], ka[1], kb[0], kb[1]}
		rkey := [4]int64{kb[0], kb[1], ka[0], ka[1]}
		if seen[key] || seen[rkey] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		closureOf[[2]geomutil.Vec2{s.a, s.b}] = s.closure
		closureOf[[2]geomutil.Vec2{s.b, s.a}] = s.closure
	}
	return out, closureOf
}

// sanitizePolyline drops sub-eps colinear runs (spec §4.7 step 1), grounded
// on original_source/BlockGenerator.cpp's sanitize_polyline.
func sanitizePolyline(points geomutil.Polyline, eps float64) geomutil.Polyline {
	var out geomutil.Polyline
	epsSq := eps * eps
	for _, p := range points {
		if len(out) == 0 {
			out = append(out, p)
			continue
		}
		if geomutil.DistanceSquared(out[len(out)-1], p) <= epsSq {
			continue
		}
		if len(out) >= 2 {
			a, b := out[len(out)-2], out[len(out)-1]
			abLen := geomutil.Distance(a, b)
			bcLen := geomutil.Distance(b, p)
			crossVal := math.Abs(b.Sub(a).Cross(p.Sub(b)))
			denom := math.Max(1e-6, abLen*bcLen)
			if crossVal/denom <= 0.01 {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// snapEndpoints projects each endpoint onto any other segment within
// nearMiss, snapping to that segment's own endpoint if within mergeRadius
// of it (spec §4.7 step 2).
func snapEndpoints(segs []segment, nearMiss, mergeRadius float64) {
	for i := range segs {
		for _, endpoint := range []*geomutil.Vec2{&segs[i].a, &segs[i].b} {
			best := *endpoint
			bestDist := nearMiss
			found := false
			for j := range segs {
				if i == j {
					continue
				}
				d := geomutil.DistanceToSegment(*endpoint, segs[j].a, segs[j].b)
				if d > bestDist {
					continue
				}
				proj := projectToSegment(*endpoint, segs[j].a, segs[j].b)
				if geomutil.Distance(proj, segs[j].a) <= mergeRadius {
					proj = segs[j].a
				} else if geomutil.Distance(proj, segs[j].b) <= mergeRadius {
					proj = segs[j].b
				}
				best = proj
				bestDist = d
				found = true
			}
			if found && geomutil.Distance(*endpoint, best) > 1e-6 {
				*endpoint = best
			}
		}
	}
}

func projectToSegment(p, a, b geomutil.Vec2) geomutil.Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq <= 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// insertIntersections splits segments at every pairwise crossing (spec
// §4.7 step 4).
func insertIntersections(segs []segment) []segment {
	type cut struct {
		seg int
		t   float64
	}
	cuts := map[int][]float64{}
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			if ip, ok := geomutil.SegmentIntersect(segs[i].a, segs[i].b, segs[j].a, segs[j].b); ok {
				cuts[i] = append(cuts[i], paramOf(segs[i].a, segs[i].b, ip))
				cuts[j] = append(cuts[j], paramOf(segs[j].a, segs[j].b, ip))
			}
		}
	}

	var out []segment
	for i, s := range segs {
		ts := append([]float64{0, 1}, cuts[i]...)
		sort.Float64s(ts)
		for k := 0; k+1 < len(ts); k++ {
			if ts[k+1]-ts[k] < 1e-9 {
				continue
			}
			a := s.a.Add(s.b.Sub(s.a).Scale(ts[k]))
			b := s.a.Add(s.b.Sub(s.a).Scale(ts[k+1]))
			out = append(out, segment{a: a, b: b, rtype: s.rtype, closure: s.closure})
		}
	}
	return out
}

func paramOf(a, b, p geomutil.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSquared()
	if lenSq == 0 {
		return 0
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t
}

// legacyMode builds the planar graph of §4.6 and accepts faces whose every
// boundary edge is closure-marked, removing the single largest outer frame
// (spec §4.7 "Legacy mode").
func legacyMode(lines []geomutil.Polyline, closureOf map[[2]geomutil.Vec2]bool, segs []segment, params citymodel.CityParams, fieldSample func(geomutil.Vec2) int, bounds geomutil.Bounds, stats citymodel.BlockDebugStats) ([]geomutil.BlockPolygon, []citymodel.BlockFace, citymodel.BlockDebugStats) {
	g := graph.New(lines, math.Max(1.0, params.MergeRadius*4), false)
	candidateFaces := g.Faces(0)
	stats.FacesFound = len(candidateFaces)

	type scoredFace struct {
		ring geomutil.Polyline
		area float64
	}
	var allFaces []scoredFace
	for _, ring := range candidateFaces {
		if !allEdgesClosure(ring, closureOf) {
			continue
		}
		area := math.Abs(geomutil.PolygonArea(ring.Closed()))
		if area < params.MinBlockArea || area > params.MaxBlockArea {
			stats.SkippedPolygons++
			continue
		}
		allFaces = append(allFaces, scoredFace{ring, area})
	}

	sort.Slice(allFaces, func(i, j int) bool { return allFaces[i].area > allFaces[j].area })

	var faces []citymodel.BlockFace
	var blocks []geomutil.BlockPolygon
	for i, f := range allFaces {
		if i == 0 && len(allFaces) > 1 {
			nextArea := allFaces[1].area
			touchesBounds := ringTouchesBounds(f.ring, bounds, 2*params.MergeRadius)
			muchLarger := f.area > params.LargestFaceThreshold*nextArea
			if touchesBounds || muchLarger {
				continue
			}
		}
		districtID := 0
		if fieldSample != nil {
			districtID = fieldSample(geomutil.AveragePoint(f.ring))
		}
		faces = append(faces, citymodel.BlockFace{Outer: f.ring, DistrictID: districtID})
		blocks = append(blocks, geomutil.BlockPolygon{Outer: f.ring.Closed()})
		stats.ValidBlocks++
	}
	return blocks, faces, stats
}

func allEdgesClosure(ring geomutil.Polyline, closureOf map[[2]geomutil.Vec2]bool) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		if !closureOf[[2]geomutil.Vec2{a, b}] {
			return false
		}
	}
	return true
}

func ringTouchesBounds(ring geomutil.Polyline, bounds geomutil.Bounds, tol float64) bool {
	for _, p := range ring {
		if p.X-bounds.Min.X < tol || bounds.Max.X-p.X < tol || p.Y-bounds.Min.Y < tol || bounds.Max.Y-p.Y < tol {
			return true
		}
	}
	return false
}

// polygonEngineMode applies snap-rounding and dangling-endpoint pruning
// before reusing the same face walk as Legacy mode, then validates each
// face against the district it falls in (spec §4.7 "Polygon-engine mode").
// See DESIGN.md for why this does not call into a third-party DCEL library.
func polygonEngineMode(lines []geomutil.Polyline, closureOf map[[2]geomutil.Vec2]bool, segs []segment, params citymodel.CityParams, field *citymodel.DistrictField, fieldSample func(geomutil.Vec2) int, districts []citymodel.District, bounds geomutil.Bounds, stats citymodel.BlockDebugStats) ([]geomutil.BlockPolygon, []citymodel.BlockFace, citymodel.BlockDebugStats) {
	tol := math.Max(1e-6, params.MergeRadius*params.BlockSnapToleranceFactor)
	snapped := snapRound(lines, tol)
	pruned, pruneCount := pruneDangling(snapped, tol)
	stats.RepairedPolygons += pruneCount

	g := graph.New(pruned, math.Max(1.0, params.MergeRadius*4), true)
	candidateFaces := g.Faces(0)
	stats.FacesFound += len(candidateFaces)

	borderByID := make(map[int]geomutil.Polyline, len(districts))
	for _, d := range districts {
		borderByID[d.ID] = d.Border
	}

	var blocks []geomutil.BlockPolygon
	var faces []citymodel.BlockFace

	for _, ring := range candidateFaces {
		area := math.Abs(geomutil.PolygonArea(ring.Closed()))
		if area < params.MinBlockArea || area > params.MaxBlockArea {
			stats.SkippedPolygons++
			continue
		}
		centroid := geomutil.AveragePoint(ring)
		districtID := 0
		if fieldSample != nil {
			districtID = fieldSample(centroid)
		}

		// Clip to the district polygon via intersection; re-check area on
		// the clipped ring (spec §4.7 "Clip to district polygon").
		clipped := ring
		if border, ok := borderByID[districtID]; ok && len(border) >= 3 {
			if c := geomutil.ClipPolygonByPolygon(ring, border); len(c) >= 3 {
				clipped = c
			} else {
				stats.SkippedPolygons++
				continue
			}
			clippedArea := math.Abs(geomutil.PolygonArea(clipped.Closed()))
			if clippedArea < params.MinBlockArea || clippedArea > params.MaxBlockArea {
				stats.SkippedPolygons++
				continue
			}
		}

		if !closableBoundary(ring, segs, math.Max(1.0, 0.75*params.MergeRadius)) {
			faces = append(faces, citymodel.BlockFace{Outer: ring, DistrictID: districtID})
			continue
		}

		blocks = append(blocks, geomutil.BlockPolygon{Outer: clipped.Closed()})
		faces = append(faces, citymodel.BlockFace{Outer: ring, DistrictID: districtID})
		stats.ValidBlocks++
	}
	return blocks, faces, stats
}

// snapRound rounds every vertex to a tol-sized grid, healing near-miss
// topology without a full buffer/unbuffer geometry pass.
func snapRound(lines []geomutil.Polyline, tol float64) []geomutil.Polyline {
	round := func(p geomutil.Vec2) geomutil.Vec2 {
		return geomutil.Vec2{X: math.Round(p.X/tol) * tol, Y: math.Round(p.Y/tol) * tol}
	}
	out := make([]geomutil.Polyline, 0, len(lines))
	for _, line := range lines {
		var rounded geomutil.Polyline
		for _, p := range line {
			rp := round(p)
			if len(rounded) == 0 || geomutil.Distance(rounded[len(rounded)-1], rp) > 1e-9 {
				rounded = append(rounded, rp)
			}
		}
		if len(rounded) >= 2 {
			out = append(out, rounded)
		}
	}
	return out
}

// pruneDangling iteratively drops endpoints of geometric degree 1 by
// building a temporary graph and removing lines with an unshared endpoint.
func pruneDangling(lines []geomutil.Polyline, tol float64) ([]geomutil.Polyline, int) {
	g := graph.New(lines, tol*4, true)
	pruned := 0
	var out []geomutil.Polyline
	for _, line := range lines {
		if len(line) < 2 {
			pruned++
			continue
		}
		// Query the pruned graph within its own merge radius rather than by
		// exact Pos equality: a surviving node's Pos is the representative
		// of everything merged into it, which need not equal either of this
		// line's original (pre-merge) endpoint coordinates.
		if _, ok := g.FindNode(line[0]); !ok {
			pruned++
			continue
		}
		if _, ok := g.FindNode(line[len(line)-1]); !ok {
			pruned++
			continue
		}
		out = append(out, line)
	}
	return out, pruned
}

// closableBoundary re-verifies every outer edge is backed by a closure-
// marked segment intersecting it or within eps of both endpoints (spec §4.7
// "Re-verify boundary closability").
func closableBoundary(ring geomutil.Polyline, segs []segment, eps float64) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		ok := false
		for _, s := range segs {
			if !s.closure {
				continue
			}
			if _, intersects := geomutil.SegmentIntersect(a, b, s.a, s.b); intersects {
				ok = true
				break
			}
			if geomutil.Distance(a, s.a) <= eps && geomutil.Distance(b, s.b) <= eps {
				ok = true
				break
			}
			if geomutil.Distance(a, s.b) <= eps && geomutil.Distance(b, s.a) <= eps {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// districtFallback treats each district border as a single block polygon
// when no block was produced (spec §7).
func districtFallback(districts []citymodel.District, bounds geomutil.Bounds) []geomutil.BlockPolygon {
	if len(districts) == 0 {
		return []geomutil.BlockPolygon{{Outer: geomutil.Polyline{
			{X: bounds.Min.X, Y: bounds.Min.Y}, {X: bounds.Max.X, Y: bounds.Min.Y},
			{X: bounds.Max.X, Y: bounds.Max.Y}, {X: bounds.Min.X, Y: bounds.Max.Y},
			{X: bounds.Min.X, Y: bounds.Min.Y},
		}}}
	}
	var out []geomutil.BlockPolygon
	for _, d := range districts {
		if len(d.Border) >= 4 {
			out = append(out, geomutil.BlockPolygon{Outer: d.Border})
		}
	}
	return out
}
