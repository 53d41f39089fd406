// Package roads implements the fixed-order road generator of spec §4.5: one
// streamline tier per class, filtered for cross-class proximity and budget,
// then a post-hoc graph-rules pass over the merged segment network.
package roads

import (
	"math"
	"math/rand"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/graph"
	"github.com/voidshard/citygen/integrator"
	"github.com/voidshard/citygen/streamline"
	"github.com/voidshard/citygen/tensorfield"
)

// Result carries both road representations plus the per-class accepted
// counts used for the §8 budget property.
type Result struct {
	RoadsByType        map[citymodel.RoadType][]geomutil.Polyline
	SegmentRoadsByType map[citymodel.RoadType][]citymodel.Road
	Accepted           map[citymodel.RoadType]int
}

// Generate runs every enabled class in spec.md's fixed order, then the
// graph-rules pass (spec §4.5).
func Generate(field *tensorfield.TensorField, params citymodel.CityParams, water []geomutil.Polyline, bounds geomutil.Bounds, rng *rand.Rand) Result {
	res := Result{
		RoadsByType:        map[citymodel.RoadType][]geomutil.Polyline{},
		SegmentRoadsByType: map[citymodel.RoadType][]citymodel.Road{},
		Accepted:           map[citymodel.RoadType]int{},
	}

	origin := bounds.Min
	dims := bounds.Extent()
	area := dims.X * dims.Y

	var priorAccepted []geomutil.Polyline
	priorAccepted = append(priorAccepted, water...)

	majorBudget := params.MaxMajorRoads
	totalBudget := params.MaxTotalRoads

	nextSegmentID := 1

	for _, class := range citymodel.RoadTypeOrder {
		rp, ok := params.RoadClasses[class]
		if !ok || !rp.Enabled || totalBudget <= 0 {
			continue
		}
		if citymodel.MajorGroup[class] && majorBudget <= 0 {
			continue
		}

		fi := integrator.RK4{Field: field, Dstep: rp.Dstep}
		gen := streamline.New(fi, field, origin, dims, rp.StreamlineParams, rng)
		for _, line := range priorAccepted {
			gen.MajorGrid.AddPolyline(line)
			gen.MinorGrid.AddPolyline(line)
		}

		maxLines := int(math.Max(1, area/(rp.Dsep*rp.Dsep)))
		gen.GenerateTier(rp.MajorDirection, maxLines)

		proximityRadius := math.Max(5, 0.35*rp.Dsep)

		var acceptedSimple []geomutil.Polyline
		for i, simple := range gen.AllStreamlinesSimple {
			if len(simple) < 2 {
				continue
			}
			if totalBudget <= 0 {
				break
			}
			if citymodel.MajorGroup[class] && majorBudget <= 0 {
				break
			}
			if closeToPrior(simple, priorAccepted, proximityRadius) {
				continue
			}
			acceptedSimple = append(acceptedSimple, simple)
			priorAccepted = append(priorAccepted, gen.AllStreamlines[i])
			totalBudget--
			if citymodel.MajorGroup[class] {
				majorBudget--
			}
		}

		res.RoadsByType[class] = acceptedSimple
		res.Accepted[class] = len(acceptedSimple)

		if len(acceptedSimple) == 0 {
			continue
		}

		classGraph := graph.New(acceptedSimple, rp.Dstep, false)
		seen := map[[2]int]bool{}
		for u := range classGraph.Nodes {
			for _, v := range classGraph.Nodes[u].Adj {
				key := [2]int{u, v}
				if u > v {
					key = [2]int{v, u}
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				res.SegmentRoadsByType[class] = append(res.SegmentRoadsByType[class], citymodel.Road{
					ID:     nextSegmentID,
					Points: geomutil.Polyline{classGraph.Nodes[u].Pos, classGraph.Nodes[v].Pos},
					Type:   class,
				})
				nextSegmentID++
			}
		}
	}

	applyGraphRules(res, params)
	return res
}

// closeToPrior implements spec §4.5 step 3: reject if >=60% of <=16
// equally-spaced samples lie within radius of any previously accepted line.
func closeToPrior(line geomutil.Polyline, prior []geomutil.Polyline, radius float64) bool {
	if len(line) < 2 {
		return false
	}
	const maxSamples = 16
	n := len(line)
	if n > maxSamples {
		n = maxSamples
	}
	nearCount := 0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		idx := int(t * float64(len(line)-1))
		p := line[idx]
		for _, other := range prior {
			if geomutil.DistanceToPolyline(p, other) <= radius {
				nearCount++
				break
			}
		}
	}
	return float64(nearCount)/float64(n) >= 0.6
}

// applyGraphRules is spec §4.5's "Graph rules pass": rebuild a merged node
// structure across all segment roads (merge radius 1.0), discard edges by
// class/length/intersection rules, then iteratively prune dead ends until
// stable, finally renumbering segment ids from 1.
func applyGraphRules(res Result, params citymodel.CityParams) {
	type edge struct {
		class citymodel.RoadType
		a, b  geomutil.Vec2
	}
	var all []edge
	var lines []geomutil.Polyline
	for _, class := range append(append([]citymodel.RoadType{}, citymodel.RoadTypeOrder...), citymodel.MMajor, citymodel.MMinor) {
		for _, r := range res.SegmentRoadsByType[class] {
			if len(r.Points) < 2 {
				continue
			}
			all = append(all, edge{class, r.Points[0], r.Points[1]})
			lines = append(lines, r.Points)
		}
	}
	if len(all) == 0 {
		return
	}

	g := graph.New(lines, 4.0, false) // merge radius 1.0 -> dstep=4.0 so 0.25*dstep=1.0

	type kept struct {
		class citymodel.RoadType
		u, v  int
	}
	var candidates []kept
	nodeOf := func(p geomutil.Vec2) int {
		best, bestD := -1, math.Inf(1)
		for i, n := range g.Nodes {
			if d := geomutil.Distance(n.Pos, p); d < bestD {
				best, bestD = i, d
			}
		}
		return best
	}
	for _, e := range all {
		u, v := nodeOf(e.a), nodeOf(e.b)
		if u == v {
			continue
		}
		candidates = append(candidates, kept{e.class, u, v})
	}

	touchesOtherClass := func(node int, mask map[citymodel.RoadType]bool, self citymodel.RoadType) bool {
		for _, c := range candidates {
			if c.u != node && c.v != node {
				continue
			}
			if c.class == self {
				continue
			}
			if !mask[c.class] {
				return true
			}
		}
		return false
	}

	var filtered []kept
	for _, c := range candidates {
		rp := params.RoadClasses[c.class]
		if !rp.Enabled {
			continue
		}
		length := geomutil.Distance(g.Nodes[c.u].Pos, g.Nodes[c.v].Pos)
		if length < rp.MinEdgeLength || length > rp.MaxEdgeLength {
			continue
		}
		if touchesOtherClass(c.u, rp.AllowIntersectionsMask, c.class) || touchesOtherClass(c.v, rp.AllowIntersectionsMask, c.class) {
			continue
		}
		filtered = append(filtered, c)
	}

	degree := func(keep []kept) map[int]int {
		d := map[int]int{}
		for _, c := range keep {
			d[c.u]++
			d[c.v]++
		}
		return d
	}

	for {
		d := degree(filtered)
		var next []kept
		changed := false
		for _, c := range filtered {
			rp := params.RoadClasses[c.class]
			du, dv := d[c.u], d[c.v]
			if !rp.AllowDeadEnds && (du <= 1 || dv <= 1) {
				changed = true
				continue
			}
			if rp.RequireDeadEnd && du > 1 && dv > 1 {
				changed = true
				continue
			}
			next = append(next, c)
		}
		filtered = next
		if !changed {
			break
		}
	}

	for class := range res.SegmentRoadsByType {
		res.SegmentRoadsByType[class] = nil
	}
	nextID := 1
	for _, c := range filtered {
		res.SegmentRoadsByType[c.class] = append(res.SegmentRoadsByType[c.class], citymodel.Road{
			ID:     nextID,
			Points: geomutil.Polyline{g.Nodes[c.u].Pos, g.Nodes[c.v].Pos},
			Type:   c.class,
		})
		nextID++
	}
}
