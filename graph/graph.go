// Package graph builds the planar graph of spec §4.6 from a set of
// streamlines and recovers its enclosed faces via angle-sorted traversal.
// Adjacency is kept as explicit index-based arrays (`Nodes[i].Adj []int`)
// per spec §9's "graph adjacency by index, never by reference" note: the
// face walk must re-sort neighbours by angle at every node, which a
// reference- or string-keyed graph library gains nothing from backing.
package graph

import (
	"math"
	"sort"

	"github.com/voidshard/citygen/geomutil"
)

// Node is one graph vertex, with its position and an angle-sortable
// adjacency list of neighbour indices.
type Node struct {
	Pos geomutil.Vec2
	Adj []int
}

// Graph is the planar graph + merge-radius node store of spec §4.6.
type Graph struct {
	Nodes       []Node
	mergeRadius float64
	index       map[[2]int][]int // coarse spatial hash -> node indices, for O(1)-ish merge lookup
}

// New builds the planar graph over streamlines with merge radius
// max(0.001, 0.25*dstep) and, if deleteDangling, iteratively removes
// degree-<=1 nodes (spec §4.6 steps 1-4).
func New(streamlines []geomutil.Polyline, dstep float64, deleteDangling bool) *Graph {
	mergeRadius := math.Max(0.001, 0.25*dstep)
	g := &Graph{
		mergeRadius: mergeRadius,
		index:       map[[2]int][]int{},
	}

	type segment struct{ from, to geomutil.Vec2 }
	var segments []segment
	for _, s := range streamlines {
		for i := 0; i+1 < len(s); i++ {
			segments = append(segments, segment{s[i], s[i+1]})
		}
	}

	var intersections []geomutil.Vec2
	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			if ip, ok := geomutil.SegmentIntersect(segments[i].from, segments[i].to, segments[j].from, segments[j].to); ok {
				intersections = append(intersections, ip)
			}
		}
	}

	for _, s := range streamlines {
		if len(s) < 2 {
			continue
		}
		points := append(geomutil.Polyline{}, s...)
		for _, inter := range intersections {
			for i := 0; i+1 < len(s); i++ {
				if onSegment(s[i], s[i+1], inter) {
					points = append(points, inter)
				}
			}
		}
		start := s[0]
		sort.Slice(points, func(a, b int) bool {
			return geomutil.DistanceSquared(points[a], start) < geomutil.DistanceSquared(points[b], start)
		})

		prev := -1
		for _, p := range points {
			idx := g.addOrGetNode(p)
			if prev != -1 && prev != idx && !g.hasAdj(prev, idx) {
				g.Nodes[prev].Adj = append(g.Nodes[prev].Adj, idx)
				g.Nodes[idx].Adj = append(g.Nodes[idx].Adj, prev)
			}
			prev = idx
		}
	}

	if deleteDangling {
		g.deleteDangling()
	}
	return g
}

func onSegment(a, b, p geomutil.Vec2) bool {
	c := a.Sub(b).Cross(p.Sub(b))
	if math.Abs(c) > 1e-6 {
		return false
	}
	dot1 := p.Sub(a).Dot(b.Sub(a))
	dot2 := p.Sub(b).Dot(a.Sub(b))
	return dot1 >= 0 && dot2 >= 0
}

func (g *Graph) cellKey(p geomutil.Vec2) [2]int {
	return [2]int{int(math.Floor(p.X / g.mergeRadius)), int(math.Floor(p.Y / g.mergeRadius))}
}

// addOrGetNode returns the index of an existing node within mergeRadius of
// p, or creates a new one.
func (g *Graph) addOrGetNode(p geomutil.Vec2) int {
	k := g.cellKey(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			nk := [2]int{k[0] + dx, k[1] + dy}
			for _, idx := range g.index[nk] {
				if geomutil.Distance(g.Nodes[idx].Pos, p) <= g.mergeRadius {
					return idx
				}
			}
		}
	}
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{Pos: p})
	g.index[k] = append(g.index[k], idx)
	return idx
}

// FindNode returns the index of an existing node within merge radius of p,
// without creating one (read-only counterpart to addOrGetNode, for callers
// that need to test membership after the graph has been built and possibly
// pruned).
func (g *Graph) FindNode(p geomutil.Vec2) (int, bool) {
	k := g.cellKey(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			nk := [2]int{k[0] + dx, k[1] + dy}
			for _, idx := range g.index[nk] {
				if geomutil.Distance(g.Nodes[idx].Pos, p) <= g.mergeRadius {
					return idx, true
				}
			}
		}
	}
	return 0, false
}

func (g *Graph) hasAdj(a, b int) bool {
	for _, n := range g.Nodes[a].Adj {
		if n == b {
			return true
		}
	}
	return false
}

// deleteDangling iteratively removes degree-<=1 nodes, rebuilding indices,
// until no more can be removed (spec §4.6 step 4).
func (g *Graph) deleteDangling() {
	for {
		removed := false
		keep := make([]bool, len(g.Nodes))
		for i := range g.Nodes {
			keep[i] = len(g.Nodes[i].Adj) > 1
			if !keep[i] {
				removed = true
			}
		}
		if !removed {
			return
		}
		g.rebuild(keep)
	}
}

func (g *Graph) rebuild(keep []bool) {
	remap := make([]int, len(g.Nodes))
	var nodes []Node
	for i, k := range keep {
		if k {
			remap[i] = len(nodes)
			nodes = append(nodes, Node{Pos: g.Nodes[i].Pos})
		} else {
			remap[i] = -1
		}
	}
	for i, k := range keep {
		if !k {
			continue
		}
		ni := remap[i]
		for _, adj := range g.Nodes[i].Adj {
			if keep[adj] {
				nodes[ni].Adj = append(nodes[ni].Adj, remap[adj])
			}
		}
	}
	g.Nodes = nodes
	g.index = map[[2]int][]int{}
	for i, n := range g.Nodes {
		g.index[g.cellKey(n.Pos)] = append(g.index[g.cellKey(n.Pos)], i)
	}
}

// Degree returns the number of neighbours of node i.
func (g *Graph) Degree(i int) int { return len(g.Nodes[i].Adj) }

// RemoveVertex deletes node i and all its edges (spec §4.6's node-merge
// structure supports deletion for the dangling-node pass; exposed for
// callers that rebuild incrementally).
func (g *Graph) RemoveVertex(i int) {
	keep := make([]bool, len(g.Nodes))
	for j := range g.Nodes {
		keep[j] = j != i
	}
	g.rebuild(keep)
}

type directedEdge struct{ u, v int }

// Faces walks every directed edge once, tracing the minimal face reachable
// by repeatedly stepping at the current node to the neighbour one step
// counter-clockwise of the incoming direction, per spec §4.6 "Face walk".
// Candidate faces are returned unfiltered by area; callers apply
// [min_area, max_area] themselves.
func (g *Graph) Faces(maxSteps int) []geomutil.Polyline {
	if maxSteps <= 0 {
		maxSteps = 4 * len(g.Nodes)
	}
	sorted := make([][]int, len(g.Nodes))
	for i, n := range g.Nodes {
		nb := append([]int{}, n.Adj...)
		sort.Slice(nb, func(a, b int) bool {
			return angleTo(n.Pos, g.Nodes[nb[a]].Pos) < angleTo(n.Pos, g.Nodes[nb[b]].Pos)
		})
		sorted[i] = nb
	}

	used := map[directedEdge]bool{}
	var faces []geomutil.Polyline

	for u := range g.Nodes {
		for _, v := range g.Nodes[u].Adj {
			start := directedEdge{u, v}
			if used[start] {
				continue
			}
			face, ok := g.traceFace(start, sorted, used, maxSteps)
			if ok && len(face) >= 3 {
				faces = append(faces, face)
			}
		}
	}
	return faces
}

func (g *Graph) traceFace(start directedEdge, sorted [][]int, used map[directedEdge]bool, maxSteps int) (geomutil.Polyline, bool) {
	var face geomutil.Polyline
	cur := start
	for step := 0; step < maxSteps; step++ {
		if used[cur] {
			return nil, false
		}
		used[cur] = true
		face = append(face, g.Nodes[cur.u].Pos)

		incomingAngle := angleTo(g.Nodes[cur.v].Pos, g.Nodes[cur.u].Pos)
		next, ok := nextCCW(sorted[cur.v], cur.v, incomingAngle, g)
		if !ok {
			return nil, false
		}
		nextEdge := directedEdge{cur.v, next}
		if nextEdge == start {
			return face, true
		}
		cur = nextEdge
	}
	return nil, false
}

func angleTo(from, to geomutil.Vec2) float64 {
	d := to.Sub(from)
	return math.Atan2(d.Y, d.X)
}

// nextCCW returns the neighbour immediately counter-clockwise of
// incomingAngle in node v's angle-sorted neighbour list.
func nextCCW(neighbours []int, v int, incomingAngle float64, g *Graph) (int, bool) {
	if len(neighbours) == 0 {
		return 0, false
	}
	best := -1
	bestDelta := math.Inf(1)
	for _, n := range neighbours {
		a := angleTo(g.Nodes[v].Pos, g.Nodes[n].Pos)
		delta := a - incomingAngle
		for delta <= 0 {
			delta += 2 * math.Pi
		}
		for delta > 2*math.Pi {
			delta -= 2 * math.Pi
		}
		if delta < bestDelta {
			bestDelta = delta
			best = n
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
