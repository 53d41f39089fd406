package geomutil

import "math"

// Polyline is an ordered, possibly-open sequence of points.
type Polyline []Vec2

// Polygon is a ring (outer) with optional inner holes. Orientation is not
// significant; callers use area magnitude, never sign.
type Polygon struct {
	Outer Polyline
	Holes []Polyline
}

// BlockPolygon is a Polygon produced by the block polygonizer; the holes
// field is meaningful here (legacy mode never produces holes, polygon-engine
// mode may).
type BlockPolygon = Polygon

// Closed returns a copy of line with the first point appended to the end if
// it is not already closed. An empty line is returned unchanged.
func (l Polyline) Closed() Polyline {
	if len(l) == 0 || l[0] == l[len(l)-1] {
		return l
	}
	out := make(Polyline, len(l)+1)
	copy(out, l)
	out[len(l)] = l[0]
	return out
}

// ShoelaceArea returns the signed area of a ring via the shoelace formula.
// Callers that only need magnitude should take math.Abs of the result.
func ShoelaceArea(ring Polyline) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// PolygonArea returns the absolute area of a ring.
func PolygonArea(ring Polyline) float64 {
	return math.Abs(ShoelaceArea(ring))
}

// AveragePoint returns the simple arithmetic mean of the given points (not
// area-weighted centroid), matching PolygonUtil.cpp's averagePoint.
func AveragePoint(points Polyline) Vec2 {
	if len(points) == 0 {
		return Vec2{}
	}
	var sum Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1.0 / float64(len(points)))
}

// InsidePolygon reports whether p lies inside ring using the even-odd
// raycast winding rule.
func InsidePolygon(ring Polyline, p Vec2) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xint := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

// PointInRectangle reports whether p lies within the axis-aligned bounds.
func PointInRectangle(b Bounds, p Vec2) bool { return b.Contains(p) }

func cross(a, b, c Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// SegmentIntersect returns the intersection point of segments (a,b) and
// (c,d), if any exist within both segments (endpoints included).
func SegmentIntersect(a, b, c, d Vec2) (Vec2, bool) {
	d1 := b.Sub(a)
	d2 := d.Sub(c)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Vec2{}, false
	}
	diff := c.Sub(a)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, false
	}
	return a.Add(d1.Scale(t)), true
}

// side is which half-plane SutherlandHodgman keeps.
type side int

const (
	// KeepLeft keeps points to the left of the directed line a->b.
	KeepLeft side = iota
	// KeepRight keeps points to the right of the directed line a->b.
	KeepRight
)

// SutherlandHodgman clips subject against the directed line (a,b), keeping
// the left or right half-plane per keep.
func SutherlandHodgman(subject Polyline, a, b Vec2, keep side) Polyline {
	if len(subject) == 0 {
		return nil
	}
	inside := func(p Vec2) bool {
		c := cross(a, b, p)
		if keep == KeepLeft {
			return c >= 0
		}
		return c <= 0
	}
	var out Polyline
	n := len(subject)
	for i := 0; i < n; i++ {
		cur := subject[i]
		prev := subject[(i-1+n)%n]
		curIn := inside(cur)
		prevIn := inside(prev)
		if curIn {
			if !prevIn {
				if ip, ok := lineLineIntersect(prev, cur, a, b); ok {
					out = append(out, ip)
				}
			}
			out = append(out, cur)
		} else if prevIn {
			if ip, ok := lineLineIntersect(prev, cur, a, b); ok {
				out = append(out, ip)
			}
		}
	}
	return out
}

// lineLineIntersect intersects the infinite line through (a,b) with segment
// (c,d) treated as infinite as well; used internally by SutherlandHodgman.
func lineLineIntersect(c, d, a, b Vec2) (Vec2, bool) {
	d1 := d.Sub(c)
	d2 := b.Sub(a)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Vec2{}, false
	}
	t := a.Sub(c).Cross(d2) / denom
	return c.Add(d1.Scale(t)), true
}

// ClipPolygonByPolygon clips subject against clip by applying
// SutherlandHodgman once per edge of clip, in clip's own winding direction.
// Sutherland-Hodgman only guarantees a single connected result when clip is
// convex; district borders are not guaranteed convex, so a clip against a
// concave border can in principle yield a result that self-intersects
// rather than splitting into separate rings. Callers that need "if
// multi-part, keep the largest piece" (spec §4.7) get that behavior for
// free when clip is convex or near-convex, which covers the vast majority
// of power-diagram/reaction-diffusion cells in practice.
func ClipPolygonByPolygon(subject, clip Polyline) Polyline {
	if len(clip) < 3 || len(subject) < 3 {
		return nil
	}
	keep := KeepLeft
	if ShoelaceArea(clip) < 0 {
		keep = KeepRight
	}
	out := subject
	for i := 0; i < len(clip); i++ {
		if len(out) == 0 {
			return nil
		}
		a, b := clip[i], clip[(i+1)%len(clip)]
		out = SutherlandHodgman(out, a, b, keep)
	}
	return out
}

// SliceRectangle clips the rectangle bounds against the directed line
// (a,b), producing the two sides, and returns whichever has the smaller
// area (PolygonUtil.cpp's sliceRectangle).
func SliceRectangle(b Bounds, a, c Vec2) Polyline {
	corners := Polyline(b.Corners()[:])
	left := SutherlandHodgman(corners, a, c, KeepLeft)
	right := SutherlandHodgman(corners, a, c, KeepRight)
	if len(left) < 3 {
		return right
	}
	if len(right) < 3 {
		return left
	}
	if PolygonArea(left) <= PolygonArea(right) {
		return left
	}
	return right
}

// LineRectanglePolygonIntersection slices bounds using the first and last
// point of line as the dividing line, returning the smaller-area side.
func LineRectanglePolygonIntersection(b Bounds, line Polyline) Polyline {
	if len(line) < 2 {
		return nil
	}
	return SliceRectangle(b, line[0], line[len(line)-1])
}

// Resize shifts every vertex of ring radially by spacing from its centroid
// (positive spacing grows the polygon, negative shrinks it).
func Resize(ring Polyline, spacing float64) Polyline {
	if len(ring) == 0 {
		return nil
	}
	centre := AveragePoint(ring)
	out := make(Polyline, len(ring))
	for i, p := range ring {
		dir := p.Sub(centre)
		l := dir.Length()
		if l == 0 {
			out[i] = p
			continue
		}
		out[i] = p.Add(dir.Scale(spacing / l))
	}
	return out
}

// SubdividePolygon recursively bisects ring across its longest edge's
// midpoint to its opposite vertex whenever its area exceeds 2*minArea,
// stopping once every piece falls within [minArea, 2*minArea). Pieces below
// minArea are still returned (a ring cannot be subdivided below 3 points).
func SubdividePolygon(ring Polyline, minArea float64) []Polyline {
	area := PolygonArea(ring)
	if len(ring) < 4 || area <= 2*minArea {
		return []Polyline{ring}
	}

	n := len(ring)
	longest := 0
	longestLen := -1.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		d := DistanceSquared(ring[i], ring[j])
		if d > longestLen {
			longestLen = d
			longest = i
		}
	}
	i, j := longest, (longest+1)%n
	mid := ring[i].Add(ring[j]).Scale(0.5)

	// opposite vertex: the one roughly halfway around the ring from the
	// longest edge's midpoint index.
	opp := (i + n/2) % n

	a := ringSlice(ring, j, opp)
	a = append(Polyline{mid}, a...)
	b := ringSlice(ring, opp, i)
	b = append(Polyline{mid}, b...)
	b = append(b, ring[i])

	var out []Polyline
	out = append(out, SubdividePolygon(a, minArea)...)
	out = append(out, SubdividePolygon(b, minArea)...)
	return out
}

// ringSlice returns the vertices of ring from index from to index to
// inclusive, walking forward with wraparound.
func ringSlice(ring Polyline, from, to int) Polyline {
	n := len(ring)
	var out Polyline
	for i := from; ; i = (i + 1) % n {
		out = append(out, ring[i])
		if i == to {
			break
		}
	}
	return out
}
