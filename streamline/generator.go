// Package streamline traces separated, non-self-intersecting field lines
// through a tensor field (spec §4.3).
//
// StreamlineParams.Dlookahead and .Joinangle are carried on CityParams for
// §6 parity but are not read here: original_source/Streamlines.cpp declares
// them on the same params struct and never references either in its own
// integration step either (grep confirms no use outside the header default).
package streamline

import (
	"math"
	"math/rand"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/integrator"
	"github.com/voidshard/citygen/tensorfield"
)

// Generator produces a separated set of streamlines along a tensor field.
type Generator struct {
	Integrator integrator.FieldIntegrator
	Field      *tensorfield.TensorField
	Origin     geomutil.Vec2
	WorldDims  geomutil.Vec2
	Params     citymodel.StreamlineParams
	Rng        *rand.Rand

	MajorGrid *GridStorage
	MinorGrid *GridStorage

	StreamlinesMajor     []geomutil.Polyline
	StreamlinesMinor     []geomutil.Polyline
	AllStreamlines       []geomutil.Polyline
	AllStreamlinesSimple []geomutil.Polyline
}

// New returns a Generator whose grids are empty (callers pre-populate them
// via Grid(major).AddPolyline for cross-class separation, spec §4.5 step 1).
func New(fi integrator.FieldIntegrator, field *tensorfield.TensorField, origin, worldDims geomutil.Vec2, params citymodel.StreamlineParams, rng *rand.Rand) *Generator {
	return &Generator{
		Integrator: fi,
		Field:      field,
		Origin:     origin,
		WorldDims:  worldDims,
		Params:     params,
		Rng:        rng,
		MajorGrid:  NewGridStorage(origin, params.Dsep),
		MinorGrid:  NewGridStorage(origin, params.Dsep),
	}
}

// Grid returns the major or minor direction's spatial hash.
func (g *Generator) Grid(major bool) *GridStorage {
	if major {
		return g.MajorGrid
	}
	return g.MinorGrid
}

func (g *Generator) pointInBounds(p geomutil.Vec2) bool {
	return p.X >= g.Origin.X && p.X <= g.Origin.X+g.WorldDims.X &&
		p.Y >= g.Origin.Y && p.Y <= g.Origin.Y+g.WorldDims.Y
}

// SamplePoint draws a uniform random point within bounds.
func (g *Generator) SamplePoint() geomutil.Vec2 {
	return geomutil.Vec2{
		X: g.Origin.X + g.Rng.Float64()*g.WorldDims.X,
		Y: g.Origin.Y + g.Rng.Float64()*g.WorldDims.Y,
	}
}

// IsValidSample reports whether p is valid for direction `major`: on land,
// influence above 0.05, and separated by >= sqrt(dSq) from every existing
// sample in that direction's grid (optionally the other grid too, spec §4.3
// "optionally also the other grid").
func (g *Generator) IsValidSample(major bool, p geomutil.Vec2, dSq float64, bothGrids bool) bool {
	if !g.pointInBounds(p) {
		return false
	}
	if !g.Field.OnLand(p) {
		return false
	}
	if g.Field.InfluenceAt(p, false) <= 0.05 {
		return false
	}
	if !g.Grid(major).IsValidSample(p, dSq) {
		return false
	}
	if bothGrids && !g.Grid(!major).IsValidSample(p, dSq) {
		return false
	}
	return true
}

// GetSeed draws up to SeedTries uniform samples, returning the first valid
// one under dsep^2 (spec §4.3 "Seed search").
func (g *Generator) GetSeed(major bool) (geomutil.Vec2, bool) {
	dsepSq := g.Params.Dsep * g.Params.Dsep
	for i := 0; i < g.Params.SeedTries; i++ {
		p := g.SamplePoint()
		if g.IsValidSample(major, p, dsepSq, false) {
			return p, true
		}
	}
	return geomutil.Vec2{}, false
}

// IntegrateStreamline traces a full streamline (both halves) from seed s,
// per spec §4.3 "Streamline integration" steps 1-5, including step 4's
// circle-join: once the two heads have escaped beyond Dcirclejoin of each
// other, re-approaching within that radius joins them and stops both halves.
func (g *Generator) IntegrateStreamline(seed geomutil.Vec2, major bool) geomutil.Polyline {
	d := g.Integrator.Integrate(seed, major)
	if d.LengthSquared() == 0 {
		return geomutil.Polyline{seed}
	}

	forward := g.newHalf(seed, d)
	backward := g.newHalf(seed, d.Scale(-1))
	dtestSq := g.Params.Dtest * g.Params.Dtest
	joinSq := g.Params.Dcirclejoin * g.Params.Dcirclejoin
	// collideBoth is drawn once per streamline, matching original_source's
	// integrateStreamline: with probability CollideEarly, both halves check
	// separation against the opposite direction's grid too, not just their own.
	collideBoth := g.Rng.Float64() < g.Params.CollideEarly

	escaped := false
	for step := 0; step < g.Params.PathIterations; step++ {
		if !forward.active && !backward.active {
			break
		}
		g.stepHalf(forward, major, dtestSq, collideBoth)
		g.stepHalf(backward, major, dtestSq, collideBoth)

		distSq := geomutil.DistanceSquared(forward.p, backward.p)
		if !escaped {
			if distSq > joinSq {
				escaped = true
			}
			continue
		}
		if distSq <= joinSq {
			break
		}
	}

	// reverse backward, drop its duplicated seed point, then append forward.
	out := make(geomutil.Polyline, 0, len(backward.line)+len(forward.line))
	for i := len(backward.line) - 1; i >= 1; i-- {
		out = append(out, backward.line[i])
	}
	out = append(out, forward.line...)
	return out
}

// half tracks one forward/backward trajectory so both can be stepped in
// lockstep for the circle-join check.
type half struct {
	originalDir, perp geomutil.Vec2
	p                 geomutil.Vec2
	prevDir           geomutil.Vec2
	line              geomutil.Polyline
	active            bool
}

func (g *Generator) newHalf(seed, initialDir geomutil.Vec2) *half {
	originalDir := initialDir.Normalize()
	return &half{
		originalDir: originalDir,
		perp:        originalDir.Perp(),
		p:           seed,
		prevDir:     initialDir,
		line:        geomutil.Polyline{seed},
		active:      true,
	}
}

func (g *Generator) stepHalf(h *half, major bool, dtestSq float64, collideBoth bool) {
	if !h.active {
		return
	}
	next := g.Integrator.Integrate(h.p, major)
	if next.Dot(h.prevDir) < 0 {
		next = next.Scale(-1)
	}
	nextPoint := h.p.Add(next)

	if !g.pointInBounds(nextPoint) {
		h.active = false
		return
	}
	if !g.IsValidSample(major, nextPoint, dtestSq, collideBoth) {
		h.active = false
		return
	}
	if g.streamlineTurned(h.line[0], h.originalDir, h.perp, nextPoint, next) {
		h.active = false
		return
	}

	h.line = append(h.line, nextPoint)
	g.Grid(major).Add(nextPoint)
	h.p = nextPoint
	h.prevDir = next
}

// streamlineTurned implements spec §4.3 step 3's turn test: the trajectory
// has "turned" when the projection of (p-seed) onto perp(original_dir) and
// the projection of the current direction onto the same perpendicular agree
// in sign after dir.original_dir < 0.
func (g *Generator) streamlineTurned(seed, originalDir, perp, point, dir geomutil.Vec2) bool {
	if dir.Normalize().Dot(originalDir) >= 0 {
		return false
	}
	posProj := point.Sub(seed).Dot(perp)
	dirProj := dir.Dot(perp)
	return (posProj >= 0) == (dirProj >= 0)
}

// Simplify reduces line at SimplifyTolerance via Douglas-Peucker (spec
// §4.3; see DESIGN.md for why the polygon-engine path is not consulted
// here).
func (g *Generator) Simplify(line geomutil.Polyline) geomutil.Polyline {
	return geomutil.DouglasPeucker(line, g.Params.SimplifyTolerance)
}

// Complexify recursively midpoint-subdivides any segment longer than
// sqrt(dstep^2) so spatial-grid occupancy stays dense (spec §4.3
// "Complexification").
func (g *Generator) Complexify(line geomutil.Polyline) geomutil.Polyline {
	if len(line) < 2 {
		return line
	}
	out := geomutil.Polyline{line[0]}
	for i := 0; i+1 < len(line); i++ {
		out = append(out, g.complexifySegment(line[i], line[i+1])...)
		out = append(out, line[i+1])
	}
	return out
}

func (g *Generator) complexifySegment(a, b geomutil.Vec2) geomutil.Polyline {
	threshold := g.Params.Dstep
	if geomutil.Distance(a, b) <= threshold {
		return nil
	}
	mid := a.Add(b).Scale(0.5)
	var out geomutil.Polyline
	out = append(out, g.complexifySegment(a, mid)...)
	out = append(out, mid)
	out = append(out, g.complexifySegment(mid, b)...)
	return out
}

// PointsBetween returns evenly-spaced points between a and b at spacing
// dstep, matching original_source's pointsBetween helper.
func PointsBetween(a, b geomutil.Vec2, dstep float64) geomutil.Polyline {
	dist := geomutil.Distance(a, b)
	if dstep <= 0 || dist == 0 {
		return geomutil.Polyline{a, b}
	}
	n := int(math.Ceil(dist / dstep))
	out := make(geomutil.Polyline, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		out = append(out, a.Add(b.Sub(a).Scale(t)))
	}
	return out
}

// GenerateTier repeatedly seeds and integrates streamlines in the given
// direction until maxLines is reached or a seed search fails (spec §4.3
// "Batch").
func (g *Generator) GenerateTier(major bool, maxLines int) {
	for len(g.streamlinesFor(major)) < maxLines {
		seed, ok := g.GetSeed(major)
		if !ok {
			return
		}
		line := g.IntegrateStreamline(seed, major)
		if len(line) < 2 {
			continue
		}
		complex := g.Complexify(line)
		g.Grid(major).AddPolyline(complex)
		simple := g.Simplify(line)

		if major {
			g.StreamlinesMajor = append(g.StreamlinesMajor, line)
		} else {
			g.StreamlinesMinor = append(g.StreamlinesMinor, line)
		}
		g.AllStreamlines = append(g.AllStreamlines, line)
		g.AllStreamlinesSimple = append(g.AllStreamlinesSimple, simple)
	}
}

func (g *Generator) streamlinesFor(major bool) []geomutil.Polyline {
	if major {
		return g.StreamlinesMajor
	}
	return g.StreamlinesMinor
}

// ClearStreamlines empties every recorded streamline and grid (but keeps
// configuration), for reuse across road classes if a caller wants that.
func (g *Generator) ClearStreamlines() {
	g.StreamlinesMajor = nil
	g.StreamlinesMinor = nil
	g.AllStreamlines = nil
	g.AllStreamlinesSimple = nil
	g.MajorGrid.Clear()
	g.MinorGrid.Clear()
}
