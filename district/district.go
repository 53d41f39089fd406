// Package district implements the weighted power-diagram district assigner
// of spec §4.8: grid sampling against the axiom set, an optional Gray-Scott
// reaction-diffusion pass for organic borders, connected-component
// splitting, marching-squares-style border walk, and a 5-vector type
// selection blend.
package district

import (
	"math"
	"sort"

	"github.com/aquilax/go-perlin"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/tensorfield"
)

// axiomBias is the Mixed/Residential/Commercial/Civic/Industrial bias
// vector per axiom shape, grounded on original_source/DistrictGenerator.cpp
// axiom_bias_for_type.
var axiomBias = map[citymodel.AxiomType][5]float64{
	citymodel.AxiomRadial:         {0.25, 0.30, 0.55, 0.35, 0.20},
	citymodel.AxiomDelta:          {0.20, 0.45, 0.30, 0.25, 0.35},
	citymodel.AxiomBlock:          {0.20, 0.55, 0.25, 0.20, 0.30},
	citymodel.AxiomGridCorrective: {0.25, 0.30, 0.45, 0.25, 0.35},
}

// influencerBias is the same 5-vector per landmark influencer, grounded on
// original_source/DistrictGenerator.cpp influencer_bias_for_type.
var influencerBias = map[citymodel.Influencer][5]float64{
	citymodel.InfluencerMarket: {0.15, 0.10, 0.75, 0.20, 0.15},
	citymodel.InfluencerKeep:   {0.15, 0.15, 0.20, 0.75, 0.10},
	citymodel.InfluencerTemple: {0.30, 0.15, 0.15, 0.65, 0.10},
	citymodel.InfluencerHarbor: {0.15, 0.10, 0.45, 0.10, 0.55},
	citymodel.InfluencerPark:   {0.20, 0.65, 0.15, 0.20, 0.05},
	citymodel.InfluencerGate:   {0.45, 0.20, 0.45, 0.15, 0.15},
	citymodel.InfluencerWell:   {0.25, 0.60, 0.20, 0.20, 0.10},
	citymodel.InfluencerNone:   {0.25, 0.25, 0.25, 0.25, 0.25},
}

// frontageProfile is the per-road-class (A,E,S,P) table, grounded on
// original_source/FrontageProfiles.cpp.
var frontageProfile = map[citymodel.RoadType][4]float64{
	citymodel.Highway:   {1.00, 1.00, 0.70, 0.00},
	citymodel.Arterial:  {0.90, 0.90, 0.90, 0.20},
	citymodel.Avenue:    {0.80, 0.80, 0.80, 0.50},
	citymodel.Boulevard: {0.70, 0.90, 0.50, 0.70},
	citymodel.Street:    {0.80, 0.50, 0.80, 0.80},
	citymodel.Lane:      {0.50, 0.20, 0.50, 1.00},
	citymodel.Alleyway:  {0.30, 0.10, 1.00, 0.70},
	citymodel.CulDeSac:  {0.30, 0.20, 0.50, 1.00},
	citymodel.Drive:     {0.50, 0.30, 0.60, 0.90},
	citymodel.Driveway:  {0.20, 0.05, 0.70, 1.00},
	citymodel.MMajor:    {0.90, 0.90, 0.90, 0.20},
	citymodel.MMinor:    {0.80, 0.50, 0.80, 0.80},
}

// FrontageProfile returns the (A,E,S,P) profile for a road class, exported
// for the lot package's AESP scoring (spec §4.10).
func FrontageProfile(t citymodel.RoadType) (a, e, s, p float64) {
	v, ok := frontageProfile[t]
	if !ok {
		return 0.5, 0.5, 0.5, 0.5
	}
	return v[0], v[1], v[2], v[3]
}

func frontageBias(a, e, s, p float64) [5]float64 {
	return [5]float64{
		0.25 * (a + e + s + p),
		0.60*p + 0.20*a + 0.10*s + 0.10*e,
		0.60*e + 0.20*a + 0.10*s + 0.10*p,
		0.50*e + 0.20*a + 0.10*s + 0.20*p,
		0.60*s + 0.25*a + 0.10*e + 0.05*p,
	}
}

// gridRes picks the sample grid resolution per spec §4.8 step 1.
func gridRes(params citymodel.CityParams, extent geomutil.Vec2) int {
	if params.AdaptiveGridResolution {
		maxExtent := math.Max(extent.X, extent.Y)
		res := int(maxExtent / 7.5)
		if res < params.MinGridResolution {
			res = params.MinGridResolution
		}
		if res > params.MaxGridResolution {
			res = params.MaxGridResolution
		}
		return res
	}
	switch {
	case params.MinGridResolution <= 96:
		return 64
	case params.MinGridResolution <= 192:
		return 128
	default:
		return 256
	}
}

// Generate assigns every grid cell to a (primary, secondary) axiom pair,
// interns districts, optionally splits disconnected regions, walks borders,
// and scores each district's type (spec §4.8).
func Generate(params citymodel.CityParams, axioms []citymodel.AxiomInput, bounds geomutil.Bounds, field *tensorfield.TensorField, nearestRoadAt func(geomutil.Vec2) citymodel.RoadType) ([]citymodel.District, *citymodel.DistrictField) {
	extent := bounds.Extent()

	if len(axioms) == 0 {
		d := citymodel.District{
			ID: 1, PrimaryAxiomID: -1, SecondaryAxiomID: -1,
			Type:   citymodel.Mixed,
			Border: boundsRing(bounds),
		}
		df := &citymodel.DistrictField{
			Bounds: bounds, Width: 1, Height: 1, DistrictIDs: []int{1},
		}
		return []citymodel.District{d}, df
	}

	res := gridRes(params, extent)
	if res < 1 {
		res = 1
	}
	cellSize := geomutil.Vec2{X: extent.X / float64(res), Y: extent.Y / float64(res)}

	weightScale := math.Max(0.1, params.WeightScale)
	var avgWeight float64
	for _, a := range axioms {
		avgWeight += a.Radius * a.Radius
	}
	avgWeight /= float64(len(axioms))

	secondaryCutoff := math.Max(1.0, avgWeight*params.SecondaryThreshold)
	if params.UseLocalSecondaryCutoff {
		secondaryCutoff = params.FixedSecondaryCutoff
	}

	primary := make([]int, res*res)
	secondary := make([]int, res*res)
	cellCentre := func(x, y int) geomutil.Vec2 {
		return geomutil.Vec2{
			X: bounds.Min.X + (float64(x)+0.5)*cellSize.X,
			Y: bounds.Min.Y + (float64(y)+0.5)*cellSize.Y,
		}
	}

	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			c := cellCentre(x, y)
			bestScore, secondScore := math.Inf(1), math.Inf(1)
			bestID, secondID := -1, -1
			for _, a := range axioms {
				dist2 := geomutil.DistanceSquared(c, a.Pos)
				weight := citymodel.AxiomWeight[a.Type] * (a.Radius * a.Radius) * weightScale
				score := dist2 - weight
				if score < bestScore {
					secondScore, secondID = bestScore, bestID
					bestScore, bestID = score, a.ID
				} else if score < secondScore {
					secondScore, secondID = score, a.ID
				}
			}
			idx := y*res + x
			primary[idx] = bestID
			if secondScore-bestScore <= secondaryCutoff {
				secondary[idx] = secondID
			} else {
				secondary[idx] = -1
			}
		}
	}

	if params.UseReactionDiffusion && params.RDMix > 0.01 {
		reactionDiffusion(axioms, bounds, cellSize, res, params.RDMix, int64(params.Seed), primary, secondary)
	}

	type labelKey struct{ p, s int }
	districtIDs := make([]int, res*res)
	labelMap := map[labelKey]int{}
	var districts []citymodel.District
	var centreSumX, centreSumY []float64
	var counts []int
	nextID := 1

	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			idx := y*res + x
			key := labelKey{primary[idx], secondary[idx]}
			id, ok := labelMap[key]
			if !ok {
				id = nextID
				nextID++
				labelMap[key] = id
				districts = append(districts, citymodel.District{
					ID: id, PrimaryAxiomID: key.p, SecondaryAxiomID: key.s, Type: citymodel.Mixed,
				})
				centreSumX = append(centreSumX, 0)
				centreSumY = append(centreSumY, 0)
				counts = append(counts, 0)
			}
			districtIDs[idx] = id
			c := cellCentre(x, y)
			centreSumX[id-1] += c.X
			centreSumY[id-1] += c.Y
			counts[id-1]++
		}
	}

	if params.SplitDisconnectedRegions {
		districts, districtIDs, centreSumX, centreSumY, counts = splitDisconnected(districts, districtIDs, res, cellCentre)
	}

	edges := make([][]edge, len(districts))
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			idx := y*res + x
			id := districtIDs[idx]
			if id == 0 {
				continue
			}
			left, right, down, up := 0, 0, 0, 0
			if x > 0 {
				left = districtIDs[idx-1]
			}
			if x+1 < res {
				right = districtIDs[idx+1]
			}
			if y > 0 {
				down = districtIDs[idx-res]
			}
			if y+1 < res {
				up = districtIDs[idx+res]
			}
			add := func(x0, y0, x1, y1 int) {
				edges[id-1] = append(edges[id-1], edge{x0, y0, x1, y1})
			}
			if left != id {
				add(x, y, x, y+1)
			}
			if right != id {
				add(x+1, y+1, x+1, y)
			}
			if down != id {
				add(x+1, y, x, y)
			}
			if up != id {
				add(x, y+1, x+1, y+1)
			}
		}
	}

	axiomByID := map[int]citymodel.AxiomInput{}
	for _, a := range axioms {
		axiomByID[a.ID] = a
	}

	wAxiom, wFrontage := params.WAxiom, params.WFrontage
	if params.NormalizeWeights {
		if sum := wAxiom + wFrontage; sum > 1e-6 {
			wAxiom, wFrontage = wAxiom/sum, wFrontage/sum
		}
	} else if wAxiom+wFrontage <= 1e-6 {
		wAxiom, wFrontage = 0.6, 0.4
	}

	for i := range districts {
		districts[i].Border = buildBorderLoop(edges[i], bounds.Min, cellSize)
		if len(districts[i].Border) == 0 {
			districts[i].Border = boundsRing(bounds)
		}

		centre := geomutil.Vec2{X: bounds.Min.X + extent.X*0.5, Y: bounds.Min.Y + extent.Y*0.5}
		if counts[i] > 0 {
			centre = geomutil.Vec2{X: centreSumX[i] / float64(counts[i]), Y: centreSumY[i] / float64(counts[i])}
		}

		primaryBias := axiomBias[citymodel.AxiomRadial]
		secondaryBias := axiomBias[citymodel.AxiomRadial]
		primaryInfl := influencerBias[citymodel.InfluencerNone]
		secondaryInfl := influencerBias[citymodel.InfluencerNone]
		if a, ok := axiomByID[districts[i].PrimaryAxiomID]; ok {
			primaryBias = axiomBias[a.Type]
			primaryInfl = influencerBias[a.Influencer]
		}
		if a, ok := axiomByID[districts[i].SecondaryAxiomID]; ok {
			secondaryBias = axiomBias[a.Type]
			secondaryInfl = influencerBias[a.Influencer]
		}

		var frontBias [5]float64
		if nearestRoadAt != nil {
			a, e, s, p := FrontageProfile(nearestRoadAt(centre))
			frontBias = frontageBias(a, e, s, p)
		} else {
			frontBias = frontageBias(0.5, 0.5, 0.5, 0.5)
		}

		geometryFactor := 1.0
		if params.DesireDensityRadius > 0 {
			radiusSq := params.DesireDensityRadius * params.DesireDensityRadius
			density := 0
			for _, a := range axioms {
				if geomutil.DistanceSquared(a.Pos, centre) <= radiusSq {
					density++
				}
			}
			ratio := math.Min(1.0, float64(density)/3.0)
			geometryFactor = 0.8 + 0.4*ratio
		}

		var scores [5]float64
		for s := 0; s < 5; s++ {
			axiomScore := primaryBias[s] + 0.5*secondaryBias[s]
			influencerScore := primaryInfl[s] + 0.3*secondaryInfl[s]
			combined := axiomScore*0.6 + influencerScore*0.4
			scores[s] = wAxiom*combined*geometryFactor + wFrontage*frontBias[s]
		}
		best, bestScore := 0, scores[0]
		for s := 1; s < 5; s++ {
			if scores[s] > bestScore+params.DesireScoreEpsilon {
				bestScore, best = scores[s], s
			}
		}
		districts[i].Type = citymodel.DistrictTypes[best]

		orientation := geomutil.Vec2{}
		if field != nil {
			dir := field.Evaluate(centre, true)
			if dir.LengthSquared() > 1e-6 {
				orientation = dir.Normalize()
			}
		}
		districts[i].Orientation = orientation
	}

	return districts, &citymodel.DistrictField{
		Bounds: bounds, Width: res, Height: res, DistrictIDs: districtIDs,
	}
}

func boundsRing(b geomutil.Bounds) geomutil.Polyline {
	return geomutil.Polyline{
		{X: b.Min.X, Y: b.Min.Y}, {X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y}, {X: b.Min.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Min.Y},
	}
}

// reactionDiffusion runs the Gray-Scott overlay of spec §4.8 step 4,
// swapping primary/secondary where v drops below threshold. The initial v
// step function is perturbed by a low-frequency Perlin field so RD borders
// vary smoothly rather than snapping to a hard 0/1 disc per axiom.
func reactionDiffusion(axioms []citymodel.AxiomInput, bounds geomutil.Bounds, cellSize geomutil.Vec2, res int, rdMix float64, seed int64, primary, secondary []int) {
	const Du, Dv, F, K = 0.16, 0.08, 0.035, 0.065
	u := make([]float64, res*res)
	v := make([]float64, res*res)
	for i := range u {
		u[i] = 1.0
	}

	noise := perlin.NewPerlin(2.0, 2.0, 3, seed)
	noiseScale := math.Max(cellSize.X, cellSize.Y) * 8

	for _, a := range axioms {
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				idx := y*res + x
				c := geomutil.Vec2{X: bounds.Min.X + (float64(x)+0.5)*cellSize.X, Y: bounds.Min.Y + (float64(y)+0.5)*cellSize.Y}
				wobble := noise.Noise2D(c.X/noiseScale, c.Y/noiseScale) * 0.25 * a.Radius
				if geomutil.Distance(c, a.Pos) < a.Radius*0.5+wobble {
					v[idx] = 1.0
					u[idx] = 0.0
				}
			}
		}
	}

	idxOf := func(x, y int) int {
		if x < 0 {
			x = 0
		}
		if x >= res {
			x = res - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= res {
			y = res - 1
		}
		return y*res + x
	}

	iterations := int(math.Max(4, math.Round(6+28*rdMix)))
	for it := 0; it < iterations; it++ {
		u2 := append([]float64{}, u...)
		v2 := append([]float64{}, v...)
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				idx := y*res + x
				lapU := u[idxOf(x-1, y)] + u[idxOf(x+1, y)] + u[idxOf(x, y-1)] + u[idxOf(x, y+1)] - 4*u[idx]
				lapV := v[idxOf(x-1, y)] + v[idxOf(x+1, y)] + v[idxOf(x, y-1)] + v[idxOf(x, y+1)] - 4*v[idx]
				uvv := u[idx] * v[idx] * v[idx]
				u2[idx] = u[idx] + (Du*lapU - uvv + F*(1-u[idx]))
				v2[idx] = v[idx] + (Dv*lapV + uvv - (F+K)*v[idx])
			}
		}
		u, v = u2, v2
	}

	threshold := 0.35 - rdMix*0.2
	for idx := range v {
		if v[idx] < threshold && secondary[idx] >= 0 {
			primary[idx], secondary[idx] = secondary[idx], primary[idx]
			secondary[idx] = -1
		}
	}
}

// splitDisconnected runs a 4-connected BFS over districtIDs, giving each
// connected component of a shared original id its own fresh id (spec §4.8
// step 6), and recomputes centroid accumulators.
func splitDisconnected(districts []citymodel.District, districtIDs []int, res int, cellCentre func(x, y int) geomutil.Vec2) ([]citymodel.District, []int, []float64, []float64, []int) {
	newIDs := make([]int, len(districtIDs))
	visited := make([]bool, len(districtIDs))
	nextNewID := 1
	splits := map[int][]int{}

	for start := range districtIDs {
		if visited[start] || districtIDs[start] == 0 {
			continue
		}
		original := districtIDs[start]
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			newIDs[idx] = nextNewID

			x, y := idx%res, idx/res
			neighbours := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
			for _, n := range neighbours {
				if n[0] < 0 || n[0] >= res || n[1] < 0 || n[1] >= res {
					continue
				}
				ni := n[1]*res + n[0]
				if !visited[ni] && districtIDs[ni] == original {
					visited[ni] = true
					queue = append(queue, ni)
				}
			}
		}
		splits[original] = append(splits[original], nextNewID)
		nextNewID++
	}

	byOldID := map[int]citymodel.District{}
	for _, d := range districts {
		byOldID[d.ID] = d
	}

	var oldIDsSorted []int
	for old := range splits {
		oldIDsSorted = append(oldIDsSorted, old)
	}
	sort.Ints(oldIDsSorted)

	newDistricts := make([]citymodel.District, nextNewID-1)
	for _, old := range oldIDsSorted {
		base := byOldID[old]
		for _, nid := range splits[old] {
			d := base
			d.ID = nid
			newDistricts[nid-1] = d
		}
	}

	centreSumX := make([]float64, len(newDistricts))
	centreSumY := make([]float64, len(newDistricts))
	counts := make([]int, len(newDistricts))
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			idx := y*res + x
			id := newIDs[idx]
			if id == 0 || id > len(newDistricts) {
				continue
			}
			c := cellCentre(x, y)
			centreSumX[id-1] += c.X
			centreSumY[id-1] += c.Y
			counts[id-1]++
		}
	}

	return newDistricts, newIDs, centreSumX, centreSumY, counts
}

type edge struct{ x0, y0, x1, y1 int }

// buildBorderLoop walks the longest closed edge chain, per spec §4.8 step 7.
func buildBorderLoop(edges []edge, origin, cell geomutil.Vec2) geomutil.Polyline {
	if len(edges) == 0 {
		return nil
	}
	used := make([]bool, len(edges))
	pt := func(x, y int) geomutil.Vec2 {
		return geomutil.Vec2{X: origin.X + float64(x)*cell.X, Y: origin.Y + float64(y)*cell.Y}
	}

	var bestLoop geomutil.Polyline
	bestLen := 0.0

	for i := range edges {
		if used[i] {
			continue
		}
		var loop geomutil.Polyline
		used[i] = true
		sx, sy := edges[i].x0, edges[i].y0
		cx, cy := edges[i].x1, edges[i].y1
		loop = append(loop, pt(sx, sy), pt(cx, cy))

		closed := false
		for !closed {
			found := false
			for j := range edges {
				if used[j] {
					continue
				}
				if edges[j].x0 == cx && edges[j].y0 == cy {
					used[j] = true
					cx, cy = edges[j].x1, edges[j].y1
					loop = append(loop, pt(cx, cy))
					found = true
					break
				}
				if edges[j].x1 == cx && edges[j].y1 == cy {
					used[j] = true
					cx, cy = edges[j].x0, edges[j].y0
					loop = append(loop, pt(cx, cy))
					found = true
					break
				}
			}
			if !found {
				break
			}
			if cx == sx && cy == sy {
				closed = true
			}
		}

		length := 0.0
		for k := 1; k < len(loop); k++ {
			length += geomutil.Distance(loop[k-1], loop[k])
		}
		if length > bestLen {
			bestLen, bestLoop = length, loop
		}
	}
	return bestLoop
}

// ClipRoadsToDistricts walks every road polyline/segment and emits
// sub-polylines entirely inside a single district cell, refining each
// boundary crossing with 8 bisection steps (spec §4.8 "Road clipping").
func ClipRoadsToDistricts(roadsByType map[citymodel.RoadType][]geomutil.Polyline, segmentsByType map[citymodel.RoadType][]citymodel.Road, field *citymodel.DistrictField) (map[citymodel.RoadType][]geomutil.Polyline, map[citymodel.RoadType][]citymodel.Road) {
	if field == nil || field.Width == 0 {
		return roadsByType, segmentsByType
	}

	classOrder := append(append([]citymodel.RoadType{}, citymodel.RoadTypeOrder...), citymodel.MMajor, citymodel.MMinor)

	clippedPolylines := map[citymodel.RoadType][]geomutil.Polyline{}
	for _, t := range classOrder {
		for _, line := range roadsByType[t] {
			clippedPolylines[t] = append(clippedPolylines[t], clipPolyline(line, field)...)
		}
	}

	clippedSegments := map[citymodel.RoadType][]citymodel.Road{}
	nextID := 1
	for _, t := range classOrder {
		for _, r := range segmentsByType[t] {
			for _, poly := range clipPolyline(r.Points, field) {
				clippedSegments[t] = append(clippedSegments[t], citymodel.Road{
					ID: nextID, Points: poly, Type: t, IsUserCreated: r.IsUserCreated,
				})
				nextID++
			}
		}
	}
	return clippedPolylines, clippedSegments
}

func clipPolyline(points geomutil.Polyline, field *citymodel.DistrictField) []geomutil.Polyline {
	if len(points) < 2 {
		return nil
	}
	stepLen := math.Min(field.Bounds.Extent().X/float64(field.Width), field.Bounds.Extent().Y/float64(field.Height))
	if stepLen <= 0 {
		return nil
	}

	var out []geomutil.Polyline
	var current geomutil.Polyline
	currentID := field.SampleID(points[0])
	if currentID != 0 {
		current = append(current, points[0])
	}
	flush := func() {
		if currentID != 0 && len(current) > 1 {
			out = append(out, current)
		}
		current = nil
	}

	for i := 0; i+1 < len(points); i++ {
		p0, p1 := points[i], points[i+1]
		segLen := geomutil.Distance(p0, p1)
		if segLen <= 1e-6 {
			continue
		}
		startID := field.SampleID(p0)
		if startID != currentID {
			flush()
			currentID = startID
			if currentID != 0 {
				current = append(current, p0)
			}
		}

		steps := int(math.Ceil(segLen / stepLen))
		if steps < 1 {
			steps = 1
		}
		prevT := 0.0
		prevID := currentID
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			pt := p0.Add(p1.Sub(p0).Scale(t))
			id := field.SampleID(pt)
			if id == prevID {
				prevT = t
				continue
			}
			boundary := bisectBoundary(field, p0, p1, prevT, t, prevID)
			if prevID != 0 {
				if len(current) == 0 || geomutil.Distance(current[len(current)-1], boundary) > 1e-6 {
					current = append(current, boundary)
				}
				flush()
			}
			currentID = id
			prevID = id
			if currentID != 0 {
				current = geomutil.Polyline{boundary}
			}
			prevT = t
		}
		if currentID != 0 {
			if len(current) == 0 || geomutil.Distance(current[len(current)-1], p1) > 1e-6 {
				current = append(current, p1)
			}
		}
	}
	if currentID != 0 && len(current) > 1 {
		out = append(out, current)
	}
	return out
}

func bisectBoundary(field *citymodel.DistrictField, a, b geomutil.Vec2, t0, t1 float64, id0 int) geomutil.Vec2 {
	lo, hi := t0, t1
	for i := 0; i < 8; i++ {
		mid := 0.5 * (lo + hi)
		p := a.Add(b.Sub(a).Scale(mid))
		if field.SampleID(p) == id0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return a.Add(b.Sub(a).Scale(0.5 * (lo + hi)))
}
