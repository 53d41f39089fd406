// Package lot implements the lot placer of spec §4.9-§4.11: road-frontage
// sampling, block infill, intersection lots, AESP scoring and 8-type
// typology classification. Grounded line-for-line on
// original_source/LotGenerator.cpp's constants and control flow.
package lot

import (
	"math"
	"math/rand"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/district"
	"github.com/voidshard/citygen/geomutil"
)

// Scores is the per-lot AESP blend of spec §4.10.
type Scores struct {
	A, E, S, P float64
}

// Generate places lots along road frontage, infills remaining block area,
// and adds intersection lots, returning them id-ordered (spec §4.9).
func Generate(
	params citymodel.CityParams,
	districts []citymodel.District,
	field *citymodel.DistrictField,
	blocks []geomutil.BlockPolygon,
	roadsByType map[citymodel.RoadType][]geomutil.Polyline,
	segmentRoadsByType map[citymodel.RoadType][]citymodel.Road,
	nodes []GraphNode,
	bounds geomutil.Bounds,
	userInputs citymodel.UserPlacedInputs,
	rng *rand.Rand,
) []citymodel.LotToken {
	textureScale := clamp(math.Sqrt((params.Width*params.Height)/(1000.0*1000.0)), 0.5, 2.0)
	baseSpacing := 80.0 * textureScale * params.LotSpacingMultiplier
	minSpacing := 10.0 * textureScale
	baseDepth := 50.0 * textureScale
	minLotsPerSide := clampInt(params.MinLotsPerRoadSide, 1, 10)

	maxLots := 0
	if params.MaxTotalRoads > 0 {
		maxLots = params.MaxTotalRoads / 2
	}
	nextID := 1
	var lots []citymodel.LotToken

	reachedMax := func() bool { return maxLots > 0 && len(lots) >= maxLots }

	for _, u := range userInputs.Lots {
		u.ID = nextID
		nextID++
		u.IsUserPlaced = true
		u.LockedType = userInputs.LockUserTypes || u.LockedType
		u.DistrictID = sampleID(field, u.Centroid)
		lots = append(lots, u)
	}

	districtTypeFor := func(id int) citymodel.DistrictType {
		if id <= 0 || id > len(districts) {
			return citymodel.Mixed
		}
		return districts[id-1].Type
	}

	emitFrontageLot := func(pos, dir geomutil.Vec2, depth float64, defaultType citymodel.RoadType) {
		normal := geomutil.Vec2{X: -dir.Y, Y: dir.X}
		for _, side := range []float64{1.0, -1.0} {
			if reachedMax() {
				return
			}
			centroid := pos.Add(normal.Scale(depth * 0.5 * side))
			if !bounds.Contains(centroid) {
				continue
			}
			primary, secondary, hasSecondary := nearestRoad(roadsByType, centroid)
			if primary == "" {
				primary = defaultType
			}

			scores := computeScores(primary, secondary, hasSecondary)
			districtID := sampleID(field, centroid)
			lotType := classify(primary, secondary, hasSecondary, districtTypeFor(districtID), scores)

			lots = append(lots, citymodel.LotToken{
				ID: nextID, Centroid: centroid, DistrictID: districtID,
				PrimaryRoad: primary, SecondaryRoad: secondary, HasSecondary: hasSecondary,
				Access: scores.A, Exposure: scores.E, Serviceability: scores.S, Privacy: scores.P,
				LotType: lotType,
				NearestMajor: nearestRoadRef(segmentRoadsByType, centroid, true),
				NearestMinor: nearestRoadRef(segmentRoadsByType, centroid, false),
			})
			nextID++
		}
	}

	for _, class := range citymodel.RoadTypeOrder {
		for _, road := range roadsByType[class] {
			if len(road) < 2 {
				continue
			}
			for i := 0; i+1 < len(road); i++ {
				a, b := road[i], road[i+1]
				length := geomutil.Distance(a, b)
				if length <= 0 {
					continue
				}
				mid := a.Add(b.Sub(a).Scale(0.5))
				dType := districtTypeFor(sampleID(field, mid))
				spacingScale, depthScale := districtScales(dType)
				spacing := math.Max(minSpacing, baseSpacing*spacingScale*roadSpacingMultiplier(class))
				depth := math.Max(15.0, baseDepth*depthScale)

				desiredLots := math.Max(float64(minLotsPerSide), 1)
				maxSpacingForMin := length / desiredLots
				if spacing > maxSpacingForMin && length > minSpacing {
					spacing = math.Max(minSpacing, maxSpacingForMin)
				}

				dir := b.Sub(a).Normalize()
				start := spacing * 0.5
				if length < spacing {
					start = length * 0.5
				}
				for d := start; d <= length; d += spacing {
					if reachedMax() {
						break
					}
					t := d / length
					pos := a.Add(b.Sub(a).Scale(t))
					emitFrontageLot(pos, dir, depth, class)
					if reachedMax() {
						break
					}
				}
				if reachedMax() {
					break
				}
			}
			if reachedMax() {
				break
			}
		}
		if reachedMax() {
			break
		}
	}

	if !reachedMax() {
		infillRNG := rand.New(rand.NewSource(int64(params.Seed) + 9999))
		if rng != nil {
			infillRNG = rng
		}
		for _, poly := range blocks {
			if reachedMax() {
				break
			}
			lots = infillBlock(poly, field, districtTypeFor, roadsByType, segmentRoadsByType, baseSpacing, minSpacing, maxLots, &lots, &nextID, infillRNG)
		}
	}

	if !reachedMax() {
		intersectionRadius := math.Max(10.0, baseSpacing*0.25)
		for _, n := range nodes {
			if reachedMax() {
				break
			}
			if len(n.Adj) < 3 {
				continue
			}
			ring := intersectionRing(n, intersectionRadius)
			if len(ring) < 3 {
				continue
			}
			area := math.Abs(geomutil.PolygonArea(ring.Closed()))
			if area < 60.0 {
				continue
			}
			centroid := geomutil.AveragePoint(ring)
			if !bounds.Contains(centroid) {
				continue
			}
			if tooCloseToExisting(lots, centroid, intersectionRadius*0.6) {
				continue
			}
			primary, secondary, hasSecondary := nearestRoad(roadsByType, centroid)
			if primary == "" {
				continue
			}
			scores := computeScores(primary, secondary, hasSecondary)
			districtID := sampleID(field, centroid)
			lotType := classify(primary, secondary, hasSecondary, districtTypeFor(districtID), scores)
			lots = append(lots, citymodel.LotToken{
				ID: nextID, Centroid: centroid, DistrictID: districtID,
				PrimaryRoad: primary, SecondaryRoad: secondary, HasSecondary: hasSecondary,
				Access: scores.A, Exposure: scores.E, Serviceability: scores.S, Privacy: scores.P,
				LotType: lotType,
				NearestMajor: nearestRoadRef(segmentRoadsByType, centroid, true),
				NearestMinor: nearestRoadRef(segmentRoadsByType, centroid, false),
			})
			nextID++
		}
	}

	return lots
}

// GraphNode is the minimal view of a graph.Node this package needs (node
// position plus resolved neighbour positions), kept local so lot doesn't
// need to import graph solely for a struct shape.
type GraphNode struct {
	Pos geomutil.Vec2
	Adj []geomutil.Vec2
}

func intersectionRing(n GraphNode, radius float64) geomutil.Polyline {
	var ring geomutil.Polyline
	for _, neighbour := range n.Adj {
		dir := neighbour.Sub(n.Pos)
		if dir.LengthSquared() < 1e-9 {
			continue
		}
		dir = dir.Normalize()
		ring = append(ring, n.Pos.Add(dir.Scale(radius)))
	}
	sortByAngle(ring, n.Pos)
	return ring
}

func sortByAngle(ring geomutil.Polyline, centre geomutil.Vec2) {
	for i := 1; i < len(ring); i++ {
		for j := i; j > 0; j-- {
			ai := math.Atan2(ring[j].Y-centre.Y, ring[j].X-centre.X)
			aj := math.Atan2(ring[j-1].Y-centre.Y, ring[j-1].X-centre.X)
			if ai < aj {
				ring[j], ring[j-1] = ring[j-1], ring[j]
			} else {
				break
			}
		}
	}
}

func infillBlock(
	poly geomutil.BlockPolygon,
	field *citymodel.DistrictField,
	districtTypeFor func(int) citymodel.DistrictType,
	roadsByType map[citymodel.RoadType][]geomutil.Polyline,
	segmentRoadsByType map[citymodel.RoadType][]citymodel.Road,
	baseSpacing, minSpacing float64,
	maxLots int,
	lots *[]citymodel.LotToken,
	nextID *int,
	rng *rand.Rand,
) []citymodel.LotToken {
	area := math.Abs(geomutil.PolygonArea(poly.Outer))
	centre := geomutil.AveragePoint(poly.Outer)
	districtID := sampleID(field, centre)
	dType := districtTypeFor(districtID)
	spacingScale, _ := districtScales(dType)
	targetSpacing := math.Max(minSpacing, baseSpacing*spacingScale*1.5)

	numPoints := int(area / (targetSpacing * targetSpacing))
	if numPoints <= 0 {
		return *lots
	}
	if numPoints > 500 {
		numPoints = 500
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range poly.Outer {
		minX, minY = math.Min(minX, v.X), math.Min(minY, v.Y)
		maxX, maxY = math.Max(maxX, v.X), math.Max(maxY, v.Y)
	}

	var candidates geomutil.Polyline
	attempts := numPoints * 10
	for k := 0; k < attempts && len(candidates) < numPoints; k++ {
		p := geomutil.Vec2{X: minX + rng.Float64()*(maxX-minX), Y: minY + rng.Float64()*(maxY-minY)}
		if !geomutil.InsidePolygon(poly.Outer, p) {
			continue
		}
		if tooCloseToExisting(*lots, p, targetSpacing) {
			continue
		}
		close := false
		for _, c := range candidates {
			if geomutil.DistanceSquared(p, c) < targetSpacing*targetSpacing {
				close = true
				break
			}
		}
		if close {
			continue
		}
		candidates = append(candidates, p)
	}

	for _, p := range candidates {
		if maxLots > 0 && len(*lots) >= maxLots {
			break
		}
		primary, _, _ := nearestRoad(roadsByType, p)
		if primary == "" {
			continue
		}

		// backlots: nearest road stands in for both primary and secondary,
		// with halved access, reduced exposure, and boosted privacy.
		s := computeScores(primary, primary, false)
		s.A *= 0.5
		s.E *= 0.4
		s.P = math.Min(1.0, s.P*1.5)

		lotType := classify(primary, primary, false, dType, s)
		if lotType == citymodel.LotBufferStrip && s.P > 0.5 {
			lotType = citymodel.LotResidential
		}

		*lots = append(*lots, citymodel.LotToken{
			ID: *nextID, Centroid: p, DistrictID: districtID,
			PrimaryRoad: primary, SecondaryRoad: primary,
			Access: s.A, Exposure: s.E, Serviceability: s.S, Privacy: s.P,
			LotType: lotType,
			NearestMajor: nearestRoadRef(segmentRoadsByType, p, true),
			NearestMinor: nearestRoadRef(segmentRoadsByType, p, false),
		})
		*nextID++
	}
	return *lots
}

func tooCloseToExisting(lots []citymodel.LotToken, pos geomutil.Vec2, radius float64) bool {
	r2 := radius * radius
	for _, l := range lots {
		if geomutil.DistanceSquared(pos, l.Centroid) <= r2 {
			return true
		}
	}
	return false
}

func sampleID(field *citymodel.DistrictField, p geomutil.Vec2) int {
	if field == nil {
		return 0
	}
	return field.SampleID(p)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// computeScores blends primary/secondary frontage profiles per spec §4.10's
// fixed 0.85/0.90/0.65/0.80 weights.
func computeScores(primary, secondary citymodel.RoadType, hasSecondary bool) Scores {
	pa, pe, ps, pp := district.FrontageProfile(primary)
	var sa, se, ss, sp float64
	if hasSecondary {
		sa, se, ss, sp = district.FrontageProfile(secondary)
	}
	return Scores{
		A: 0.85*pa + 0.15*sa,
		E: 0.90*pe + 0.10*se,
		S: 0.65*ps + 0.35*ss,
		P: 0.80*pp + 0.20*sp,
	}
}

func roadSpacingMultiplier(t citymodel.RoadType) float64 {
	switch t {
	case citymodel.Highway:
		return 2.0
	case citymodel.Arterial:
		return 1.6
	case citymodel.Avenue:
		return 1.3
	case citymodel.Boulevard:
		return 1.2
	case citymodel.Street:
		return 0.75
	case citymodel.Lane:
		return 0.55
	case citymodel.Alleyway:
		return 0.5
	case citymodel.CulDeSac:
		return 0.6
	case citymodel.Drive:
		return 0.6
	case citymodel.Driveway:
		return 0.5
	default:
		return 1.0
	}
}

func districtScales(t citymodel.DistrictType) (spacingScale, depthScale float64) {
	switch t {
	case citymodel.Residential:
		return 0.75, 1.05
	case citymodel.Commercial:
		return 0.65, 0.95
	case citymodel.Civic:
		return 0.85, 1.10
	case citymodel.Industrial:
		return 1.20, 1.30
	default:
		return 1.0, 1.0
	}
}

// nearestRoad finds the primary and (if within 2.25x the primary's
// distance) secondary road class nearest pos, checking the road polylines
// of each class in RoadTypeOrder (spec §4.9 "nearest road lookup").
func nearestRoad(roadsByType map[citymodel.RoadType][]geomutil.Polyline, pos geomutil.Vec2) (primary, secondary citymodel.RoadType, hasSecondary bool) {
	primaryDist, secondaryDist := math.Inf(1), math.Inf(1)
	check := func(points geomutil.Polyline, t citymodel.RoadType) {
		if len(points) < 2 {
			return
		}
		best := math.Inf(1)
		for i := 0; i+1 < len(points); i++ {
			d := geomutil.DistanceToSegment(pos, points[i], points[i+1])
			if d < best {
				best = d
			}
		}
		if best < primaryDist {
			secondary, secondaryDist = primary, primaryDist
			primary, primaryDist = t, best
		} else if best < secondaryDist {
			secondary, secondaryDist = t, best
		}
	}
	for _, class := range citymodel.RoadTypeOrder {
		for _, line := range roadsByType[class] {
			check(line, class)
		}
	}
	hasSecondary = secondary != "" && secondaryDist <= primaryDist*2.25
	return primary, secondary, hasSecondary
}

// roadClassOrder is the deterministic class-iteration order shared by every
// map[RoadType]... lookup in this package, so output never depends on Go's
// randomized map iteration (spec §5, §8).
var roadClassOrder = append(append([]citymodel.RoadType{}, citymodel.RoadTypeOrder...), citymodel.MMajor, citymodel.MMinor)

func wantsMajorClass(t citymodel.RoadType, major bool) bool {
	if major {
		return citymodel.MajorGroup[t] || t == citymodel.MMajor
	}
	return t.IsMinor() || t == citymodel.MMinor
}

// nearestRoadRef finds the closest segment endpoint among classes matching
// major (the major group plus M_Major, or the minor group plus M_Minor),
// for the §6 LotTokenJson nearest_major/nearest_minor fields.
func nearestRoadRef(segmentRoadsByType map[citymodel.RoadType][]citymodel.Road, pos geomutil.Vec2, major bool) *citymodel.NearestRoadRef {
	var best *citymodel.NearestRoadRef
	bestDistSq := math.Inf(1)
	for _, class := range roadClassOrder {
		if !wantsMajorClass(class, major) {
			continue
		}
		for _, road := range segmentRoadsByType[class] {
			for i, p := range road.Points {
				d := geomutil.DistanceSquared(pos, p)
				if d < bestDistSq {
					bestDistSq = d
					ref := citymodel.NearestRoadRef{RoadType: class, RoadID: road.ID, EndpointIndex: i}
					best = &ref
				}
			}
		}
	}
	return best
}

// classify runs the 8-type gate-check/weighted-score/bonus classifier of
// spec §4.11, mirroring original_source/LotGenerator.cpp's classify_lot.
func classify(primary, secondary citymodel.RoadType, hasSecondary bool, districtType citymodel.DistrictType, s Scores) citymodel.LotType {
	if primary == citymodel.Highway {
		if !hasSecondary || !(secondary == citymodel.Arterial || secondary == citymodel.Avenue ||
			secondary == citymodel.Boulevard || secondary == citymodel.Street || secondary == citymodel.Lane) {
			return citymodel.LotBufferStrip
		}
	}

	bestType := citymodel.LotBufferStrip
	bestScore := -1e9
	anyPassed := false

	for _, t := range citymodel.LotTypes {
		if !thresholdsPass(t, s) {
			continue
		}
		anyPassed = true
		score := weightedScore(t, s)
		score += primaryBonus(t, primary)
		score += secondaryBonus(t, secondary, hasSecondary)
		score += comboBonus(t, primary, secondary, hasSecondary)
		score += districtMultiplier(districtType, t)
		if score > bestScore {
			bestScore, bestType = score, t
		}
	}

	if !anyPassed {
		switch {
		case s.E >= 0.75:
			bestType = citymodel.LotRetailStrip
		case s.P >= 0.60:
			bestType = citymodel.LotResidential
		default:
			bestType = citymodel.LotMixedUse
		}
	}

	return bestType
}

func thresholdsPass(t citymodel.LotType, s Scores) bool {
	switch t {
	case citymodel.LotLogisticsIndustrial:
		return s.S >= 0.80 && s.A >= 0.70
	case citymodel.LotRetailStrip:
		return s.E >= 0.80 && s.A >= 0.60
	case citymodel.LotMixedUse:
		return s.E >= 0.70 && s.A >= 0.60 && s.P >= 0.30
	case citymodel.LotCivicCultural:
		return s.E >= 0.80 && s.P >= 0.40
	case citymodel.LotResidential:
		return s.P >= 0.60 && s.A >= 0.55
	case citymodel.LotLuxuryScenic:
		return s.P >= 0.80 && s.A >= 0.45
	case citymodel.LotRowhomeCompact:
		return s.A >= 0.55 && s.P >= 0.50 && s.E <= 0.60
	case citymodel.LotBufferStrip:
		return true
	default:
		return false
	}
}

func weightedScore(t citymodel.LotType, s Scores) float64 {
	switch t {
	case citymodel.LotLogisticsIndustrial:
		return 0.35*s.A + 0.05*s.E + 0.55*s.S + 0.05*s.P
	case citymodel.LotRetailStrip:
		return 0.35*s.A + 0.55*s.E + 0.05*s.S + 0.05*s.P
	case citymodel.LotMixedUse:
		return 0.30*s.A + 0.45*s.E + 0.15*s.S + 0.10*s.P
	case citymodel.LotCivicCultural:
		return 0.10*s.A + 0.60*s.E + 0.05*s.S + 0.25*s.P
	case citymodel.LotResidential:
		return 0.25*s.A + 0.05*s.E + 0.10*s.S + 0.60*s.P
	case citymodel.LotLuxuryScenic:
		return 0.20*s.A + 0.10*s.E + 0.10*s.S + 0.60*s.P
	case citymodel.LotRowhomeCompact:
		return 0.35*s.A - 0.15*s.E + 0.10*s.S + 0.70*s.P
	default:
		return 0.0
	}
}

func primaryBonus(t citymodel.LotType, primary citymodel.RoadType) float64 {
	switch t {
	case citymodel.LotLogisticsIndustrial:
		switch primary {
		case citymodel.Highway, citymodel.Arterial:
			return 0.25
		case citymodel.Avenue:
			return 0.10
		}
	case citymodel.LotRetailStrip:
		switch primary {
		case citymodel.Arterial:
			return 0.30
		case citymodel.Boulevard:
			return 0.20
		case citymodel.Avenue:
			return 0.15
		}
	case citymodel.LotMixedUse:
		switch primary {
		case citymodel.Avenue, citymodel.Boulevard, citymodel.Street:
			return 0.15
		}
	case citymodel.LotCivicCultural:
		switch primary {
		case citymodel.Boulevard:
			return 0.30
		case citymodel.Avenue:
			return 0.20
		}
	case citymodel.LotResidential:
		switch primary {
		case citymodel.Street:
			return 0.25
		case citymodel.Lane, citymodel.Drive:
			return 0.20
		case citymodel.CulDeSac:
			return 0.15
		}
	case citymodel.LotLuxuryScenic:
		switch primary {
		case citymodel.Drive:
			return 0.30
		case citymodel.Boulevard, citymodel.CulDeSac:
			return 0.25
		}
	case citymodel.LotRowhomeCompact:
		switch primary {
		case citymodel.Lane:
			return 0.25
		case citymodel.Street:
			return 0.20
		}
	case citymodel.LotBufferStrip:
		if primary == citymodel.Highway {
			return 1.0
		}
	}
	return 0.0
}

func secondaryBonus(t citymodel.LotType, secondary citymodel.RoadType, hasSecondary bool) float64 {
	if !hasSecondary {
		return 0.0
	}
	switch t {
	case citymodel.LotLogisticsIndustrial:
		switch secondary {
		case citymodel.Alleyway:
			return 0.25
		case citymodel.Driveway:
			return 0.10
		}
	case citymodel.LotRetailStrip:
		if secondary == citymodel.Alleyway {
			return 0.20
		}
	case citymodel.LotMixedUse:
		switch secondary {
		case citymodel.Alleyway:
			return 0.20
		case citymodel.Lane:
			return 0.10
		}
	case citymodel.LotCivicCultural:
		if secondary == citymodel.Alleyway {
			return 0.10
		}
	case citymodel.LotResidential:
		if secondary == citymodel.Lane || secondary == citymodel.Driveway {
			return 0.10
		}
	case citymodel.LotLuxuryScenic:
		if secondary == citymodel.Lane || secondary == citymodel.Driveway {
			return 0.10
		}
	case citymodel.LotRowhomeCompact:
		switch secondary {
		case citymodel.Alleyway:
			return 0.20
		case citymodel.Driveway:
			return 0.10
		}
	}
	return 0.0
}

func comboBonus(t citymodel.LotType, primary, secondary citymodel.RoadType, hasSecondary bool) float64 {
	if !hasSecondary {
		return 0.0
	}
	switch t {
	case citymodel.LotLogisticsIndustrial:
		switch {
		case primary == citymodel.Arterial && secondary == citymodel.Alleyway:
			return 0.35
		case primary == citymodel.Highway && secondary == citymodel.Alleyway:
			return 0.20
		case primary == citymodel.Avenue && secondary == citymodel.Alleyway:
			return 0.15
		}
	case citymodel.LotRetailStrip:
		switch {
		case primary == citymodel.Arterial && secondary == citymodel.Alleyway:
			return 0.35
		case primary == citymodel.Boulevard && secondary == citymodel.Alleyway:
			return 0.25
		case primary == citymodel.Avenue && secondary == citymodel.Alleyway:
			return 0.20
		}
	case citymodel.LotMixedUse:
		switch {
		case primary == citymodel.Avenue && secondary == citymodel.Alleyway:
			return 0.25
		case primary == citymodel.Boulevard && secondary == citymodel.Alleyway:
			return 0.20
		case primary == citymodel.Street && secondary == citymodel.Alleyway:
			return 0.15
		}
	case citymodel.LotCivicCultural:
		switch {
		case primary == citymodel.Boulevard && secondary == citymodel.Alleyway:
			return 0.15
		case primary == citymodel.Avenue && secondary == citymodel.Alleyway:
			return 0.10
		}
	case citymodel.LotResidential:
		switch {
		case primary == citymodel.Street && secondary == citymodel.Lane:
			return 0.15
		case primary == citymodel.Lane && secondary == citymodel.Driveway:
			return 0.15
		case primary == citymodel.Drive && secondary == citymodel.Lane:
			return 0.10
		}
	case citymodel.LotLuxuryScenic:
		switch {
		case primary == citymodel.Drive && secondary == citymodel.Lane:
			return 0.15
		case primary == citymodel.Boulevard && secondary == citymodel.Driveway:
			return 0.10
		case primary == citymodel.CulDeSac && secondary == citymodel.Driveway:
			return 0.10
		}
	case citymodel.LotRowhomeCompact:
		switch {
		case primary == citymodel.Lane && secondary == citymodel.Alleyway:
			return 0.25
		case primary == citymodel.Street && secondary == citymodel.Alleyway:
			return 0.20
		}
	}
	return 0.0
}

func districtMultiplier(t citymodel.DistrictType, lt citymodel.LotType) float64 {
	switch t {
	case citymodel.Residential:
		if lt == citymodel.LotResidential || lt == citymodel.LotRowhomeCompact {
			return 0.20
		}
	case citymodel.Commercial:
		if lt == citymodel.LotRetailStrip || lt == citymodel.LotMixedUse {
			return 0.20
		}
	case citymodel.Civic:
		if lt == citymodel.LotCivicCultural {
			return 0.25
		}
	case citymodel.Industrial:
		if lt == citymodel.LotLogisticsIndustrial {
			return 0.25
		}
	}
	return 0.0
}
