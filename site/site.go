// Package site implements the building site placer of spec §4.12: an
// oriented rectangle per lot, a type-demotion rule for minor-road lots, and
// deterministic per-lot sampling. Grounded line-for-line on
// original_source/SiteGenerator.cpp.
package site

import (
	"math"
	"math/rand"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

type orientedRect struct {
	center              geomutil.Vec2
	dir, normal         geomutil.Vec2
	halfWidth, halfDepth float64
}

// Generate places building sites for every scored lot plus any user-placed
// buildings (spec §4.12).
func Generate(params citymodel.CityParams, lots []citymodel.LotToken, roadsByType map[citymodel.RoadType][]geomutil.Polyline, userInputs citymodel.UserPlacedInputs) []citymodel.BuildingSite {
	var sites []citymodel.BuildingSite
	nextID := 1

	for _, b := range userInputs.Buildings {
		sites = append(sites, citymodel.BuildingSite{
			ID: nextID, LotID: 0, DistrictID: 0,
			Position: b.Position, Type: b.BuildingType,
			IsUserPlaced: true, LockedType: userInputs.LockUserTypes || b.LockedType,
		})
		nextID++
	}

	for _, lot := range lots {
		if lot.LotType == citymodel.LotNone {
			continue
		}

		rng := rngFor(params, lot.ID)
		count := sitesPerLot(params, lot.LotType, rng)
		if count <= 0 {
			continue
		}

		rect := impliedLotRect(lot, roadsByType)
		bType := buildingTypeFor(lot)

		for i := 0; i < count; i++ {
			sites = append(sites, citymodel.BuildingSite{
				ID: nextID, LotID: lot.ID, DistrictID: lot.DistrictID,
				Position: samplePoint(rect, rng), Type: bType,
			})
			nextID++
		}
	}

	return sites
}

// rngFor returns a per-lot deterministic generator via
// seed ^ (lot_id * 0x9E3779B97F4A7C15), or a process-random one when
// RandomizeSites is set (spec §4.12).
func rngFor(params citymodel.CityParams, lotID int) *rand.Rand {
	if params.RandomizeSites {
		return rand.New(rand.NewSource(rand.Int63()))
	}
	mixed := uint64(params.Seed) ^ (uint64(lotID) * 0x9E3779B97F4A7C15)
	return rand.New(rand.NewSource(int64(mixed & 0xFFFFFFFF)))
}

func sitesPerLot(params citymodel.CityParams, t citymodel.LotType, rng *rand.Rand) int {
	switch t {
	case citymodel.LotResidential:
		return uniformInt(rng, 1, 2)
	case citymodel.LotRowhomeCompact:
		return uniformInt(rng, 2, 6)
	case citymodel.LotRetailStrip:
		return uniformInt(rng, 1, 3)
	case citymodel.LotMixedUse:
		return uniformInt(rng, 1, 2)
	case citymodel.LotLogisticsIndustrial:
		return 1
	case citymodel.LotCivicCultural:
		return 1
	case citymodel.LotLuxuryScenic:
		return uniformInt(rng, 1, 2)
	case citymodel.LotBufferStrip:
		if rng.Float64() < params.BufferUtilityChance {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func uniformInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func desirabilityScore(lot citymodel.LotToken) float64 {
	return 0.50*lot.Access + 0.35*lot.Exposure + 0.15*lot.Serviceability
}

// buildingTypeFor applies spec §4.12's demotion rule: a minor-road lot
// below the 0.75 desirability threshold is demoted to a residential-class
// building regardless of its scored lot type.
func buildingTypeFor(lot citymodel.LotToken) citymodel.BuildingType {
	minor := lot.PrimaryRoad.IsMinor()
	allowMajor := !minor || desirabilityScore(lot) >= 0.75

	if !allowMajor {
		switch lot.LotType {
		case citymodel.LotRowhomeCompact:
			return citymodel.BuildingRowhome
		case citymodel.LotBufferStrip:
			return citymodel.BuildingUtility
		default:
			return citymodel.BuildingResidential
		}
	}

	switch lot.LotType {
	case citymodel.LotResidential:
		return citymodel.BuildingResidential
	case citymodel.LotRowhomeCompact:
		return citymodel.BuildingRowhome
	case citymodel.LotRetailStrip:
		return citymodel.BuildingRetail
	case citymodel.LotMixedUse:
		return citymodel.BuildingMixedUse
	case citymodel.LotLogisticsIndustrial:
		return citymodel.BuildingIndustrial
	case citymodel.LotCivicCultural:
		return citymodel.BuildingCivic
	case citymodel.LotLuxuryScenic:
		return citymodel.BuildingLuxury
	case citymodel.LotBufferStrip:
		return citymodel.BuildingUtility
	default:
		return citymodel.BuildingNone
	}
}

func baseDimensionsFor(t citymodel.LotType) (width, depth float64) {
	switch t {
	case citymodel.LotResidential:
		return 26.0, 34.0
	case citymodel.LotRowhomeCompact:
		return 18.0, 28.0
	case citymodel.LotRetailStrip:
		return 40.0, 30.0
	case citymodel.LotMixedUse:
		return 32.0, 36.0
	case citymodel.LotLogisticsIndustrial:
		return 60.0, 50.0
	case citymodel.LotCivicCultural:
		return 46.0, 38.0
	case citymodel.LotLuxuryScenic:
		return 34.0, 42.0
	case citymodel.LotBufferStrip:
		return 20.0, 20.0
	default:
		return 24.0, 30.0
	}
}

func nearestRoadDirection(pos geomutil.Vec2, roadsByType map[citymodel.RoadType][]geomutil.Polyline) (geomutil.Vec2, bool) {
	best := math.Inf(1)
	bestDir := geomutil.Vec2{X: 1, Y: 0}
	found := false
	for _, class := range append(append([]citymodel.RoadType{}, citymodel.RoadTypeOrder...), citymodel.MMajor, citymodel.MMinor) {
		for _, line := range roadsByType[class] {
			for i := 0; i+1 < len(line); i++ {
				a, b := line[i], line[i+1]
				d := geomutil.DistanceToSegment(pos, a, b)
				if d < best {
					dir := b.Sub(a)
					if dir.Length() > 0 {
						dir = dir.Normalize()
						best, bestDir, found = d, dir, true
					}
				}
			}
		}
	}
	return bestDir, found
}

// impliedLotRect builds the oriented footprint rectangle of spec §4.12,
// scaling base type dimensions by access/exposure/privacy/serviceability
// frontage and depth factors.
func impliedLotRect(lot citymodel.LotToken, roadsByType map[citymodel.RoadType][]geomutil.Polyline) orientedRect {
	rect := orientedRect{center: lot.Centroid, dir: geomutil.Vec2{X: 1, Y: 0}}
	if dir, ok := nearestRoadDirection(lot.Centroid, roadsByType); ok {
		rect.dir = dir
	}
	rect.normal = geomutil.Vec2{X: -rect.dir.Y, Y: rect.dir.X}.Normalize()

	baseW, baseD := baseDimensionsFor(lot.LotType)
	frontageFactor := 0.6 + 0.6*lot.Access + 0.4*lot.Exposure
	depthFactor := 0.6 + 0.6*lot.Privacy + 0.2*lot.Serviceability

	// spec §4.12: half-width/half-depth are themselves the clamped quantity,
	// not half of a clamped full dimension.
	rect.halfWidth = clamp(baseW*frontageFactor, 12.0, 120.0)
	rect.halfDepth = clamp(baseD*depthFactor, 12.0, 120.0)
	return rect
}

func samplePoint(rect orientedRect, rng *rand.Rand) geomutil.Vec2 {
	x := uniform(rng, -rect.halfWidth, rect.halfWidth)
	y := uniform(rng, -rect.halfDepth, rect.halfDepth)
	return rect.center.Add(rect.dir.Scale(x)).Add(rect.normal.Scale(y))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
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
