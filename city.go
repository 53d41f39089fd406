// Package citygen builds a procedurally generated city: water bodies, a
// hierarchical road network, power-diagram districts, block polygons, lot
// tokens, and building sites, assembled into an in-memory City (see
// citymodel.City) ready for JSON export.
package citygen

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/voidshard/citygen/block"
	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/district"
	"github.com/voidshard/citygen/geomutil"
	"github.com/voidshard/citygen/graph"
	"github.com/voidshard/citygen/internal/debuglog"
	"github.com/voidshard/citygen/lot"
	"github.com/voidshard/citygen/roads"
	"github.com/voidshard/citygen/site"
	"github.com/voidshard/citygen/tensorfield"
	"github.com/voidshard/citygen/water"
)

// Generate runs the full pipeline of spec §2-§4 over params and the given
// axioms/user-authored content, returning a fully populated City.
func Generate(params citymodel.CityParams, axioms []citymodel.AxiomInput, userInputs citymodel.UserPlacedInputs) (*citymodel.City, error) {
	if params.Width <= 0 || params.Height <= 0 {
		return nil, errors.Wrap(ErrInvalidBounds, "citygen.Generate")
	}

	runID := uuid.NewString()
	log := debuglog.New(runID)
	log.Debugf("starting generation width=%.0f height=%.0f seed=%d axioms=%d", params.Width, params.Height, params.Seed, len(axioms))

	bounds := geomutil.Bounds{Min: geomutil.Vec2{X: 0, Y: 0}, Max: geomutil.Vec2{X: params.Width, Y: params.Height}}
	rng := rand.New(rand.NewSource(int64(params.Seed)))

	city := citymodel.NewCity(bounds)
	city.Stats.RunID = runID

	field := tensorfield.Make(params, axioms, bounds)

	waterResult := water.Generate(field, params.Water, bounds, rng)
	city.Sea = waterResult.SeaPolygon
	city.River = waterResult.RiverPolygon
	city.RiverSecondary = waterResult.RiverBankSecondary
	log.Debugf("water generated sea_rings=%d river_rings=%d", len(waterResult.SeaPolygon.Outer), len(waterResult.RiverPolygon.Outer))

	var waterLines []geomutil.Polyline
	if len(waterResult.SeaPolygon.Outer) > 0 {
		waterLines = append(waterLines, waterResult.SeaPolygon.Outer)
	}
	if len(waterResult.RiverPolygon.Outer) > 0 {
		waterLines = append(waterLines, waterResult.RiverPolygon.Outer)
	}

	if params.PhaseEnabled[citymodel.PhaseRoads] {
		roadResult := roads.Generate(field, params, waterLines, bounds, rng)
		city.RoadsByType = roadResult.RoadsByType
		city.SegmentRoadsByType = roadResult.SegmentRoadsByType
		city.Stats.RoadsAccepted = roadResult.Accepted
		log.Debugf("roads generated")
		for _, class := range citymodel.RoadTypeOrder {
			log.Debugf("  %s accepted=%d", class.Key(), roadResult.Accepted[class])
		}
	} else {
		log.Debugf("roads phase disabled, skipping")
	}

	installUserRoads(city, userInputs)

	nearestRoadAt := func(p geomutil.Vec2) citymodel.RoadType {
		best := citymodel.RoadType("")
		bestDist := -1.0
		for _, class := range citymodel.RoadTypeOrder {
			for _, line := range city.RoadsByType[class] {
				d := geomutil.DistanceToPolyline(p, line)
				if bestDist < 0 || d < bestDist {
					best, bestDist = class, d
				}
			}
		}
		if best == "" {
			return citymodel.Street
		}
		return best
	}

	var districtField *citymodel.DistrictField
	if params.PhaseEnabled[citymodel.PhaseDistricts] {
		districts, df := district.Generate(params, axioms, bounds, field, nearestRoadAt)
		city.Districts = districts
		city.DistrictField = df
		districtField = df
		if counterWouldOverflow(len(districts)) {
			return nil, errors.Wrap(ErrCounterOverflow, "district id assignment")
		}

		clippedRoads, clippedSegments := district.ClipRoadsToDistricts(city.RoadsByType, city.SegmentRoadsByType, districtField)
		city.RoadsByType = clippedRoads
		city.SegmentRoadsByType = clippedSegments
		log.Debugf("districts generated count=%d", len(districts))
	} else {
		log.Debugf("districts phase disabled, skipping")
	}

	fieldSample := func(p geomutil.Vec2) int { return districtField.SampleID(p) }

	if params.PhaseEnabled[citymodel.PhaseBlocks] {
		blockResult := block.Generate(city.RoadsByType, params, districtField, fieldSample, city.Districts, bounds)
		city.BlockPolygons = blockResult.Blocks
		city.BlockFaces = blockResult.Faces
		city.Stats.Debug = blockResult.Stats
		city.Stats.BlocksFound = len(blockResult.Blocks)
		city.Stats.BlocksSkipped = blockResult.Stats.SkippedPolygons
		log.Debugf("blocks generated found=%d skipped=%d", city.Stats.BlocksFound, city.Stats.BlocksSkipped)
		if city.Stats.BlocksSkipped > 0 {
			log.Warnf(map[string]interface{}{
				"stage":             "block",
				"skipped_polygons":  blockResult.Stats.SkippedPolygons,
				"invalid_polygons":  blockResult.Stats.InvalidPolygons,
				"repaired_polygons": blockResult.Stats.RepairedPolygons,
			}, "block polygonizer skipped %d polygons", blockResult.Stats.SkippedPolygons)
		}
	} else {
		log.Debugf("blocks phase disabled, skipping")
	}

	if params.PhaseEnabled[citymodel.PhaseLots] {
		nodes := intersectionNodes(city.RoadsByType)
		city.Lots = lot.Generate(params, city.Districts, districtField, city.BlockPolygons, city.RoadsByType, city.SegmentRoadsByType, nodes, bounds, userInputs, rng)
		if counterWouldOverflow(len(city.Lots)) {
			return nil, errors.Wrap(ErrCounterOverflow, "lot id assignment")
		}
		log.Debugf("lots generated count=%d", len(city.Lots))
	} else {
		log.Debugf("lots phase disabled, skipping")
	}

	if params.PhaseEnabled[citymodel.PhaseBuildings] {
		city.BuildingSites = site.Generate(params, city.Lots, city.RoadsByType, userInputs)
		if counterWouldOverflow(len(city.BuildingSites)) {
			return nil, errors.Wrap(ErrCounterOverflow, "building site id assignment")
		}
		log.Debugf("building sites generated count=%d", len(city.BuildingSites))
	} else {
		log.Debugf("buildings phase disabled, skipping")
	}

	log.Debugf("generation complete")
	return city, nil
}

// counterWouldOverflow reports whether an id counter that started at 1 and
// incremented once per produced item would have wrapped a 32-bit range
// (spec §7).
func counterWouldOverflow(count int) bool {
	return count < 0 || uint64(count) > 0xFFFFFFFF
}

// intersectionNodes builds the merged road graph and reduces it to the
// minimal view lot.Generate needs for intersection-lot placement (spec
// §4.9 "Intersection lots").
func intersectionNodes(roadsByType map[citymodel.RoadType][]geomutil.Polyline) []lot.GraphNode {
	var lines []geomutil.Polyline
	for _, class := range citymodel.RoadTypeOrder {
		lines = append(lines, roadsByType[class]...)
	}
	if len(lines) == 0 {
		return nil
	}
	g := graph.New(lines, 20.0, true)
	nodes := make([]lot.GraphNode, len(g.Nodes))
	for i, n := range g.Nodes {
		adj := make([]geomutil.Vec2, len(n.Adj))
		for j, idx := range n.Adj {
			adj[j] = g.Nodes[idx].Pos
		}
		nodes[i] = lot.GraphNode{Pos: n.Pos, Adj: adj}
	}
	return nodes
}
