package citymodel

import "github.com/voidshard/citygen/geomutil"

// AxiomInput is a designer-placed marker driving the tensor field and
// district assignment (spec §3).
type AxiomInput struct {
	ID         int
	Type       AxiomType
	Pos        geomutil.Vec2
	Radius     float64
	Influencer Influencer
}

// UserBuilding is a single designer-placed building passed in via
// UserPlacedInputs.
type UserBuilding struct {
	Position    geomutil.Vec2
	BuildingType BuildingType
	LockedType  bool
}

// UserRoad is a designer-placed road, optionally hiding a generated road
// that would otherwise occupy the same space.
type UserRoad struct {
	Points             geomutil.Polyline
	Type               RoadType
	SourceGeneratedID  int  // 0 means "no generated road hidden"
	HasSourceGenerated bool
}

// UserPlacedInputs holds all designer-authored content layered onto the
// generated city.
type UserPlacedInputs struct {
	Lots           []LotToken
	Buildings      []UserBuilding
	Roads          []UserRoad
	LockUserTypes  bool
}

// Road is a segment-level record: a single edge of the road network plus
// its class and provenance (spec §3, §9 "unified Road record").
type Road struct {
	ID            int
	Points        geomutil.Polyline // exactly 2 points for a segment edge
	Type          RoadType
	IsUserCreated bool
}

// District is a connected region sharing a (primary, secondary) axiom
// labelling, a type, and an orientation (spec §3).
type District struct {
	ID               int
	PrimaryAxiomID   int
	SecondaryAxiomID int // -1 if none
	Type             DistrictType
	Border           geomutil.Polyline
	Orientation      geomutil.Vec2
}

// DistrictField is a regular grid over bounds storing one district id per
// cell (0 = no district).
type DistrictField struct {
	Bounds      geomutil.Bounds
	Width       int
	Height      int
	DistrictIDs []int
}

func (f *DistrictField) cellSize() geomutil.Vec2 {
	ext := f.Bounds.Extent()
	return geomutil.Vec2{X: ext.X / float64(f.Width), Y: ext.Y / float64(f.Height)}
}

// SampleID returns the district id at point p, or 0 if p is outside bounds
// or the grid.
func (f *DistrictField) SampleID(p geomutil.Vec2) int {
	if f == nil || f.Width == 0 || f.Height == 0 {
		return 0
	}
	cs := f.cellSize()
	if cs.X == 0 || cs.Y == 0 {
		return 0
	}
	cx := int((p.X - f.Bounds.Min.X) / cs.X)
	cy := int((p.Y - f.Bounds.Min.Y) / cs.Y)
	if cx < 0 || cy < 0 || cx >= f.Width || cy >= f.Height {
		return 0
	}
	return f.DistrictIDs[cy*f.Width+cx]
}

// NearestRoadRef identifies a road endpoint nearest to some lot or building
// (used by the JSON export's nearest_major/nearest_minor fields).
type NearestRoadRef struct {
	RoadType      RoadType
	RoadID        int
	EndpointIndex int
}

// LotToken is a scored, typed parcel — the atomic input to site placement.
type LotToken struct {
	ID             int
	DistrictID     int
	Centroid       geomutil.Vec2
	PrimaryRoad    RoadType
	SecondaryRoad  RoadType
	HasSecondary   bool
	Access         float64
	Exposure       float64
	Serviceability float64
	Privacy        float64
	LotType        LotType
	IsUserPlaced   bool
	LockedType     bool
	NearestMajor   *NearestRoadRef
	NearestMinor   *NearestRoadRef
}

// BuildingSite is a single placed building.
type BuildingSite struct {
	ID           int
	LotID        int
	DistrictID   int
	Position     geomutil.Vec2
	Type         BuildingType
	IsUserPlaced bool
	LockedType   bool
}

// BlockDebugStats carries the block polygonizer's diagnostic counters
// (spec §4.7 "Stats").
type BlockDebugStats struct {
	Inputs          int
	Segments        int
	Intersections   int
	FacesFound      int
	ValidBlocks     int
	InvalidPolygons int
	RepairedPolygons int
	SkippedPolygons int
}

// BlockFace is a debug-only record of a candidate face considered (and
// possibly rejected) during block polygonization.
type BlockFace struct {
	Outer      geomutil.Polyline
	DistrictID int
}

// CityStats carries run-level diagnostics surfaced to the caller.
type CityStats struct {
	RunID             string
	RoadsAccepted     map[RoadType]int
	BlocksFound       int
	BlocksSkipped     int
	Debug             BlockDebugStats
}

// City owns every generated artifact. Nothing on City is mutated once
// Generate returns (spec §3 Lifecycles).
type City struct {
	Bounds geomutil.Bounds

	Sea            geomutil.Polygon
	River          geomutil.Polygon
	RiverSecondary geomutil.Polyline

	RoadsByType        map[RoadType][]geomutil.Polyline
	SegmentRoadsByType map[RoadType][]Road

	DistrictField *DistrictField
	Districts     []District

	BlockPolygons []geomutil.BlockPolygon
	BlockFaces    []BlockFace

	Lots          []LotToken
	BuildingSites []BuildingSite

	Stats CityStats
}

// NewCity returns a City with every map/slice field initialized empty, so
// downstream stages can always index into it without nil checks.
func NewCity(bounds geomutil.Bounds) *City {
	c := &City{
		Bounds:             bounds,
		RoadsByType:        make(map[RoadType][]geomutil.Polyline),
		SegmentRoadsByType: make(map[RoadType][]Road),
	}
	for _, t := range append(append([]RoadType{}, RoadTypeOrder...), MMajor, MMinor) {
		c.RoadsByType[t] = nil
		c.SegmentRoadsByType[t] = nil
	}
	return c
}
