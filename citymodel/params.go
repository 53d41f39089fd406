package citymodel

// RoadDefinitionMode selects whether downstream stages (block polygonizer,
// lot placer) walk roads as simplified polylines or as per-edge segments.
type RoadDefinitionMode string

const (
	ByPolyline RoadDefinitionMode = "ByPolyline"
	BySegment  RoadDefinitionMode = "BySegment"
)

// BlockGenMode selects the block polygonizer implementation (spec §4.7).
type BlockGenMode string

const (
	Legacy        BlockGenMode = "Legacy"
	PolygonEngine BlockGenMode = "PolygonEngine"
)

// Phase names the five stages that phase_enabled can skip (spec §6).
type Phase string

const (
	PhaseRoads     Phase = "Roads"
	PhaseDistricts Phase = "Districts"
	PhaseBlocks    Phase = "Blocks"
	PhaseLots      Phase = "Lots"
	PhaseBuildings Phase = "Buildings"
)

// StreamlineParams mirrors original_source's StreamlineParams exactly
// (defaults per CityParams.h).
type StreamlineParams struct {
	Dsep              float64
	Dtest             float64
	Dstep             float64
	Dcirclejoin       float64
	Dlookahead        float64
	Joinangle         float64
	PathIterations    int
	SeedTries         int
	SimplifyTolerance float64
	CollideEarly      float64
}

// DefaultStreamlineParams returns the original_source defaults.
func DefaultStreamlineParams() StreamlineParams {
	return StreamlineParams{
		Dsep:              20.0,
		Dtest:             15.0,
		Dstep:             1.0,
		Dcirclejoin:       5.0,
		Dlookahead:        40.0,
		Joinangle:         0.1,
		PathIterations:    1000,
		SeedTries:         300,
		SimplifyTolerance: 0.5,
		CollideEarly:      0.0,
	}
}

// RoadTypeParams extends StreamlineParams with per-class generation and
// graph-rule controls (spec §6).
type RoadTypeParams struct {
	StreamlineParams
	MajorDirection           bool
	Enabled                  bool
	PruneDangling            bool
	AllowDeadEnds            bool
	RequireDeadEnd           bool
	MinEdgeLength            float64
	MaxEdgeLength            float64
	AllowIntersectionsMask   map[RoadType]bool
	IntersectionSpacing      float64
	BlockBarrier             bool
	BlockClosure             bool
}

// WaterParams extends StreamlineParams with the coast/river-specific knobs
// of spec §4.4.
type WaterParams struct {
	StreamlineParams
	RiverSize     float64
	RiverBankSize float64
}

// NoiseParams are the tensor-field noise knobs of spec §4.1 / §6.
type NoiseParams struct {
	GlobalNoise       bool
	NoiseSizePark     float64
	NoiseAnglePark    float64
	NoiseSizeGlobal   float64
	NoiseAngleGlobal  float64
}

// CityParams is the full parameter set accepted by Generate (spec §6).
type CityParams struct {
	Width, Height float64
	Seed          uint32

	RandomizeSites       bool
	BufferUtilityChance  float64
	MinLotsPerRoadSide   int
	LotSpacingMultiplier float64

	Noise NoiseParams

	Water WaterParams

	RoadClasses map[RoadType]RoadTypeParams

	DebugUseSegmentRoadsForBlocks bool
	BlockSnapToleranceFactor      float64
	MergeRadius                   float64
	VerboseGeosDiagnostics        bool

	MaxMajorRoads     int
	MaxTotalRoads     int
	MajorToMinorRatio float64

	RoadDefinitionMode RoadDefinitionMode
	BlockGenMode       BlockGenMode

	MinBlockArea float64
	MaxBlockArea float64

	LargestFaceThreshold float64
	NearMissTolerance    float64

	// District assigner knobs (spec §4.8).
	MinGridResolution       int
	MaxGridResolution       int
	AdaptiveGridResolution  bool
	UseLocalSecondaryCutoff bool
	FixedSecondaryCutoff    float64
	SecondaryThreshold      float64
	WeightScale             float64
	UseReactionDiffusion    bool
	RDMix                   float64
	SplitDisconnectedRegions bool
	DesireDensityRadius     float64
	DesireScoreEpsilon      float64
	WAxiom                  float64
	WFrontage               float64
	NormalizeWeights        bool

	PhaseEnabled map[Phase]bool
}

// DefaultRoadTypeParams returns the original_source-derived per-class
// streamline + graph-rule defaults, scaled down for lower-rank classes the
// way original_source's CityParams.h scales dsep/dtest per tier.
func DefaultRoadTypeParams(t RoadType, scale float64) RoadTypeParams {
	sp := DefaultStreamlineParams()
	sp.Dsep *= scale
	sp.Dtest *= scale
	return RoadTypeParams{
		StreamlineParams:       sp,
		MajorDirection:         true,
		Enabled:                true,
		PruneDangling:          true,
		AllowDeadEnds:          true,
		RequireDeadEnd:         false,
		MinEdgeLength:          1.0,
		MaxEdgeLength:          2000.0,
		AllowIntersectionsMask: map[RoadType]bool{},
		IntersectionSpacing:    5.0,
		BlockBarrier:           true,
		BlockClosure:           true,
	}
}

// classScale mirrors original_source's per-tier dsep scaling: each class's
// multiplier relative to Street (1.0), from 4.0 for Highway down to 0.35
// for Driveway.
var classScale = map[RoadType]float64{
	Highway:   4.0,
	Arterial:  2.5,
	Avenue:    1.8,
	Boulevard: 1.4,
	Street:    1.0,
	Lane:      0.6,
	Alleyway:  0.45,
	CulDeSac:  0.5,
	Drive:     0.5,
	Driveway:  0.35,
}

// DefaultCityParams returns a full default parameter set over a
// width x height world, matching original_source/CityParams.h's defaults
// closely enough to drive every pipeline stage out of the box.
func DefaultCityParams(width, height float64, seed uint32) CityParams {
	classes := make(map[RoadType]RoadTypeParams, len(RoadTypeOrder))
	for _, t := range RoadTypeOrder {
		classes[t] = DefaultRoadTypeParams(t, classScale[t])
	}

	phases := map[Phase]bool{
		PhaseRoads: true, PhaseDistricts: true, PhaseBlocks: true,
		PhaseLots: true, PhaseBuildings: true,
	}

	return CityParams{
		Width:  width,
		Height: height,
		Seed:   seed,

		RandomizeSites:       false,
		BufferUtilityChance:  0.5,
		MinLotsPerRoadSide:   2,
		LotSpacingMultiplier: 1.0,

		Noise: NoiseParams{
			GlobalNoise:      false,
			NoiseSizePark:    50.0,
			NoiseAnglePark:   0.0,
			NoiseSizeGlobal:  100.0,
			NoiseAngleGlobal: 0.0,
		},

		Water: WaterParams{
			StreamlineParams: DefaultStreamlineParams(),
			RiverSize:        40.0,
			RiverBankSize:    10.0,
		},

		RoadClasses: classes,

		DebugUseSegmentRoadsForBlocks: false,
		BlockSnapToleranceFactor:      0.1,
		MergeRadius:                   5.0,
		VerboseGeosDiagnostics:        false,

		MaxMajorRoads:     200,
		MaxTotalRoads:     2000,
		MajorToMinorRatio: 0.2,

		RoadDefinitionMode: BySegment,
		BlockGenMode:       Legacy,

		MinBlockArea: 400.0,
		MaxBlockArea: 2_000_000.0,

		LargestFaceThreshold: 5.0,
		NearMissTolerance:    2.0,

		MinGridResolution:       64,
		MaxGridResolution:       256,
		AdaptiveGridResolution:  true,
		UseLocalSecondaryCutoff: false,
		FixedSecondaryCutoff:    2000.0,
		SecondaryThreshold:      0.15,
		WeightScale:             1.0,
		UseReactionDiffusion:    true,
		RDMix:                  0.4,
		SplitDisconnectedRegions: true,
		DesireDensityRadius:     300.0,
		DesireScoreEpsilon:      0.01,
		WAxiom:                  0.6,
		WFrontage:               0.4,
		NormalizeWeights:        true,

		PhaseEnabled: phases,
	}
}
