package citygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

// Scenario 1 (spec §8): empty axioms over a square bounds yields exactly one
// district covering the full bounds with primary_axiom_id = -1.
func TestScenarioEmptyAxiomsSingleDistrict(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	require.Len(t, city.Districts, 1)
	d := city.Districts[0]
	assert.Equal(t, -1, d.PrimaryAxiomID)
	assert.Equal(t, citymodel.Mixed, d.Type)
	require.GreaterOrEqual(t, len(d.Border), 4)
	assert.Equal(t, d.Border[0], d.Border[len(d.Border)-1])
}

// Scenario 2 (spec §8): a single radial axiom yields one district whose
// border is a closed ring and whose centroid sits near the axiom.
func TestScenarioSingleRadialAxiom(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	axioms := []citymodel.AxiomInput{
		{ID: 1, Type: citymodel.AxiomRadial, Pos: geomutil.Vec2{X: 500, Y: 500}, Radius: 400},
	}
	city, err := Generate(params, axioms, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	require.Len(t, city.Districts, 1)
	d := city.Districts[0]
	require.GreaterOrEqual(t, len(d.Border), 4)
	assert.Equal(t, d.Border[0], d.Border[len(d.Border)-1])

	centroid := geomutil.AveragePoint(d.Border)
	assert.LessOrEqual(t, geomutil.Distance(centroid, geomutil.Vec2{X: 500, Y: 500}), 50.0)
}

// Scenario 3 (spec §8): with two radial axioms and split_disconnected_regions,
// each axiom's position samples a non-zero district id and the two ids
// differ. The total number of districts is not asserted.
func TestScenarioTwoRadialAxiomsSplit(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 42)
	params.SplitDisconnectedRegions = true
	axiomA := citymodel.AxiomInput{ID: 1, Type: citymodel.AxiomRadial, Pos: geomutil.Vec2{X: 300, Y: 500}, Radius: 250}
	axiomB := citymodel.AxiomInput{ID: 2, Type: citymodel.AxiomRadial, Pos: geomutil.Vec2{X: 700, Y: 500}, Radius: 250}

	city, err := Generate(params, []citymodel.AxiomInput{axiomA, axiomB}, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	idA := city.DistrictField.SampleID(axiomA.Pos)
	idB := city.DistrictField.SampleID(axiomB.Pos)
	assert.NotEqual(t, 0, idA)
	assert.NotEqual(t, 0, idB)
	assert.NotEqual(t, idA, idB)
}

// Scenario 4 (spec §8): road budgets are respected.
func TestScenarioRoadBudgets(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	params.MaxTotalRoads = 50
	params.MaxMajorRoads = 20

	city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	total := 0
	major := 0
	for _, class := range citymodel.RoadTypeOrder {
		n := len(city.SegmentRoadsByType[class])
		total += n
		if citymodel.MajorGroup[class] {
			major += n
		}
	}
	assert.LessOrEqual(t, total, params.MaxTotalRoads)
	assert.LessOrEqual(t, major, params.MaxMajorRoads)
	assert.LessOrEqual(t, len(city.Lots), params.MaxTotalRoads/2)
}

// Scenario 6 (spec §8): a locked user-placed lot survives the full pipeline
// unchanged.
func TestScenarioUserLockedLotSurvives(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	userInputs := citymodel.UserPlacedInputs{
		Lots: []citymodel.LotToken{
			{
				ID:           1,
				Centroid:     geomutil.Vec2{X: 500, Y: 500},
				LotType:      citymodel.LotLuxuryScenic,
				LockedType:   true,
				IsUserPlaced: true,
			},
		},
		LockUserTypes: true,
	}

	city, err := Generate(params, nil, userInputs)
	require.NoError(t, err)

	require.NotEmpty(t, city.Lots)
	first := city.Lots[0]
	assert.Equal(t, citymodel.LotLuxuryScenic, first.LotType)
	assert.True(t, first.IsUserPlaced)
}

// Bounds containment (spec §8): every lot centroid lies within bounds.
func TestLotsWithinBounds(t *testing.T) {
	params := citymodel.DefaultCityParams(800, 800, 7)
	city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	for _, l := range city.Lots {
		assert.True(t, city.Bounds.Contains(l.Centroid), "lot %d centroid %v outside bounds", l.ID, l.Centroid)
	}
}

// Determinism (spec §8): two runs of the same params/axioms/user_inputs with
// RandomizeSites=false produce identical road/district/lot counts and
// point data.
func TestDeterminismAcrossRuns(t *testing.T) {
	params := citymodel.DefaultCityParams(1200, 900, 99)
	axioms := []citymodel.AxiomInput{
		{ID: 1, Type: citymodel.AxiomRadial, Pos: geomutil.Vec2{X: 400, Y: 400}, Radius: 300},
	}

	a, err := Generate(params, axioms, citymodel.UserPlacedInputs{})
	require.NoError(t, err)
	b, err := Generate(params, axioms, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	require.Equal(t, len(a.Districts), len(b.Districts))
	require.Equal(t, len(a.Lots), len(b.Lots))
	for i := range a.Lots {
		assert.Equal(t, a.Lots[i].Centroid, b.Lots[i].Centroid)
		assert.Equal(t, a.Lots[i].LotType, b.Lots[i].LotType)
	}
	for _, class := range citymodel.RoadTypeOrder {
		require.Equal(t, len(a.SegmentRoadsByType[class]), len(b.SegmentRoadsByType[class]), class)
		for i := range a.SegmentRoadsByType[class] {
			assert.Equal(t, a.SegmentRoadsByType[class][i].Points, b.SegmentRoadsByType[class][i].Points)
		}
	}
}

// phase_enabled (spec §6): disabling a stage leaves its City slice empty
// without breaking later stages.
func TestPhaseEnabledSkipsStages(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	params.PhaseEnabled[citymodel.PhaseRoads] = false
	params.PhaseEnabled[citymodel.PhaseBlocks] = false
	params.PhaseEnabled[citymodel.PhaseLots] = false
	params.PhaseEnabled[citymodel.PhaseBuildings] = false

	city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	for _, class := range citymodel.RoadTypeOrder {
		assert.Empty(t, city.RoadsByType[class])
	}
	assert.Empty(t, city.BlockPolygons)
	assert.Empty(t, city.Lots)
	assert.Empty(t, city.BuildingSites)
	// Districts phase still ran: empty axioms still yield the full-bounds
	// fallback district.
	require.Len(t, city.Districts, 1)
}

// Districts phase disabled: downstream stages must not panic on a nil
// DistrictField (spec §6 "skip entire stages when false").
func TestPhaseDistrictsDisabledDoesNotPanic(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	params.PhaseEnabled[citymodel.PhaseDistricts] = false

	require.NotPanics(t, func() {
		city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
		require.NoError(t, err)
		assert.Empty(t, city.Districts)
		assert.Nil(t, city.DistrictField)
	})
}

// User-placed roads (spec §3, §4.7): a designer-authored M_Major road is
// layered onto the network under its own class, with IsUserCreated set.
func TestUserPlacedRoadIsInstalled(t *testing.T) {
	params := citymodel.DefaultCityParams(1000, 1000, 1)
	userInputs := citymodel.UserPlacedInputs{
		Roads: []citymodel.UserRoad{
			{
				Points: geomutil.Polyline{{X: 10, Y: 10}, {X: 990, Y: 10}},
				Type:   citymodel.MMajor,
			},
		},
	}
	city, err := Generate(params, nil, userInputs)
	require.NoError(t, err)

	require.NotEmpty(t, city.RoadsByType[citymodel.MMajor])
	require.NotEmpty(t, city.SegmentRoadsByType[citymodel.MMajor])
	for _, seg := range city.SegmentRoadsByType[citymodel.MMajor] {
		assert.True(t, seg.IsUserCreated)
	}
}

// Fatal bounds condition (spec §7): non-positive bounds is the one caller
// error Generate must surface.
func TestGenerateRejectsNonPositiveBounds(t *testing.T) {
	params := citymodel.DefaultCityParams(0, 500, 1)
	_, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

// Property: for any seed in a reasonable range, Generate never errors and
// always returns a City whose district field covers 1..k ids exactly.
func TestDistrictIDsAreDenseProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint32Range(1, 1000).Draw(rt, "seed")
		params := citymodel.DefaultCityParams(600, 600, seed)

		city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
		require.NoError(rt, err)

		seen := map[int]bool{}
		for _, id := range city.DistrictField.DistrictIDs {
			if id == 0 {
				continue
			}
			seen[id] = true
		}
		for _, d := range city.Districts {
			assert.True(rt, seen[d.ID] || len(city.Districts) == 1, "district %d has no cell", d.ID)
		}
	})
}
