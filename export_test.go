package citygen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

func TestToJSONSchemaVersion(t *testing.T) {
	params := citymodel.DefaultCityParams(500, 500, 3)
	city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	data, err := ToJSON(city)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(2), doc["version"])
	assert.Contains(t, doc, "bounds")
	assert.Contains(t, doc, "districts")
	assert.Contains(t, doc, "roads_by_type")
	assert.Contains(t, doc, "road_segments_by_type")
}

func TestWriteJSONCreatesParentDirs(t *testing.T) {
	params := citymodel.DefaultCityParams(400, 400, 5)
	city, err := Generate(params, nil, citymodel.UserPlacedInputs{})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "city.json")
	require.NoError(t, WriteJSON(city, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestLintRingDropsDuplicatesAndRecloses(t *testing.T) {
	ring := geomutil.Polyline{
		{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
	}
	linted := lintRing(ring)
	require.Len(t, linted, 5)
	assert.Equal(t, linted[0], linted[len(linted)-1])
}

func TestLintRingIdempotent(t *testing.T) {
	ring := geomutil.Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0}}
	once := lintRing(ring)
	twice := lintRing(once)
	assert.Equal(t, once, twice)
}

func TestBuildingKeyHashIsFourBase36Chars(t *testing.T) {
	key := buildingKeyHash(3, 42)
	require.Len(t, key, 4)
	for _, c := range key {
		assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z'))
	}
	// Same inputs produce same key; different inputs (almost always) differ.
	assert.Equal(t, key, buildingKeyHash(3, 42))
	assert.NotEqual(t, key, buildingKeyHash(3, 43))
}
