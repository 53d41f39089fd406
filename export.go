package citygen

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

// schemaVersion is the fixed JSON schema version of spec §6.
const schemaVersion = 2

type pointJSON [2]float64

func vecJSON(v geomutil.Vec2) pointJSON { return pointJSON{v.X, v.Y} }

type boundsJSON struct {
	Min pointJSON `json:"min"`
	Max pointJSON `json:"max"`
}

type featureJSON struct {
	FeatureID string                 `json:"feature_id"`
	ObjectID  string                 `json:"object_id"`
	GeomType  string                 `json:"geom_type"`
	Coords    interface{}            `json:"coords"`
	Meta      map[string]interface{} `json:"meta"`
}

type roadSegmentJSON struct {
	ID     int         `json:"id"`
	Points []pointJSON `json:"points"`
}

type nearestRoadJSON struct {
	RoadType      string `json:"road_type"`
	RoadID        int    `json:"road_id"`
	EndpointIndex int    `json:"endpoint_index"`
}

type districtJSON struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	PrimaryAxiomID   int         `json:"primary_axiom_id"`
	SecondaryAxiomID int         `json:"secondary_axiom_id"`
	Type             string      `json:"type"`
	Orientation      pointJSON   `json:"orientation"`
	Border           []pointJSON `json:"border"`
}

type lotTokenJSON struct {
	ID             int               `json:"id"`
	DistrictID     int               `json:"district_id"`
	DistrictName   string            `json:"district_name"`
	Centroid       pointJSON         `json:"centroid"`
	LotType        string            `json:"lot_type"`
	PrimaryRoad    string            `json:"primary_road"`
	SecondaryRoad  string            `json:"secondary_road,omitempty"`
	Access         float64           `json:"access"`
	Exposure       float64           `json:"exposure"`
	Serviceability float64           `json:"serviceability"`
	Privacy        float64           `json:"privacy"`
	BuildingKey    string            `json:"building_key"`
	NearestMajor   *nearestRoadJSON  `json:"nearest_major"`
	NearestMinor   *nearestRoadJSON  `json:"nearest_minor"`
}

type buildingSiteJSON struct {
	ID         int       `json:"id"`
	LotID      int       `json:"lot_id"`
	DistrictID int       `json:"district_id"`
	Position   pointJSON `json:"position"`
	Type       string    `json:"type"`
}

type cityJSON struct {
	Version              int                            `json:"version"`
	Bounds               boundsJSON                     `json:"bounds"`
	Features             []featureJSON                  `json:"features"`
	Water                []interface{}                  `json:"water"`
	RoadsByType          map[string][]interface{}       `json:"roads_by_type"`
	RoadSegmentsByType   map[string][]roadSegmentJSON   `json:"road_segments_by_type"`
	Districts            []districtJSON                 `json:"districts"`
	Lots                 []lotTokenJSON                 `json:"lots"`
	BuildingSites        []buildingSiteJSON             `json:"building_sites"`
}

// lintRing drops non-finite points and consecutive duplicates, drops a
// trailing point equal to the first, then re-closes by appending the first
// point back on (spec §6 "Block rings written to features are linted").
// Rings with fewer than 4 points after linting are omitted by the caller.
func lintRing(ring geomutil.Polyline) geomutil.Polyline {
	var out geomutil.Polyline
	for _, p := range ring {
		if !isFinite(p) {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return out
	}
	return append(out, out[0])
}

func isFinite(p geomutil.Vec2) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// ToJSON builds the schema-version-2 export record of spec §6 for city.
func ToJSON(city *citymodel.City) ([]byte, error) {
	doc := cityJSON{
		Version: schemaVersion,
		Bounds: boundsJSON{
			Min: vecJSON(city.Bounds.Min),
			Max: vecJSON(city.Bounds.Max),
		},
		RoadsByType:        map[string][]interface{}{},
		RoadSegmentsByType: map[string][]roadSegmentJSON{},
	}

	if len(city.Sea.Outer) > 0 {
		doc.Water = append(doc.Water, ringPoints(city.Sea.Outer))
	}
	if len(city.River.Outer) > 0 {
		doc.Water = append(doc.Water, ringPoints(city.River.Outer))
	}
	if len(city.RiverSecondary) > 0 {
		doc.Water = append(doc.Water, ringPoints(city.RiverSecondary))
	}

	allClasses := append(append([]citymodel.RoadType{}, citymodel.RoadTypeOrder...), citymodel.MMajor, citymodel.MMinor)
	for _, class := range allClasses {
		key := class.Key()
		for _, line := range city.RoadsByType[class] {
			doc.RoadsByType[key] = append(doc.RoadsByType[key], ringPoints(line))
		}
		for _, seg := range city.SegmentRoadsByType[class] {
			doc.RoadSegmentsByType[key] = append(doc.RoadSegmentsByType[key], roadSegmentJSON{
				ID:     seg.ID,
				Points: ringPoints(seg.Points),
			})
		}
	}

	doc.Features = blockFeatures(city.BlockPolygons, city.Districts)

	for _, d := range city.Districts {
		doc.Districts = append(doc.Districts, districtJSON{
			ID:               d.ID,
			Name:             districtName(d),
			PrimaryAxiomID:   d.PrimaryAxiomID,
			SecondaryAxiomID: d.SecondaryAxiomID,
			Type:             d.Type.Key(),
			Orientation:      vecJSON(d.Orientation),
			Border:           ringPoints(d.Border),
		})
	}

	districtNameByID := map[int]string{}
	for _, d := range city.Districts {
		districtNameByID[d.ID] = districtName(d)
	}

	for _, l := range city.Lots {
		lj := lotTokenJSON{
			ID:             l.ID,
			DistrictID:     l.DistrictID,
			DistrictName:   districtNameByID[l.DistrictID],
			Centroid:       vecJSON(l.Centroid),
			LotType:        l.LotType.Key(),
			PrimaryRoad:    l.PrimaryRoad.Key(),
			Access:         l.Access,
			Exposure:       l.Exposure,
			Serviceability: l.Serviceability,
			Privacy:        l.Privacy,
			BuildingKey:    buildingKeyHash(l.DistrictID, l.ID),
		}
		if l.HasSecondary {
			lj.SecondaryRoad = l.SecondaryRoad.Key()
		}
		if l.NearestMajor != nil {
			lj.NearestMajor = &nearestRoadJSON{
				RoadType:      l.NearestMajor.RoadType.Key(),
				RoadID:        l.NearestMajor.RoadID,
				EndpointIndex: l.NearestMajor.EndpointIndex,
			}
		}
		if l.NearestMinor != nil {
			lj.NearestMinor = &nearestRoadJSON{
				RoadType:      l.NearestMinor.RoadType.Key(),
				RoadID:        l.NearestMinor.RoadID,
				EndpointIndex: l.NearestMinor.EndpointIndex,
			}
		}
		doc.Lots = append(doc.Lots, lj)
	}

	for _, b := range city.BuildingSites {
		doc.BuildingSites = append(doc.BuildingSites, buildingSiteJSON{
			ID:         b.ID,
			LotID:      b.LotID,
			DistrictID: b.DistrictID,
			Position:   vecJSON(b.Position),
			Type:       b.Type.Key(),
		})
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "citygen.ToJSON")
	}
	return out, nil
}

// WriteJSON exports city to path, creating parent directories as needed
// (spec §6 "creates parent directories").
func WriteJSON(city *citymodel.City, path string) error {
	data, err := ToJSON(city)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "citygen.WriteJSON: mkdir")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "citygen.WriteJSON: write")
	}
	return nil
}

func districtName(d citymodel.District) string {
	var b strings.Builder
	b.WriteString("A")
	b.WriteString(itoa(d.PrimaryAxiomID))
	if d.SecondaryAxiomID >= 0 {
		b.WriteString("+A")
		b.WriteString(itoa(d.SecondaryAxiomID))
	}
	return b.String()
}

// ringPoints converts a ring/polyline point-for-point into JSON coordinate
// pairs without linting it; block rings pass through lintRing before they
// reach it, while water and road polylines are emitted as stored.
func ringPoints(line geomutil.Polyline) []pointJSON {
	out := make([]pointJSON, 0, len(line))
	for _, p := range line {
		out = append(out, vecJSON(p))
	}
	return out
}

// blockFeatures builds the "zones" feature collection from block polygons,
// linting every ring per spec §6 and falling back to district borders when
// no blocks were produced (spec §7 "no blocks found").
func blockFeatures(blocks []geomutil.BlockPolygon, districts []citymodel.District) []featureJSON {
	var features []featureJSON
	if len(blocks) == 0 {
		for i, d := range districts {
			ring := lintRing(d.Border)
			if len(ring) < 4 {
				continue
			}
			features = append(features, featureJSON{
				FeatureID: "zones",
				ObjectID:  "district_" + itoa(i+1),
				GeomType:  "POLYGON",
				Coords:    ringPoints(ring),
				Meta:      map[string]interface{}{},
			})
		}
		return features
	}

	for i, block := range blocks {
		outer := lintRing(block.Outer)
		if len(outer) < 4 {
			continue
		}
		if len(block.Holes) == 0 {
			features = append(features, featureJSON{
				FeatureID: "zones",
				ObjectID:  "block_" + itoa(i),
				GeomType:  "POLYGON",
				Coords:    ringPoints(outer),
				Meta:      map[string]interface{}{},
			})
			continue
		}
		rings := [][]pointJSON{ringPoints(outer)}
		for _, h := range block.Holes {
			hole := lintRing(h)
			if len(hole) < 4 {
				continue
			}
			rings = append(rings, ringPoints(hole))
		}
		features = append(features, featureJSON{
			FeatureID: "zones",
			ObjectID:  "block_" + itoa(i),
			GeomType:  "POLYGON",
			Coords:    rings,
			Meta:      map[string]interface{}{},
		})
	}
	return features
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// mix is the exact bit-mixing function of spec §6's building_key formula.
func mix(s, v uint64) uint64 {
	return s ^ (v + 0x9E3779B97F4A7C15 + (s << 6) + (s >> 2))
}

// buildingKeyHash computes the 4-character base-36 building_key of spec §6:
// h = mix(mix(mix(0, district_id), lot_id), 0), printed base-36 padded to 4.
func buildingKeyHash(districtID, lotID int) string {
	h := uint64(0)
	h = mix(h, uint64(uint32(districtID)))
	h = mix(h, uint64(uint32(lotID)))
	h = mix(h, 0)

	var digits [4]byte
	for i := 3; i >= 0; i-- {
		digits[i] = base36Alphabet[h%36]
		h /= 36
	}
	return string(digits[:])
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
