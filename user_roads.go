package citygen

import (
	"github.com/voidshard/citygen/citymodel"
	"github.com/voidshard/citygen/geomutil"
)

// installUserRoads layers userInputs.Roads onto the generated network (spec
// §3 "UserPlacedInputs", §4.7 "Roads from user inputs are included unless
// source_generated_id hides the corresponding generated road"). A user road
// whose HasSourceGenerated is set hides the generated segment carrying that
// id from every class's segment list (and drops any accepted polyline whose
// points match it) before the user's own polyline/segments are added with
// fresh, globally-unique ids.
func installUserRoads(city *citymodel.City, userInputs citymodel.UserPlacedInputs) {
	if len(userInputs.Roads) == 0 {
		return
	}

	hidden := map[int]bool{}
	hiddenPoints := map[citymodel.RoadType][]geomutil.Polyline{}
	for _, r := range userInputs.Roads {
		if !r.HasSourceGenerated {
			continue
		}
		hidden[r.SourceGeneratedID] = true
		for class, segs := range city.SegmentRoadsByType {
			for _, seg := range segs {
				if seg.ID == r.SourceGeneratedID {
					hiddenPoints[class] = append(hiddenPoints[class], seg.Points)
				}
			}
		}
	}

	if len(hidden) > 0 {
		for class, segs := range city.SegmentRoadsByType {
			var kept []citymodel.Road
			for _, seg := range segs {
				if hidden[seg.ID] {
					continue
				}
				kept = append(kept, seg)
			}
			city.SegmentRoadsByType[class] = kept
		}
		for class, pts := range hiddenPoints {
			city.RoadsByType[class] = removeMatchingPolylines(city.RoadsByType[class], pts)
		}
	}

	nextID := maxSegmentRoadID(city.SegmentRoadsByType) + 1

	for _, r := range userInputs.Roads {
		if len(r.Points) < 2 {
			continue
		}
		city.RoadsByType[r.Type] = append(city.RoadsByType[r.Type], r.Points)
		for i := 0; i < len(r.Points)-1; i++ {
			city.SegmentRoadsByType[r.Type] = append(city.SegmentRoadsByType[r.Type], citymodel.Road{
				ID:            nextID,
				Points:        geomutil.Polyline{r.Points[i], r.Points[i+1]},
				Type:          r.Type,
				IsUserCreated: true,
			})
			nextID++
		}
	}
}

func maxSegmentRoadID(byType map[citymodel.RoadType][]citymodel.Road) int {
	highest := 0
	for _, segs := range byType {
		for _, seg := range segs {
			if seg.ID > highest {
				highest = seg.ID
			}
		}
	}
	return highest
}

func removeMatchingPolylines(lines []geomutil.Polyline, remove []geomutil.Polyline) []geomutil.Polyline {
	if len(remove) == 0 {
		return lines
	}
	matches := func(a, b geomutil.Polyline) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	var out []geomutil.Polyline
	for _, line := range lines {
		skip := false
		for _, r := range remove {
			if matches(line, r) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, line)
		}
	}
	return out
}
