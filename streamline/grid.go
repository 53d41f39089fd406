package streamline

import (
	"math"

	"github.com/voidshard/citygen/geomutil"
)

// GridStorage is a uniform-grid spatial hash of sampled points keyed by
// floor((p-origin)/cellSize) (spec §4.3 "Per-direction spatial grid").
type GridStorage struct {
	origin   geomutil.Vec2
	cellSize float64
	cells    map[[2]int][]geomutil.Vec2
}

// NewGridStorage returns an empty grid with the given origin and cell size.
func NewGridStorage(origin geomutil.Vec2, cellSize float64) *GridStorage {
	return &GridStorage{origin: origin, cellSize: cellSize, cells: map[[2]int][]geomutil.Vec2{}}
}

func (g *GridStorage) key(p geomutil.Vec2) [2]int {
	cx := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	cy := int(math.Floor((p.Y - g.origin.Y) / g.cellSize))
	return [2]int{cx, cy}
}

// Add inserts p into the grid.
func (g *GridStorage) Add(p geomutil.Vec2) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], p)
}

// AddPolyline inserts every point of line into the grid.
func (g *GridStorage) AddPolyline(line geomutil.Polyline) {
	for _, p := range line {
		g.Add(p)
	}
}

// IsValidSample reports whether p lies at distance >= sqrt(dSq) from every
// sample currently in the grid, checking only the <=9 neighbouring cells
// (spec §4.3 "is_valid_sample... checks all <=9 neighbour cells").
func (g *GridStorage) IsValidSample(p geomutil.Vec2, dSq float64) bool {
	k := g.key(p)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			nk := [2]int{k[0] + dx, k[1] + dy}
			for _, q := range g.cells[nk] {
				if geomutil.DistanceSquared(p, q) < dSq {
					return false
				}
			}
		}
	}
	return true
}

// Clear empties the grid.
func (g *GridStorage) Clear() { g.cells = map[[2]int][]geomutil.Vec2{} }
