package world

import (
	"math"

	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
)

// AOIGrid implements a cell-based broad phase for hull tests.
// Cell size is chosen so that a 3x3 neighbourhood of cells covers every
// hull whose centre is within one cell of the probe point.
// Accessed only from the simulation goroutine, no locks.

const cellSize = 500.0

type cellKey struct {
	cx int32
	cy int32
}

func toCellCoord(v float64) int32 {
	return int32(math.Floor(v / cellSize))
}

func keyOf(p geo.Vec2) cellKey {
	return cellKey{cx: toCellCoord(p.X), cy: toCellCoord(p.Y)}
}

// AOIGrid tracks which hulls are in which cells.
type AOIGrid struct {
	cells map[cellKey][]ecs.EntityID
	where map[ecs.EntityID]cellKey
}

func NewAOIGrid() *AOIGrid {
	return &AOIGrid{
		cells: make(map[cellKey][]ecs.EntityID),
		where: make(map[ecs.EntityID]cellKey),
	}
}

// Add places a hull into the grid.
func (g *AOIGrid) Add(id ecs.EntityID, p geo.Vec2) {
	if _, ok := g.where[id]; ok {
		g.Move(id, p)
		return
	}
	k := keyOf(p)
	g.cells[k] = append(g.cells[k], id)
	g.where[id] = k
}

// Remove takes a hull out of the grid. It satisfies ecs.Removable so the
// grid is cleaned together with the component stores.
func (g *AOIGrid) Remove(id ecs.EntityID) {
	k, ok := g.where[id]
	if !ok {
		return
	}
	delete(g.where, id)
	cell := g.cells[k]
	for i, other := range cell {
		if other == id {
			cell = append(cell[:i], cell[i+1:]...)
			break
		}
	}
	if len(cell) == 0 {
		delete(g.cells, k)
	} else {
		g.cells[k] = cell
	}
}

// Move updates a hull's cell when its position changes.
func (g *AOIGrid) Move(id ecs.EntityID, p geo.Vec2) {
	k := keyOf(p)
	if old, ok := g.where[id]; ok && old == k {
		return
	}
	g.Remove(id)
	g.cells[k] = append(g.cells[k], id)
	g.where[id] = k
}

// Nearby returns the hulls in the 3x3 neighbourhood of cells around p.
// Caller does the exact test.
func (g *AOIGrid) Nearby(p geo.Vec2) map[ecs.EntityID]struct{} {
	c := keyOf(p)
	out := make(map[ecs.EntityID]struct{})
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for _, id := range g.cells[cellKey{cx: c.cx + dx, cy: c.cy + dy}] {
				out[id] = struct{}{}
			}
		}
	}
	return out
}

// Len returns the number of hulls in the grid.
func (g *AOIGrid) Len() int { return len(g.where) }
