package tetra

import (
	"slices"
)

// PlacedCell is a grid coordinate together with the occupant stored there.
type PlacedCell struct {
	Vec3
	Id OccupantId
}

// Grid is the 3D occupancy array. Layers (fixed y) are stored contiguously so
// that gravity-compaction is a sequence of layer copies.
type Grid struct {
	width, height, depth int
	cells                []OccupantId
}

// NewGrid allocates an empty grid. It panics on non-positive dimensions.
func NewGrid(width, height, depth int) *Grid {
	if width <= 0 || height <= 0 || depth <= 0 {
		panic("tetra: grid dimensions must be positive")
	}
	return &Grid{
		width:  width,
		height: height,
		depth:  depth,
		cells:  make([]OccupantId, width*height*depth),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Depth() int  { return g.depth }

func (g *Grid) layerSize() int {
	return g.width * g.depth
}

func (g *Grid) index(v Vec3) int {
	return v.X + g.width*(v.Z+g.depth*v.Y)
}

// InBounds reports whether v lies inside the grid.
func (g *Grid) InBounds(v Vec3) bool {
	return v.X >= 0 && v.X < g.width &&
		v.Y >= 0 && v.Y < g.height &&
		v.Z >= 0 && v.Z < g.depth
}

// Occupied reports whether the cell at v holds a block.
// Out-of-bounds coordinates report true.
func (g *Grid) Occupied(v Vec3) bool {
	if !g.InBounds(v) {
		return true
	}
	return g.cells[g.index(v)] != 0
}

// Get returns the occupant at v, or zero when empty or out of bounds.
func (g *Grid) Get(v Vec3) OccupantId {
	if !g.InBounds(v) {
		return 0
	}
	return g.cells[g.index(v)]
}

// Fits reports whether every cell is in bounds and empty.
func (g *Grid) Fits(cells []Vec3) bool {
	for _, c := range cells {
		if !g.InBounds(c) || g.cells[g.index(c)] != 0 {
			return false
		}
	}
	return true
}

// Place writes each cell's occupant. The caller guarantees the cells are in
// bounds and currently empty.
func (g *Grid) Place(cells []PlacedCell) {
	for _, c := range cells {
		g.cells[g.index(c.Vec3)] = c.Id
	}
}

// LayerFull reports whether every (x, z) cell at height y is occupied.
func (g *Grid) LayerFull(y int) bool {
	if y < 0 || y >= g.height {
		return false
	}
	size := g.layerSize()
	for _, id := range g.cells[y*size : (y+1)*size] {
		if id == 0 {
			return false
		}
	}
	return true
}

// FullLayers returns the y of every full layer in ascending order.
func (g *Grid) FullLayers() []int {
	var full []int
	for y := 0; y < g.height; y++ {
		if g.LayerFull(y) {
			full = append(full, y)
		}
	}
	return full
}

// ClearAndCompact empties the given layers and collapses everything above
// each of them by one layer, highest cleared layer first. The removed cells
// are returned with their pre-clear coordinates. Out-of-range and duplicate
// layers are ignored.
func (g *Grid) ClearAndCompact(layers []int) []PlacedCell {
	sorted := make([]int, 0, len(layers))
	for _, y := range layers {
		if y >= 0 && y < g.height {
			sorted = append(sorted, y)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var removed []PlacedCell
	size := g.layerSize()
	for _, y := range sorted {
		for i, id := range g.cells[y*size : (y+1)*size] {
			if id == 0 {
				continue
			}
			removed = append(removed, PlacedCell{
				Vec3: Vec3{X: i % g.width, Y: y, Z: i / g.width},
				Id:   id,
			})
		}
		clear(g.cells[y*size : (y+1)*size])
	}

	slices.Reverse(sorted)
	for _, cleared := range sorted {
		copy(g.cells[cleared*size:(g.height-1)*size], g.cells[(cleared+1)*size:])
		clear(g.cells[(g.height-1)*size:])
	}

	return removed
}

// Cells returns every occupied cell ordered by y, then z, then x.
func (g *Grid) Cells() []PlacedCell {
	var out []PlacedCell
	size := g.layerSize()
	for i, id := range g.cells {
		if id == 0 {
			continue
		}
		rem := i % size
		out = append(out, PlacedCell{
			Vec3: Vec3{X: rem % g.width, Y: i / size, Z: rem / g.width},
			Id:   id,
		})
	}
	return out
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, id := range g.cells {
		if id != 0 {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		depth:  g.depth,
		cells:  slices.Clone(g.cells),
	}
}
