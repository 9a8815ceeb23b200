package tetra

import (
	"slices"
)

// Plan is a sequence of rotations and horizontal shifts that brings the
// active piece over its chosen landing spot, followed by a hard drop.
type Plan struct {
	Rotations []Axis
	Shift     Vec3
	Cleared   int
	Score     float64
}

// Intents expands the plan into engine intents, ending with a hard drop.
func (p Plan) Intents() []Intent {
	intents := make([]Intent, 0, len(p.Rotations)+abs(p.Shift.X)+abs(p.Shift.Z)+1)
	for _, axis := range p.Rotations {
		intents = append(intents, RotateIntent(axis))
	}
	for range abs(p.Shift.X) {
		if p.Shift.X < 0 {
			intents = append(intents, MoveIntent(Left))
		} else {
			intents = append(intents, MoveIntent(Right))
		}
	}
	for range abs(p.Shift.Z) {
		if p.Shift.Z < 0 {
			intents = append(intents, MoveIntent(Forward))
		} else {
			intents = append(intents, MoveIntent(Back))
		}
	}
	return append(intents, Intent{Kind: IntentHardDrop})
}

// Planner searches placements for the active piece with a greedy heuristic.
type Planner struct {
	ClearWeight  float64
	HeightWeight float64
	HoleWeight   float64
}

// NewPlanner returns a planner with weights that favor clears and flat stacks.
func NewPlanner() *Planner {
	return &Planner{
		ClearWeight:  20,
		HeightWeight: 1,
		HoleWeight:   4,
	}
}

type orientation struct {
	rotations []Axis
	piece     *Piece
}

// Best returns the highest scoring reachable placement for the engine's
// active piece. It reports false when there is no active piece.
func (pl *Planner) Best(e *Engine) (Plan, bool) {
	active := e.Active()
	if active == nil || e.State() != StateRunning {
		return Plan{}, false
	}
	grid := e.Grid()

	var best Plan
	found := false
	for _, o := range orientations(active, grid.Fits) {
		for dz := -grid.Depth(); dz <= grid.Depth(); dz++ {
			for dx := -grid.Width(); dx <= grid.Width(); dx++ {
				moved, ok := shifted(o.piece, dx, dz, grid.Fits)
				if !ok {
					continue
				}
				cleared, score := pl.evaluate(grid, moved)
				if !found || score > best.Score {
					best = Plan{
						Rotations: o.rotations,
						Shift:     Vec3{X: dx, Z: dz},
						Cleared:   cleared,
						Score:     score,
					}
					found = true
				}
			}
		}
	}
	return best, found
}

// orientations lists every distinct shape reachable from p with at most
// three in-place rotations, each validated against valid.
func orientations(p *Piece, valid Validator) []orientation {
	seen := map[[4]Vec3]bool{sortedShape(p.Shape()): true}
	out := []orientation{{piece: p.Clone()}}
	frontier := out

	for depth := 0; depth < 3; depth++ {
		var nextFrontier []orientation
		for _, o := range frontier {
			for _, axis := range DefaultFallback {
				c := o.piece.Clone()
				if !c.Rotate(axis, valid) {
					continue
				}
				key := sortedShape(c.Shape())
				if seen[key] {
					continue
				}
				seen[key] = true
				next := orientation{
					rotations: append(slices.Clone(o.rotations), axis),
					piece:     c,
				}
				out = append(out, next)
				nextFrontier = append(nextFrontier, next)
			}
		}
		frontier = nextFrontier
	}
	return out
}

// shifted walks p along x and then z one step at a time, as the engine would.
func shifted(p *Piece, dx, dz int, valid Validator) (*Piece, bool) {
	c := p.Clone()
	for range abs(dx) {
		if !c.Translate(Vec3{X: sign(dx)}, valid) {
			return nil, false
		}
	}
	for range abs(dz) {
		if !c.Translate(Vec3{Z: sign(dz)}, valid) {
			return nil, false
		}
	}
	return c, true
}

func (pl *Planner) evaluate(grid *Grid, p *Piece) (int, float64) {
	pos := p.Position()
	pos.Y = p.DropTarget(grid.Fits)
	cells := p.CellsAt(pos, p.Shape())

	probe := grid.Clone()
	placed := make([]PlacedCell, len(cells))
	heightSum := 0
	for i, c := range cells {
		placed[i] = PlacedCell{Vec3: c, Id: NewOccupantId(0, uint32(i+1))}
		heightSum += c.Y
	}
	probe.Place(placed)

	holes := 0
	for _, c := range cells {
		below := c.Add(down)
		if below.Y >= 0 && !probe.Occupied(below) {
			holes++
		}
	}
	cleared := len(probe.FullLayers())

	score := float64(cleared)*pl.ClearWeight -
		float64(heightSum)/float64(len(cells))*pl.HeightWeight -
		float64(holes)*pl.HoleWeight
	return cleared, score
}

func sortedShape(shape [4]Vec3) [4]Vec3 {
	slices.SortFunc(shape[:], func(a, b Vec3) int {
		if a.X != b.X {
			return a.X - b.X
		}
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.Z - b.Z
	})
	return shape
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
