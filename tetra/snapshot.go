package tetra

import (
	"time"

	"github.com/google/uuid"
)

// Block is a placed cell joined with its occupant record.
type Block struct {
	PlacedCell
	Occupant
}

// Snapshot is a read-only copy of everything a presentation layer needs to
// draw one frame.
type Snapshot struct {
	Session uuid.UUID
	State   State

	Score        int
	Level        int
	Lines        int
	Placed       int
	DropInterval time.Duration

	Width, Height, Depth int

	Active  *PieceSnapshot
	Next    ShapeKind
	HasNext bool
	Ghost   []Vec3
	Blocks  []Block
}

// Snapshot copies the current game state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Session:      e.session,
		State:        e.state,
		Score:        e.score,
		Level:        e.level,
		Lines:        e.lines,
		Placed:       e.placed,
		DropInterval: e.dropInterval,
		Width:        e.cfg.Width,
		Height:       e.cfg.Height,
		Depth:        e.cfg.Depth,
		Next:         e.next,
		HasNext:      e.hasNext,
		Ghost:        e.Ghost(),
	}

	if e.active != nil {
		p := snapshotPiece(e.active)
		snap.Active = &p
	}

	cells := e.grid.Cells()
	snap.Blocks = make([]Block, 0, len(cells))
	for _, c := range cells {
		occ, _ := e.occupants.Get(c.Id)
		snap.Blocks = append(snap.Blocks, Block{PlacedCell: c, Occupant: occ})
	}
	return snap
}

// HeightMap returns, for every (x, z) column, one more than the highest
// occupied y, or 0 for an empty column. Indexed [z][x].
func (s Snapshot) HeightMap() [][]int {
	heights := make([][]int, s.Depth)
	for z := range heights {
		heights[z] = make([]int, s.Width)
	}
	for _, b := range s.Blocks {
		if b.Y+1 > heights[b.Z][b.X] {
			heights[b.Z][b.X] = b.Y + 1
		}
	}
	return heights
}
