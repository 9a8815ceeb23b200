package tetra

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, kinds ...ShapeKind) (*Engine, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	e, err := NewEngine(WithShapeSource(NewQueueSource(kinds...)), WithListener(rec))
	require.NoError(t, err)
	return e, rec
}

// prefill fills layer y of the engine's grid except for holes, registering an
// occupant per block the way a placement would.
func prefill(e *Engine, y int, holes ...Vec3) {
	var cells []PlacedCell
	for z := 0; z < e.grid.Depth(); z++ {
		for x := 0; x < e.grid.Width(); x++ {
			v := Vec3{X: x, Y: y, Z: z}
			if slices.Contains(holes, v) {
				continue
			}
			id := e.occupants.Register(ShapeO, 0x808080, 1)[0]
			cells = append(cells, PlacedCell{Vec3: v, Id: id})
		}
	}
	e.grid.Place(cells)
}

func column(x, z int, ys ...int) []Vec3 {
	out := make([]Vec3, len(ys))
	for i, y := range ys {
		out[i] = Vec3{X: x, Y: y, Z: z}
	}
	return out
}

func TestEngineStart(t *testing.T) {
	e, rec := newTestEngine(t, ShapeO, ShapeI, ShapeT)
	assert.Equal(t, StateIdle, e.State())
	assert.Nil(t, e.Active())

	assert.True(t, e.Start())
	assert.False(t, e.Start(), "only an idle engine starts")

	assert.Equal(t, StateRunning, e.State())
	require.NotNil(t, e.Active())
	assert.Equal(t, ShapeO, e.Active().Kind())
	assert.Equal(t, Vec3{X: 5, Y: 18, Z: 5}, e.Active().Position())

	next, ok := e.Next()
	assert.True(t, ok)
	assert.Equal(t, ShapeI, next)

	assert.Equal(t, []StateChanged{{From: StateIdle, To: StateRunning}}, RecordedOf[StateChanged](rec))
	spawned := RecordedOf[PieceSpawned](rec)
	require.Len(t, spawned, 1)
	assert.Equal(t, ShapeO, spawned[0].Piece.Kind)
}

func TestEngineSingleLayerClear(t *testing.T) {
	e, rec := newTestEngine(t, ShapeO, ShapeI, ShapeT)
	prefill(e, 0, Vec3{X: 5, Y: 0, Z: 5}, Vec3{X: 6, Y: 0, Z: 5})
	marker := e.occupants.Register(ShapeT, 0x800080, 1)[0]
	e.grid.Place([]PlacedCell{{Vec3: Vec3{X: 0, Y: 3, Z: 0}, Id: marker}})
	require.True(t, e.Start())

	require.True(t, e.HardDrop())

	cleared := RecordedOf[LayersCleared](rec)
	require.Len(t, cleared, 1)
	assert.Equal(t, []int{0}, cleared[0].Layers)
	assert.Equal(t, 1, cleared[0].Count)
	assert.Len(t, cleared[0].Removed, 100)

	assert.Equal(t, 100, e.Score())
	assert.Equal(t, 1, e.Lines())
	assert.Equal(t, 1, e.Level())
	assert.Equal(t, []ScoreChanged{{Score: 100, Level: 1, Lines: 1}}, RecordedOf[ScoreChanged](rec))

	g := e.Grid()
	assert.Equal(t, marker, g.Get(Vec3{X: 0, Y: 2, Z: 0}), "blocks above shift down one layer")
	assert.False(t, g.Occupied(Vec3{X: 0, Y: 3, Z: 0}))
	assert.True(t, g.Occupied(Vec3{X: 5, Y: 0, Z: 5}), "upper half of the O survives")
	assert.True(t, g.Occupied(Vec3{X: 6, Y: 0, Z: 5}))
	assert.Equal(t, 3, g.Count())

	// Records for cleared blocks are released; survivors keep theirs.
	assert.Equal(t, 3, e.occupants.Len())
	occ, ok := e.Occupant(g.Get(Vec3{X: 5, Y: 0, Z: 5}))
	assert.True(t, ok)
	assert.Equal(t, ShapeO, occ.Shape)
}

func TestEngineTetrisScoresTableEntry(t *testing.T) {
	e, rec := newTestEngine(t, ShapeI, ShapeO, ShapeT)
	hole := Vec3{X: 5, Z: 5}
	for y := range 4 {
		prefill(e, y, Vec3{X: hole.X, Y: y, Z: hole.Z})
	}
	require.True(t, e.Start())

	require.True(t, e.HardDrop())

	assert.Equal(t, 800, e.Score(), "four layers use the table, not 4x100")
	assert.Equal(t, 4, e.Lines())
	assert.Equal(t, 0, e.Grid().Count())
	assert.Equal(t, 0, e.occupants.Len())

	cleared := RecordedOf[LayersCleared](rec)
	require.Len(t, cleared, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, cleared[0].Layers)
}

func TestEngineLevelUp(t *testing.T) {
	e, _ := newTestEngine(t, ShapeO, ShapeI, ShapeT)
	e.lines = 9
	prefill(e, 0, Vec3{X: 5, Y: 0, Z: 5}, Vec3{X: 6, Y: 0, Z: 5})
	require.True(t, e.Start())
	assert.Equal(t, time.Second, e.DropInterval())

	require.True(t, e.HardDrop())

	assert.Equal(t, 100, e.Score(), "award uses the level before the clear")
	assert.Equal(t, 10, e.Lines())
	assert.Equal(t, 2, e.Level())
	assert.Equal(t, 900*time.Millisecond, e.DropInterval())
}

func TestEngineMoveAgainstWall(t *testing.T) {
	e, rec := newTestEngine(t, ShapeO, ShapeI)
	require.True(t, e.Start())
	rec.Reset()

	for range 5 {
		require.True(t, e.Move(Left))
	}
	assert.Equal(t, 0, e.Active().Position().X)

	assert.False(t, e.MovePiece(-1, 0, 0))
	assert.False(t, e.Move(Left))
	assert.Equal(t, Vec3{X: 0, Y: 18, Z: 5}, e.Active().Position())
	assert.Len(t, RecordedOf[PieceMoved](rec), 5, "rejected moves raise nothing")
}

func TestEngineBlockedSpawn(t *testing.T) {
	e, rec := newTestEngine(t, ShapeO, ShapeI)
	id := e.occupants.Register(ShapeI, 0x00ffff, 1)[0]
	e.grid.Place([]PlacedCell{{Vec3: Vec3{X: 5, Y: 18, Z: 5}, Id: id}})
	before := e.Grid().Cells()

	require.True(t, e.Start())

	assert.Equal(t, StateGameOver, e.State())
	assert.Nil(t, e.Active())
	assert.Equal(t, before, e.Grid().Cells(), "a blocked spawn leaves the grid alone")
	assert.Empty(t, RecordedOf[PieceSpawned](rec))
	assert.Equal(t, []GameOver{{FinalScore: 0}}, RecordedOf[GameOver](rec))
	assert.Equal(t, []StateChanged{
		{From: StateIdle, To: StateRunning},
		{From: StateRunning, To: StateGameOver},
	}, RecordedOf[StateChanged](rec))

	assert.False(t, e.Move(Right))
	assert.False(t, e.HardDrop())
	assert.False(t, e.Pause())
}

func TestEngineHardDrop(t *testing.T) {
	e, rec := newTestEngine(t, ShapeT, ShapeO, ShapeI)
	require.True(t, e.Start())
	rec.Reset()

	require.True(t, e.HardDrop())

	placed := RecordedOf[PiecePlaced](rec)
	require.Len(t, placed, 1)
	assert.Len(t, RecordedOf[PieceSpawned](rec), 1, "exactly one follow-up spawn")
	assert.Len(t, RecordedOf[PieceMoved](rec), 1, "the drop is a single move")
	assert.Equal(t, 1, e.Placed())

	cells := make([]Vec3, len(placed[0].Cells))
	for i, c := range placed[0].Cells {
		cells[i] = c.Vec3.Add(down)
	}
	assert.False(t, e.grid.Fits(cells), "one more step down must be invalid")

	minY := e.grid.Height()
	for _, c := range placed[0].Cells {
		minY = min(minY, c.Y)
	}
	assert.Equal(t, 0, minY)
	assert.Equal(t, ShapeO, e.Active().Kind())
}

func TestEngineHardDropOntoStack(t *testing.T) {
	e, _ := newTestEngine(t, ShapeI, ShapeI, ShapeO, ShapeT)
	require.True(t, e.Start())
	require.True(t, e.HardDrop())
	require.True(t, e.HardDrop())

	g := e.Grid()
	assert.Equal(t, 8, g.Count())
	for _, v := range column(5, 5, 0, 1, 2, 3, 4, 5, 6, 7) {
		assert.True(t, g.Occupied(v), "%v", v)
	}
}

func TestEngineSoftDropDoesNotPlace(t *testing.T) {
	e, rec := newTestEngine(t, ShapeI, ShapeO)
	require.True(t, e.Start())

	for e.SoftDrop() {
	}
	assert.Equal(t, 3, e.Active().Position().Y)
	assert.Empty(t, RecordedOf[PiecePlaced](rec))
	assert.Equal(t, 0, e.Grid().Count())
}

func TestEngineRotate(t *testing.T) {
	t.Run("in place", func(t *testing.T) {
		e, rec := newTestEngine(t, ShapeI, ShapeO)
		require.True(t, e.Start())
		rec.Reset()

		assert.True(t, e.RotatePiece(AxisZ))
		assert.Equal(t, Vec3{X: 5, Y: 18, Z: 5}, e.Active().Position())
		assert.Equal(t, column(5, 5, 18)[0], e.Active().Cells()[0])
		assert.Equal(t, Vec3{X: 8, Y: 18, Z: 5}, e.Active().Cells()[3])
		assert.Len(t, RecordedOf[PieceMoved](rec), 1)
	})

	t.Run("no kicks", func(t *testing.T) {
		e, _ := newTestEngine(t, ShapeI, ShapeO)
		require.True(t, e.Start())
		for e.Move(Right) {
		}
		shape := e.Active().Shape()

		assert.False(t, e.RotatePiece(AxisZ), "laying along +x at the wall leaves the grid")
		assert.Equal(t, shape, e.Active().Shape())
		assert.Equal(t, 9, e.Active().Position().X)
	})

	t.Run("fallback picks the first axis that fits", func(t *testing.T) {
		e, _ := newTestEngine(t, ShapeI, ShapeO)
		require.True(t, e.Start())
		for e.Move(Right) {
		}

		// Y and X leave a vertical I unchanged, so Y succeeds first.
		assert.True(t, e.RotateFallback())
		assert.Equal(t, Catalog[ShapeI].Blocks, e.Active().Shape())

		assert.False(t, e.RotateFallback(AxisZ))
	})
}

func TestEngineTick(t *testing.T) {
	t.Run("reset policy", func(t *testing.T) {
		e, _ := newTestEngine(t, ShapeI, ShapeO)
		require.True(t, e.Start())

		e.Tick(999 * time.Millisecond)
		assert.Equal(t, 18, e.Active().Position().Y)

		e.Tick(2500 * time.Millisecond)
		assert.Equal(t, 17, e.Active().Position().Y, "a stalled frame yields one descent")
		assert.Equal(t, time.Duration(0), e.FallTimer())
	})

	t.Run("carry policy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TimerPolicy = TimerCarry
		e, err := NewEngine(WithConfig(cfg), WithShapeSource(NewQueueSource(ShapeI, ShapeO)))
		require.NoError(t, err)
		require.True(t, e.Start())

		e.Tick(2500 * time.Millisecond)
		assert.Equal(t, 16, e.Active().Position().Y)
		assert.Equal(t, 500*time.Millisecond, e.FallTimer())
	})

	t.Run("landing places the piece", func(t *testing.T) {
		e, rec := newTestEngine(t, ShapeI, ShapeO, ShapeT)
		require.True(t, e.Start())

		for range 15 {
			e.Tick(time.Second)
		}
		assert.Equal(t, 3, e.Active().Position().Y)
		assert.Empty(t, RecordedOf[PiecePlaced](rec))

		e.Tick(time.Second)
		assert.Len(t, RecordedOf[PiecePlaced](rec), 1)
		assert.Equal(t, ShapeO, e.Active().Kind())
	})

	t.Run("idle and paused engines ignore ticks", func(t *testing.T) {
		e, _ := newTestEngine(t, ShapeI, ShapeO)
		e.Tick(10 * time.Second)
		assert.Equal(t, time.Duration(0), e.FallTimer())

		require.True(t, e.Start())
		require.True(t, e.Pause())
		e.Tick(10 * time.Second)
		assert.Equal(t, 18, e.Active().Position().Y)
		assert.False(t, e.Move(Left))
		assert.False(t, e.HardDrop())

		require.True(t, e.Resume())
		e.Tick(time.Second)
		assert.Equal(t, 17, e.Active().Position().Y)
	})
}

func TestEnginePause(t *testing.T) {
	e, rec := newTestEngine(t, ShapeI, ShapeO)
	assert.False(t, e.Pause())
	assert.False(t, e.TogglePause())

	require.True(t, e.Start())
	assert.True(t, e.TogglePause())
	assert.Equal(t, StatePaused, e.State())
	assert.False(t, e.Pause())
	assert.True(t, e.TogglePause())
	assert.Equal(t, StateRunning, e.State())
	assert.False(t, e.Resume())

	assert.Equal(t, []StateChanged{
		{From: StateIdle, To: StateRunning},
		{From: StateRunning, To: StatePaused},
		{From: StatePaused, To: StateRunning},
	}, RecordedOf[StateChanged](rec))
}

func TestEngineRestart(t *testing.T) {
	e, rec := newTestEngine(t, ShapeO, ShapeI, ShapeT, ShapeS, ShapeJ)
	prefill(e, 0, Vec3{X: 5, Y: 0, Z: 5}, Vec3{X: 6, Y: 0, Z: 5})
	require.True(t, e.Start())
	require.True(t, e.HardDrop())
	require.Equal(t, 100, e.Score())
	session := e.Session()
	rec.Reset()

	e.Restart()

	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 0, e.Lines())
	assert.Equal(t, 1, e.Level())
	assert.Equal(t, 0, e.Grid().Count())
	assert.Equal(t, 0, e.occupants.Len())
	assert.NotEqual(t, session, e.Session())
	assert.Equal(t, []ScoreChanged{{Score: 0, Level: 1, Lines: 0}}, RecordedOf[ScoreChanged](rec))
	assert.Len(t, RecordedOf[PieceSpawned](rec), 1)
}

func TestEngineListenersSeeCompletedState(t *testing.T) {
	e, err := NewEngine(WithShapeSource(NewQueueSource(ShapeO, ShapeI, ShapeT)))
	require.NoError(t, err)

	var sawActive, sawPlaced bool
	e.AddListener(ListenerFunc(func(ev Event) {
		if _, ok := ev.(PiecePlaced); ok {
			sawActive = e.Active() != nil && e.Active().Kind() == ShapeI
			sawPlaced = e.Placed() == 1
		}
	}))

	require.True(t, e.Start())
	require.True(t, e.HardDrop())
	assert.True(t, sawActive, "the follow-up spawn has happened")
	assert.True(t, sawPlaced)
}

func TestEngineReentrantListener(t *testing.T) {
	e, err := NewEngine(WithShapeSource(NewQueueSource(ShapeO, ShapeI)))
	require.NoError(t, err)
	rec := &Recorder{}

	e.AddListener(ListenerFunc(func(ev Event) {
		if sc, ok := ev.(StateChanged); ok && sc.To == StateRunning && sc.From == StateIdle {
			e.Pause()
		}
	}))
	e.AddListener(rec)

	require.True(t, e.Start())
	assert.Equal(t, StatePaused, e.State())
	assert.Equal(t, []StateChanged{
		{From: StateIdle, To: StateRunning},
		{From: StateRunning, To: StatePaused},
	}, RecordedOf[StateChanged](rec))
}

// Random play must never leave the active piece out of bounds or overlapping
// the grid, and the score never decreases.
func TestEngineRandomPlayInvariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Depth = 5, 12, 5
	cfg.Seed = 42
	e, err := NewEngine(WithConfig(cfg))
	require.NoError(t, err)
	require.True(t, e.Start())

	rng := rand.New(rand.NewPCG(7, 11))
	intents := []Intent{
		MoveIntent(Left), MoveIntent(Right), MoveIntent(Forward), MoveIntent(Back),
		RotateIntent(AxisX), RotateIntent(AxisY), RotateIntent(AxisZ),
		{Kind: IntentRotateAny}, {Kind: IntentSoftDrop}, {Kind: IntentHardDrop},
	}

	games, score := 0, 0
	for step := 0; step < 5000; step++ {
		if e.State() == StateGameOver {
			games++
			e.Restart()
			score = 0
		}

		if rng.IntN(4) == 0 {
			e.Tick(time.Duration(rng.IntN(1500)) * time.Millisecond)
		} else {
			e.Apply(intents[rng.IntN(len(intents))])
		}

		assert.GreaterOrEqual(t, e.Score(), score)
		score = e.Score()
		assert.Equal(t, e.grid.Count(), e.occupants.Len())
		assert.Empty(t, e.grid.FullLayers(), "full layers never survive a placement")

		if p := e.Active(); p != nil {
			for _, c := range p.Cells() {
				require.True(t, e.grid.InBounds(c), "step %d: %v out of bounds", step, c)
				require.False(t, e.grid.Occupied(c), "step %d: %v overlaps", step, c)
			}
		} else {
			require.Equal(t, StateGameOver, e.State())
		}
	}
	assert.Positive(t, games+e.Placed())
}

func TestSnapshot(t *testing.T) {
	e, _ := newTestEngine(t, ShapeO, ShapeI, ShapeT)
	require.True(t, e.Start())
	require.True(t, e.HardDrop())

	snap := e.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, 1, snap.Placed)
	require.NotNil(t, snap.Active)
	assert.Equal(t, ShapeI, snap.Active.Kind)
	assert.True(t, snap.HasNext)
	assert.Equal(t, ShapeT, snap.Next)
	assert.Len(t, snap.Blocks, 4)
	for _, b := range snap.Blocks {
		assert.Equal(t, ShapeO, b.Shape)
		assert.Equal(t, Catalog[ShapeO].Color, b.Color)
	}

	assert.Equal(t, column(5, 5, 5, 4, 3, 2), snap.Ghost, "I ghost rests on the O")

	heights := snap.HeightMap()
	assert.Equal(t, 2, heights[5][5])
	assert.Equal(t, 2, heights[5][6])
	assert.Equal(t, 0, heights[0][0])
}
