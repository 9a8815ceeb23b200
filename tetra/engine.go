package tetra

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// State is the engine's position in its state machine.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// DefaultFallback is the rotation order tried by RotateFallback when no axes are given.
var DefaultFallback = []Axis{AxisY, AxisX, AxisZ}

var down = Vec3{Y: -1}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the default rules.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithShapeSource replaces the default random shape source.
func WithShapeSource(src ShapeSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.events.listeners = append(e.events.listeners, l)
	}
}

// Engine owns the grid, the active piece and all scoring state. It is not
// safe for concurrent use; a single host goroutine issues intents and ticks.
type Engine struct {
	cfg    Config
	source ShapeSource
	logger *log.Logger
	events eventQueue

	grid      *Grid
	occupants *Occupants
	active    *Piece
	next      ShapeKind
	hasNext   bool

	state        State
	session      uuid.UUID
	score        int
	lines        int
	level        int
	placed       int
	dropInterval time.Duration
	fallTimer    time.Duration
}

// NewEngine creates an idle engine. Call Start to spawn the first piece.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:       DefaultConfig(),
		occupants: NewOccupants(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.source == nil {
		seed := e.cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.source = NewRandomSource(uint64(seed))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}

	e.reset()
	return e, nil
}

// AddListener registers l for all subsequent events.
func (e *Engine) AddListener(l Listener) {
	e.events.listeners = append(e.events.listeners, l)
}

func (e *Engine) reset() {
	e.grid = NewGrid(e.cfg.Width, e.cfg.Height, e.cfg.Depth)
	e.occupants.Reset()
	e.active = nil
	e.hasNext = false
	e.session = uuid.New()
	e.score = 0
	e.lines = 0
	e.level = 1
	e.placed = 0
	e.dropInterval = e.cfg.DropInterval(1)
	e.fallTimer = 0
}

func (e *Engine) setState(to State) {
	from := e.state
	if from == to {
		return
	}
	e.state = to
	e.logger.Debug("state changed", "from", from, "to", to)
	e.events.push(StateChanged{From: from, To: to})
}

func (e *Engine) fits(cells []Vec3) bool {
	return e.grid.Fits(cells)
}

func (e *Engine) draw() ShapeKind {
	return ShapeKind(e.source.Next(len(Catalog)))
}

func (e *Engine) takeNext() ShapeKind {
	if !e.hasNext {
		e.next = e.draw()
	}
	kind := e.next
	e.next = e.draw()
	e.hasNext = true
	return kind
}

// SpawnPosition returns the anchor used for every new piece.
func (e *Engine) SpawnPosition() Vec3 {
	return Vec3{X: e.cfg.Width / 2, Y: e.cfg.Height - 2, Z: e.cfg.Depth / 2}
}

func (e *Engine) spawnPiece() {
	kind := e.takeNext()
	piece := NewPiece(kind, e.SpawnPosition())
	if !e.fits(piece.Cells()) {
		e.active = nil
		e.logger.Debug("spawn blocked", "shape", kind, "pos", piece.Position())
		e.endGame()
		return
	}

	e.active = piece
	e.logger.Debug("spawned", "shape", kind, "next", e.next)
	e.events.push(PieceSpawned{Piece: snapshotPiece(piece)})
}

func (e *Engine) endGame() {
	e.setState(StateGameOver)
	e.logger.Info("game over", "score", e.score, "level", e.level, "lines", e.lines, "pieces", e.placed)
	e.events.push(GameOver{FinalScore: e.score})
}

// Start moves an idle engine to running and spawns the first piece.
func (e *Engine) Start() bool {
	e.events.begin()
	defer e.events.end()

	if e.state != StateIdle {
		return false
	}
	e.setState(StateRunning)
	e.spawnPiece()
	return true
}

// Restart discards the current game and begins a new session from any state.
func (e *Engine) Restart() {
	e.events.begin()
	defer e.events.end()

	e.reset()
	e.logger.Info("restarted", "session", e.session)
	e.setState(StateRunning)
	e.events.push(ScoreChanged{Score: e.score, Level: e.level, Lines: e.lines})
	e.spawnPiece()
}

// Pause suspends a running game.
func (e *Engine) Pause() bool {
	e.events.begin()
	defer e.events.end()

	if e.state != StateRunning {
		return false
	}
	e.setState(StatePaused)
	return true
}

// Resume continues a paused game.
func (e *Engine) Resume() bool {
	e.events.begin()
	defer e.events.end()

	if e.state != StatePaused {
		return false
	}
	e.setState(StateRunning)
	return true
}

// TogglePause flips between running and paused. Other states are unaffected.
func (e *Engine) TogglePause() bool {
	switch e.state {
	case StateRunning:
		return e.Pause()
	case StatePaused:
		return e.Resume()
	default:
		return false
	}
}

func (e *Engine) move(d Vec3) bool {
	if e.state != StateRunning || e.active == nil {
		return false
	}
	if !e.active.Translate(d, e.fits) {
		return false
	}
	e.events.push(PieceMoved{Piece: snapshotPiece(e.active)})
	return true
}

func (e *Engine) rotate(axis Axis) bool {
	if e.state != StateRunning || e.active == nil {
		return false
	}
	if !e.active.Rotate(axis, e.fits) {
		return false
	}
	e.events.push(PieceMoved{Piece: snapshotPiece(e.active)})
	return true
}

// MovePiece translates the active piece. It returns false, leaving the piece
// untouched, when the move leaves the grid, collides, or the game is not running.
func (e *Engine) MovePiece(dx, dy, dz int) bool {
	e.events.begin()
	defer e.events.end()
	return e.move(Vec3{X: dx, Y: dy, Z: dz})
}

// Move translates the active piece one step horizontally.
func (e *Engine) Move(d Direction) bool {
	e.events.begin()
	defer e.events.end()
	return e.move(d.Delta())
}

// SoftDrop moves the active piece down one layer without placing it.
func (e *Engine) SoftDrop() bool {
	e.events.begin()
	defer e.events.end()
	return e.move(down)
}

// RotatePiece turns the active piece a quarter turn about axis in place.
func (e *Engine) RotatePiece(axis Axis) bool {
	e.events.begin()
	defer e.events.end()
	return e.rotate(axis)
}

// RotateFallback tries each axis in order and stops at the first rotation
// that fits. With no axes it uses DefaultFallback.
func (e *Engine) RotateFallback(axes ...Axis) bool {
	e.events.begin()
	defer e.events.end()

	if len(axes) == 0 {
		axes = DefaultFallback
	}
	for _, axis := range axes {
		if e.rotate(axis) {
			return true
		}
	}
	return false
}

// HardDrop drops the active piece to its lowest reachable layer and places it.
// It reports whether a placement happened.
func (e *Engine) HardDrop() bool {
	e.events.begin()
	defer e.events.end()

	if e.state != StateRunning || e.active == nil {
		return false
	}
	pos := e.active.Position()
	if target := e.active.DropTarget(e.fits); target < pos.Y {
		e.move(Vec3{Y: target - pos.Y})
	}
	e.placeActivePiece()
	return true
}

func (e *Engine) placeActivePiece() {
	piece := e.active
	e.active = nil

	ids := e.occupants.Register(piece.Kind(), piece.Color(), len(piece.shape))
	cells := make([]PlacedCell, 0, len(ids))
	for i, c := range piece.Cells() {
		cells = append(cells, PlacedCell{Vec3: c, Id: ids[i]})
	}
	e.grid.Place(cells)
	e.placed++
	e.logger.Debug("placed", "shape", piece.Kind(), "pos", piece.Position())
	e.events.push(PiecePlaced{Cells: cells})

	if full := e.grid.FullLayers(); len(full) > 0 {
		removed := e.grid.ClearAndCompact(full)
		for _, c := range removed {
			e.occupants.Release(c.Id)
		}
		e.logger.Debug("layers cleared", "layers", full)
		e.events.push(LayersCleared{Layers: full, Count: len(full), Removed: removed})
		e.updateScore(len(full))
	}

	e.spawnPiece()
}

func (e *Engine) updateScore(cleared int) {
	e.score += e.cfg.Award(cleared, e.level)
	e.lines += cleared
	e.level = e.cfg.Level(e.lines)
	e.dropInterval = e.cfg.DropInterval(e.level)
	e.events.push(ScoreChanged{Score: e.score, Level: e.level, Lines: e.lines})
}

// Tick advances the fall timer by dt and applies one automatic descent per
// elapsed drop interval according to the configured TimerPolicy. A piece
// that cannot descend is placed.
func (e *Engine) Tick(dt time.Duration) {
	e.events.begin()
	defer e.events.end()

	if e.state != StateRunning {
		return
	}

	e.fallTimer += dt
	for e.state == StateRunning && e.fallTimer >= e.dropInterval {
		interval := e.dropInterval
		if !e.move(down) {
			e.placeActivePiece()
		}
		if e.cfg.TimerPolicy == TimerCarry {
			e.fallTimer -= interval
		} else {
			e.fallTimer = 0
		}
	}
}

// Execute lets the engine run as a Loop system.
func (e *Engine) Execute(frame *Frame) {
	e.Tick(frame.Delta)
}

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) State() State { return e.state }
func (e *Engine) Session() uuid.UUID { return e.session }
func (e *Engine) Score() int { return e.score }
func (e *Engine) Lines() int { return e.lines }
func (e *Engine) Level() int { return e.level }
func (e *Engine) Placed() int { return e.placed }
func (e *Engine) DropInterval() time.Duration { return e.dropInterval }
func (e *Engine) FallTimer() time.Duration { return e.fallTimer }
func (e *Engine) Occupant(id OccupantId) (Occupant, bool) { return e.occupants.Get(id) }

// Next returns the previewed shape, if one has been drawn.
func (e *Engine) Next() (ShapeKind, bool) {
	return e.next, e.hasNext
}

// Active returns a copy of the active piece, or nil when there is none.
func (e *Engine) Active() *Piece {
	if e.active == nil {
		return nil
	}
	return e.active.Clone()
}

// Grid returns a copy of the grid.
func (e *Engine) Grid() *Grid {
	return e.grid.Clone()
}

// Ghost returns the cells the active piece would occupy after a hard drop.
func (e *Engine) Ghost() []Vec3 {
	if e.active == nil {
		return nil
	}
	pos := e.active.Position()
	pos.Y = e.active.DropTarget(e.fits)
	return e.active.CellsAt(pos, e.active.Shape())
}

func snapshotPiece(p *Piece) PieceSnapshot {
	return PieceSnapshot{
		Kind:     p.Kind(),
		Color:    p.Color(),
		Position: p.Position(),
		Cells:    p.Cells(),
	}
}
