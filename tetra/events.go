package tetra

// Event is a state-change notification emitted by the Engine.
type Event interface {
	isEvent()
}

// PieceSnapshot is a copy of the active piece at the moment an event was raised.
type PieceSnapshot struct {
	Kind     ShapeKind
	Color    uint32
	Position Vec3
	Cells    []Vec3
}

// PieceSpawned is raised when a new active piece enters the grid.
type PieceSpawned struct {
	Piece PieceSnapshot
}

// PieceMoved is raised after every successful translation or rotation.
type PieceMoved struct {
	Piece PieceSnapshot
}

// PiecePlaced is raised when the active piece becomes part of the grid.
type PiecePlaced struct {
	Cells []PlacedCell
}

// LayersCleared is raised when one placement completes one or more layers.
// Removed lists the cleared blocks at their pre-clear coordinates.
type LayersCleared struct {
	Layers  []int
	Count   int
	Removed []PlacedCell
}

// ScoreChanged is raised after a placement that cleared layers.
type ScoreChanged struct {
	Score, Level, Lines int
}

// GameOver is raised once when a spawn is blocked.
type GameOver struct {
	FinalScore int
}

// StateChanged is raised on every state machine transition.
type StateChanged struct {
	From, To State
}

func (PieceSpawned) isEvent()  {}
func (PieceMoved) isEvent()    {}
func (PiecePlaced) isEvent()   {}
func (LayersCleared) isEvent() {}
func (ScoreChanged) isEvent()  {}
func (GameOver) isEvent()      {}
func (StateChanged) isEvent()  {}

// Listener receives engine events after the call that raised them has finished
// mutating state.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) HandleEvent(e Event) {
	f(e)
}

// Recorder is a Listener that keeps every event it receives.
type Recorder struct {
	Events []Event
}

func (r *Recorder) HandleEvent(e Event) {
	r.Events = append(r.Events, e)
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// RecordedOf returns the recorded events of type T in order.
func RecordedOf[T Event](r *Recorder) []T {
	var out []T
	for _, e := range r.Events {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// eventQueue buffers events raised during an engine call so listeners only
// ever observe completed state.
type eventQueue struct {
	pending   []Event
	listeners []Listener
	depth     int
	flushing  bool
}

func (q *eventQueue) push(e Event) {
	q.pending = append(q.pending, e)
}

// begin marks the start of an engine call. Calls nest; only the outermost
// end flushes.
func (q *eventQueue) begin() {
	q.depth++
}

func (q *eventQueue) end() {
	q.depth--
	if q.depth > 0 {
		return
	}
	q.flush()
}

// flush delivers pending events. A listener that calls back into the engine
// has its events appended to the same drain instead of a nested one.
func (q *eventQueue) flush() {
	if q.flushing {
		return
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	for len(q.pending) > 0 {
		batch := q.pending
		q.pending = nil
		for _, e := range batch {
			for _, l := range q.listeners {
				l.HandleEvent(e)
			}
		}
	}
}
