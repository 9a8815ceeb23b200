package tetra

// IntentKind enumerates the inbound player intents.
type IntentKind uint8

const (
	IntentStart IntentKind = iota
	IntentMove
	IntentSoftDrop
	IntentRotate
	IntentRotateAny
	IntentHardDrop
	IntentPause
	IntentResume
	IntentTogglePause
	IntentRestart
)

// Intent is a value-typed player request. Direction is read for IntentMove
// and Axis for IntentRotate.
type Intent struct {
	Kind      IntentKind
	Direction Direction
	Axis      Axis
}

// MoveIntent requests a one-step horizontal move.
func MoveIntent(d Direction) Intent {
	return Intent{Kind: IntentMove, Direction: d}
}

// RotateIntent requests a quarter turn about axis.
func RotateIntent(axis Axis) Intent {
	return Intent{Kind: IntentRotate, Axis: axis}
}

// Apply dispatches in to the matching engine operation and returns its result.
// Intents without a meaningful result (restart) report true.
func (e *Engine) Apply(in Intent) bool {
	switch in.Kind {
	case IntentStart:
		return e.Start()
	case IntentMove:
		return e.Move(in.Direction)
	case IntentSoftDrop:
		return e.SoftDrop()
	case IntentRotate:
		return e.RotatePiece(in.Axis)
	case IntentRotateAny:
		return e.RotateFallback()
	case IntentHardDrop:
		return e.HardDrop()
	case IntentPause:
		return e.Pause()
	case IntentResume:
		return e.Resume()
	case IntentTogglePause:
		return e.TogglePause()
	case IntentRestart:
		e.Restart()
		return true
	default:
		return false
	}
}
