package debugui

import (
	"fmt"

	"github.com/plus3/cubefall/tetra"
)

// EventLog is a tetra.Listener keeping the most recent events as text.
type EventLog struct {
	lines []string
	limit int
}

// NewEventLog creates a log that retains at most limit lines.
func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: limit}
}

func (l *EventLog) HandleEvent(e tetra.Event) {
	l.lines = append(l.lines, DescribeEvent(e))
	if over := len(l.lines) - l.limit; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

// Lines returns the retained lines, oldest first.
func (l *EventLog) Lines() []string {
	return l.lines
}

// DescribeEvent renders a one-line summary of an engine event.
func DescribeEvent(e tetra.Event) string {
	switch ev := e.(type) {
	case tetra.PieceSpawned:
		return fmt.Sprintf("spawned %s at %v", ev.Piece.Kind, ev.Piece.Position)
	case tetra.PieceMoved:
		return fmt.Sprintf("moved %s to %v", ev.Piece.Kind, ev.Piece.Position)
	case tetra.PiecePlaced:
		if len(ev.Cells) == 0 {
			return "placed"
		}
		return fmt.Sprintf("placed piece #%d (%d blocks)", ev.Cells[0].Id.Serial(), len(ev.Cells))
	case tetra.LayersCleared:
		return fmt.Sprintf("cleared %d layer(s) %v", ev.Count, ev.Layers)
	case tetra.ScoreChanged:
		return fmt.Sprintf("score %d level %d lines %d", ev.Score, ev.Level, ev.Lines)
	case tetra.GameOver:
		return fmt.Sprintf("game over, final score %d", ev.FinalScore)
	case tetra.StateChanged:
		return fmt.Sprintf("%s -> %s", ev.From, ev.To)
	default:
		return fmt.Sprintf("%T", e)
	}
}
