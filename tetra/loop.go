package tetra

import (
	"context"
	"reflect"
	"time"
)

// System is a per-frame behavior driven by a Loop. The Engine is a System;
// hosts register their input and render systems around it.
type System interface {
	Execute(frame *Frame)
}

// SystemFunc adapts a function to the System interface.
type SystemFunc func(frame *Frame)

func (f SystemFunc) Execute(frame *Frame) {
	f(frame)
}

// Frame carries per-frame data to every system.
type Frame struct {
	Delta time.Duration
	Index uint64

	deferred []func()
}

// Defer queues fn to run after every system has executed this frame.
func (f *Frame) Defer(fn func()) {
	f.deferred = append(f.deferred, fn)
}

func (f *Frame) flush() {
	for i := 0; i < len(f.deferred); i++ {
		f.deferred[i]()
	}
	f.deferred = f.deferred[:0]
}

// LoopStats provides statistics about loop execution.
type LoopStats struct {
	SystemCount int
	Frames      uint64
	Systems     []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Loop runs registered systems in order, once per frame.
type Loop struct {
	systems     []System
	systemStats []*systemStatsInternal
	frame       Frame
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{
		systems: make([]System, 0),
	}
}

// Register appends a system. Systems execute in registration order.
func (l *Loop) Register(system System) {
	l.systems = append(l.systems, system)
	l.systemStats = append(l.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if name := systemType.Name(); name != "" {
		return name
	}
	return systemType.String()
}

// Once executes every system once with the given frame delta, then runs the
// frame's deferred functions.
func (l *Loop) Once(dt time.Duration) {
	l.frame.Delta = dt

	for i, system := range l.systems {
		start := time.Now()
		system.Execute(&l.frame)
		duration := time.Since(start)

		stats := l.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	l.frame.flush()
	l.frame.Index++
}

// Run executes frames at the given interval until the context is cancelled.
// Each frame receives the wall-clock time elapsed since the previous one.
func (l *Loop) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			l.Once(dt)
		}
	}
}

// Stats returns statistics about system execution.
func (l *Loop) Stats() LoopStats {
	stats := LoopStats{
		SystemCount: len(l.systems),
		Frames:      l.frame.Index,
		Systems:     make([]SystemStats, len(l.systemStats)),
	}

	for i, internal := range l.systemStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}

	return stats
}
