package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plus3/cubefall/tetra"
	"github.com/spf13/cobra"
)

type simOptions struct {
	Pieces int
	Seed   int64
	Frame  time.Duration
}

func newSimCmd() *cobra.Command {
	var (
		opts       simOptions
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a headless autoplayer and print a report",
		Long: `Run the engine without a window. A greedy planner picks a placement for every
piece and the loop advances in fixed frames. The markdown report is written to
stdout or to --report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			report, err := runSim(ctx, logger, configFromContext(ctx), opts)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return fmt.Errorf("create report: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := report.Generate(w); err != nil {
				return fmt.Errorf("generate report: %w", err)
			}
			if reportPath != "" {
				logger.Info("wrote report", "path", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Pieces, "pieces", 500, "stop after placing this many pieces")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "shape sequence seed (overrides the config file)")
	cmd.Flags().DurationVar(&opts.Frame, "frame", 16*time.Millisecond, "simulated time per frame")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the report to this file instead of stdout")

	return cmd
}

// autoplayer is a Loop system feeding one planned intent per frame.
type autoplayer struct {
	engine   *tetra.Engine
	planner  *tetra.Planner
	queue    []tetra.Intent
	planTime Stats
	replans  int
}

func (a *autoplayer) Execute(frame *tetra.Frame) {
	if a.engine.State() != tetra.StateRunning {
		return
	}
	if len(a.queue) == 0 {
		start := time.Now()
		plan, ok := a.planner.Best(a.engine)
		a.planTime.Samples = append(a.planTime.Samples, time.Since(start))
		if !ok {
			return
		}
		a.queue = plan.Intents()
	}

	in := a.queue[0]
	a.queue = a.queue[1:]
	if !a.engine.Apply(in) && in.Kind != tetra.IntentHardDrop {
		// Gravity moved the piece under the plan; plan again next frame.
		a.queue = a.queue[:0]
		a.replans++
	}
}

func runSim(ctx context.Context, logger *log.Logger, cfg tetra.Config, opts simOptions) (*Report, error) {
	if opts.Pieces <= 0 {
		return nil, fmt.Errorf("pieces must be positive, got %d", opts.Pieces)
	}
	if opts.Frame <= 0 {
		return nil, fmt.Errorf("frame must be positive, got %s", opts.Frame)
	}
	cfg.Seed = opts.Seed

	report := &Report{
		Config:  cfg,
		Pieces:  opts.Pieces,
		Frame:   opts.Frame,
		Clears:  make([]int, len(cfg.Points)),
		Version: runtime.Version(),
	}

	engine, err := tetra.NewEngine(
		tetra.WithConfig(cfg),
		tetra.WithLogger(logger),
		tetra.WithListener(tetra.ListenerFunc(func(e tetra.Event) {
			if ev, ok := e.(tetra.LayersCleared); ok {
				report.Clears[min(ev.Count, len(report.Clears)-1)]++
			}
		})),
	)
	if err != nil {
		return nil, err
	}

	player := &autoplayer{engine: engine, planner: tetra.NewPlanner()}
	loop := tetra.NewLoop()
	loop.Register(player)
	loop.Register(engine)

	engine.Start()
	logger.Info("simulating", "pieces", opts.Pieces, "seed", opts.Seed, "session", engine.Session())

	start := time.Now()
	for engine.State() == tetra.StateRunning && engine.Placed() < opts.Pieces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loop.Once(opts.Frame)
	}
	report.WallTime = time.Since(start)

	report.Session = engine.Session().String()
	report.Placed = engine.Placed()
	report.Score = engine.Score()
	report.Level = engine.Level()
	report.Lines = engine.Lines()
	report.GameOver = engine.State() == tetra.StateGameOver
	report.Frames = loop.Stats().Frames
	report.SimTime = time.Duration(report.Frames) * opts.Frame
	report.Systems = loop.Stats().Systems
	report.Replans = player.replans
	report.PlanTime = player.planTime
	report.PlanTime.Finalize()

	logger.Info("simulation finished", "placed", report.Placed, "score", report.Score, "lines", report.Lines, "game_over", report.GameOver)
	return report, nil
}
