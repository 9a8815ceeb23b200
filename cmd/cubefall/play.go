package main

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/cubefall/tetra"
	"github.com/plus3/cubefall/tetra/debugui"
	debugui_ebiten "github.com/plus3/cubefall/tetra/debugui/ebiten"
	"github.com/spf13/cobra"
)

const (
	screenWidth  = 960
	screenHeight = 720
)

var (
	backgroundColor = color.RGBA{R: 12, G: 14, B: 22, A: 255}
	wellColor       = color.RGBA{R: 70, G: 80, B: 110, A: 255}
	ghostColor      = color.RGBA{R: 255, G: 255, B: 255, A: 60}
)

func newPlayCmd() *cobra.Command {
	var (
		debug bool
		scale float64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in a window",
		Long: `Play in an ebiten window.

Keys: arrows/WASD move, Q/E/R rotate about Y/X/Z, F rotates about the first axis
that fits, X soft drops, Space hard drops, P pauses, N restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return runPlay(ctx, loggerFromContext(ctx), configFromContext(ctx), debug, scale)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "show the ImGui inspector overlay")
	cmd.Flags().Float64Var(&scale, "scale", 1, "window scale factor")

	return cmd
}

func runPlay(ctx context.Context, logger *log.Logger, cfg tetra.Config, debug bool, scale float64) error {
	engine, err := tetra.NewEngine(tetra.WithConfig(cfg), tetra.WithLogger(logger))
	if err != nil {
		return err
	}

	game := &game{
		ctx:    ctx,
		engine: engine,
		loop:   tetra.NewLoop(),
		camera: newCamera(cfg.Width, cfg.Height, cfg.Depth, screenWidth, screenHeight),
	}

	w, h := int(screenWidth*scale), int(screenHeight*scale)
	if debug {
		game.backend = debugui_ebiten.NewImguiBackend("cubefall", w, h)
		game.overlay = &debugui.Overlay{}
	} else {
		ebiten.SetWindowSize(w, h)
		ebiten.SetWindowTitle("cubefall")
	}

	game.loop.Register(tetra.SystemFunc(game.readInput))
	game.loop.Register(engine)
	if debug {
		stats := debugui.NewPerformanceStats(game.loop, 120)
		game.overlay.Add(debugui.NewEngineInspector(engine, 32).Render)
		game.overlay.Add(stats.Render)
		game.loop.Register(stats)
		game.loop.Register(game.overlay)
	}

	engine.Start()
	logger.Info("game started", "session", engine.Session(), "grid", fmt.Sprintf("%dx%dx%d", cfg.Width, cfg.Height, cfg.Depth))

	if err := ebiten.RunGame(game); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Info("window closed", "score", engine.Score(), "lines", engine.Lines())
	return nil
}

// game implements ebiten.Game around a Loop of input, engine and overlay systems.
type game struct {
	ctx     context.Context
	engine  *tetra.Engine
	loop    *tetra.Loop
	camera  camera
	backend *debugui_ebiten.ImguiBackend
	overlay *debugui.Overlay
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	if g.backend != nil {
		g.backend.Frame(g.loop, dt)
	} else {
		g.loop.Once(time.Duration(dt * float64(time.Second)))
	}
	return nil
}

func (g *game) readInput(frame *tetra.Frame) {
	if g.overlay != nil && g.overlay.InputState.WantCaptureKeyboard {
		return
	}
	for _, b := range bindings {
		for _, k := range b.keys {
			if inpututil.IsKeyJustPressed(k) {
				g.engine.Apply(b.intent)
				break
			}
		}
	}
}

type drawCell struct {
	projected
	color color.Color
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	snap := g.engine.Snapshot()
	g.drawWell(screen, snap)

	height := float32(max(snap.Height-1, 1))
	cells := make([]drawCell, 0, len(snap.Blocks)+8)
	for _, b := range snap.Blocks {
		cells = append(cells, drawCell{g.camera.project(b.Vec3), rgba(b.Color, 1-float32(b.Y)/height)})
	}
	if snap.Active != nil {
		for _, v := range snap.Ghost {
			cells = append(cells, drawCell{g.camera.project(v), ghostColor})
		}
		for _, v := range snap.Active.Cells {
			cells = append(cells, drawCell{g.camera.project(v), rgba(snap.Active.Color, 0)})
		}
	}

	// Painter's order: farthest first.
	slices.SortStableFunc(cells, func(a, b drawCell) int {
		switch {
		case a.Depth > b.Depth:
			return -1
		case a.Depth < b.Depth:
			return 1
		default:
			return 0
		}
	})
	for _, c := range cells {
		half := c.Size / 2
		vector.DrawFilledRect(screen, c.X-half, c.Y-half, c.Size, c.Size, c.color, false)
		vector.StrokeRect(screen, c.X-half, c.Y-half, c.Size, c.Size, 1, backgroundColor, false)
	}

	g.drawHUD(screen, snap)

	if g.backend != nil {
		g.backend.DrawOver(screen)
	}
}

func (g *game) drawWell(screen *ebiten.Image, snap tetra.Snapshot) {
	w, h, d := snap.Width, snap.Height, snap.Depth
	corners := [][2]tetra.Vec3{
		{{X: 0, Z: 0}, {X: w - 1, Z: 0}},
		{{X: w - 1, Z: 0}, {X: w - 1, Z: d - 1}},
		{{X: w - 1, Z: d - 1}, {X: 0, Z: d - 1}},
		{{X: 0, Z: d - 1}, {X: 0, Z: 0}},
		{{X: 0, Z: 0}, {X: 0, Y: h - 1, Z: 0}},
		{{X: w - 1, Z: 0}, {X: w - 1, Y: h - 1, Z: 0}},
	}
	for _, edge := range corners {
		a, b := g.camera.project(edge[0]), g.camera.project(edge[1])
		vector.StrokeLine(screen, a.X, a.Y, b.X, b.Y, 1, wellColor, true)
	}
}

func (g *game) drawHUD(screen *ebiten.Image, snap tetra.Snapshot) {
	lines := []string{
		fmt.Sprintf("SCORE %d", snap.Score),
		fmt.Sprintf("LEVEL %d", snap.Level),
		fmt.Sprintf("LINES %d", snap.Lines),
	}
	if snap.HasNext {
		lines = append(lines, fmt.Sprintf("NEXT  %s", snap.Next))
	}
	switch snap.State {
	case tetra.StatePaused:
		lines = append(lines, "", "PAUSED (P to resume)")
	case tetra.StateGameOver:
		lines = append(lines, "", "GAME OVER", "N to restart")
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, screenWidth-180, 20+i*16)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return screenWidth, screenHeight
}
