package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cubefall/tetra"
	"github.com/plus3/cubefall/tetra/debugui"
	debugui_ebiten "github.com/plus3/cubefall/tetra/debugui/ebiten"
)

// Game implements ebiten.Game and draws the inspectors over the board.
type Game struct {
	loop    *tetra.Loop
	backend *debugui_ebiten.ImguiBackend
}

func (g *Game) Update() error {
	// The loop runs inside the ImGui frame so deferred renders are captured.
	g.backend.Frame(g.loop, 1.0/60.0)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw the board to screen
	// ...

	// Draw ImGui overlay on top
	g.backend.DrawOver(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	backend := debugui_ebiten.NewImguiBackend("cubefall inspector", 1280, 720)

	engine, err := tetra.NewEngine()
	if err != nil {
		panic(err)
	}
	engine.Start()

	loop := tetra.NewLoop()
	stats := debugui.NewPerformanceStats(loop, 120)
	overlay := &debugui.Overlay{}
	overlay.Add(debugui.NewEngineInspector(engine, 32).Render)
	overlay.Add(stats.Render)
	overlay.Add(func() {
		imgui.Begin("Hello")
		imgui.Text("Hello from cubefall!")
		imgui.End()
	})

	loop.Register(engine)
	loop.Register(stats)
	loop.Register(overlay)

	if err := ebiten.RunGame(&Game{loop: loop, backend: backend}); err != nil {
		panic(err)
	}
}
