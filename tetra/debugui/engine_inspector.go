package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cubefall/tetra"
)

// EngineInspector shows the state of one engine and offers basic controls.
type EngineInspector struct {
	engine *tetra.Engine
	events *EventLog
}

// NewEngineInspector creates an inspector and subscribes its event log to engine.
func NewEngineInspector(engine *tetra.Engine, historyEvents int) *EngineInspector {
	ei := &EngineInspector{
		engine: engine,
		events: NewEventLog(historyEvents),
	}
	engine.AddListener(ei.events)
	return ei
}

func (ei *EngineInspector) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 420), imgui.CondOnce)

	if !imgui.BeginV("Engine", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	snap := ei.engine.Snapshot()

	imgui.Text(fmt.Sprintf("Session: %s", snap.Session))
	switch snap.State {
	case tetra.StateRunning:
		imgui.TextColored(imgui.NewVec4(0.0, 1.0, 0.0, 1.0), "RUNNING")
	case tetra.StatePaused:
		imgui.TextColored(imgui.NewVec4(1.0, 0.8, 0.0, 1.0), "PAUSED")
	case tetra.StateGameOver:
		imgui.TextColored(imgui.NewVec4(1.0, 0.2, 0.2, 1.0), "GAME OVER")
	default:
		imgui.Text(snap.State.String())
	}

	imgui.Text(fmt.Sprintf("Score: %d  Level: %d  Lines: %d", snap.Score, snap.Level, snap.Lines))
	imgui.Text(fmt.Sprintf("Pieces placed: %d", snap.Placed))
	imgui.Text(fmt.Sprintf("Drop interval: %s", snap.DropInterval))

	interval := float32(snap.DropInterval.Seconds())
	imgui.ProgressBarV(float32(ei.engine.FallTimer().Seconds())/interval, imgui.NewVec2(-1, 0), "fall timer")

	imgui.Separator()
	if snap.Active != nil {
		imgui.Text(fmt.Sprintf("Active: %s at %v", snap.Active.Kind, snap.Active.Position))
	} else {
		imgui.Text("Active: none")
	}
	if snap.HasNext {
		imgui.Text(fmt.Sprintf("Next: %s", snap.Next))
	}
	imgui.Text(fmt.Sprintf("Blocks: %d / %d", len(snap.Blocks), snap.Width*snap.Height*snap.Depth))

	imgui.Separator()
	if snap.State == tetra.StatePaused {
		if imgui.Button("Resume") {
			ei.engine.Resume()
		}
	} else if imgui.Button("Pause") {
		ei.engine.Pause()
	}
	imgui.SameLine()
	if imgui.Button("Hard Drop") {
		ei.engine.HardDrop()
	}
	imgui.SameLine()
	if imgui.Button("Restart") {
		ei.engine.Restart()
	}

	if imgui.TreeNodeStr("Height Map") {
		ei.renderHeightMap(snap)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Events") {
		for _, line := range ei.events.Lines() {
			imgui.BulletText(line)
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ei *EngineInspector) renderHeightMap(snap tetra.Snapshot) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSizingFixedFit
	if !imgui.BeginTableV("HeightMap", int32(snap.Width+1), tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}

	imgui.TableSetupColumn("z\\x")
	for x := range snap.Width {
		imgui.TableSetupColumn(fmt.Sprintf("%d", x))
	}
	imgui.TableHeadersRow()

	for z, row := range snap.HeightMap() {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", z))
		for _, h := range row {
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", h))
		}
	}

	imgui.EndTable()
}
