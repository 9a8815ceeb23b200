package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/plus3/cubefall/tetra"
	"github.com/spf13/cobra"
)

const tuiFrame = 50 * time.Millisecond

var (
	colorCyan  = lipgloss.Color("36")
	colorRed   = lipgloss.Color("167")
	colorAmber = lipgloss.Color("220")
	colorDim   = lipgloss.Color("240")
	colorWhite = lipgloss.Color("255")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel  = lipgloss.NewStyle().Foreground(colorDim)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleAlert  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	stylePaused = lipgloss.NewStyle().Bold(true).Foreground(colorAmber)
	styleEmpty  = lipgloss.NewStyle().Foreground(colorDim)
	styleGhost  = lipgloss.NewStyle().Foreground(colorDim)
	styleBoard  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	stylePanel  = lipgloss.NewStyle().PaddingLeft(2)
)

func newTUICmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Play in the terminal",
		Long: `Play in the terminal on a top-down height map. Each column shows its
stack height; the active piece is drawn as [] and its landing spot as ::.

Keys: arrows/WASD move, Q/E/R rotate about Y/X/Z, F rotates about the first axis
that fits, X soft drops, Space hard drops, P pauses, N restarts, Esc quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// bubbletea owns the terminal, so engine logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, loggerFromContext(ctx).GetLevel())

			engine, err := tetra.NewEngine(tetra.WithConfig(configFromContext(ctx)), tetra.WithLogger(logger))
			if err != nil {
				return err
			}
			engine.Start()

			p := tea.NewProgram(newTUIModel(engine, logger), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write engine logs to this file")

	return cmd
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tuiFrame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// tuiModel is the bubbletea model driving one engine.
type tuiModel struct {
	engine *tetra.Engine
	logger *log.Logger
	last   time.Time
	status string
}

func newTUIModel(engine *tetra.Engine, logger *log.Logger) *tuiModel {
	m := &tuiModel{engine: engine, logger: logger}
	engine.AddListener(tetra.ListenerFunc(m.handleEvent))
	return m
}

func (m *tuiModel) handleEvent(e tetra.Event) {
	switch ev := e.(type) {
	case tetra.LayersCleared:
		m.status = fmt.Sprintf("cleared %d layer(s)", ev.Count)
	case tetra.GameOver:
		m.status = fmt.Sprintf("final score %d", ev.FinalScore)
	case tetra.StateChanged:
		if ev.To == tetra.StateRunning && ev.From == tetra.StateGameOver {
			m.status = ""
		}
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tickCmd()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.engine.Tick(now.Sub(m.last))
		}
		m.last = now
		return m, tickCmd()
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "esc":
			m.logger.Info("quit", "score", m.engine.Score(), "lines", m.engine.Lines())
			return m, tea.Quit
		default:
			if in, ok := intentForName(key); ok {
				m.engine.Apply(in)
			}
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	snap := m.engine.Snapshot()
	return lipgloss.JoinHorizontal(lipgloss.Top, styleBoard.Render(renderBoard(snap)), stylePanel.Render(m.renderPanel(snap)))
}

// renderBoard draws the top-down view: one two-character cell per (x, z)
// column, far rows (low z) on top.
func renderBoard(snap tetra.Snapshot) string {
	heights := snap.HeightMap()
	top := make([][]uint32, snap.Depth)
	for z := range top {
		top[z] = make([]uint32, snap.Width)
	}
	for _, b := range snap.Blocks {
		if b.Y+1 == heights[b.Z][b.X] {
			top[b.Z][b.X] = b.Color
		}
	}

	active := map[[2]int]bool{}
	ghost := map[[2]int]bool{}
	if snap.Active != nil {
		for _, c := range snap.Active.Cells {
			active[[2]int{c.X, c.Z}] = true
		}
		for _, c := range snap.Ghost {
			ghost[[2]int{c.X, c.Z}] = true
		}
	}

	var sb strings.Builder
	for z := 0; z < snap.Depth; z++ {
		for x := 0; x < snap.Width; x++ {
			col := [2]int{x, z}
			switch {
			case active[col]:
				sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(hexColor(snap.Active.Color)).Render("[]"))
			case ghost[col] && heights[z][x] == 0:
				sb.WriteString(styleGhost.Render("::"))
			case heights[z][x] == 0:
				sb.WriteString(styleEmpty.Render(" ."))
			default:
				sb.WriteString(lipgloss.NewStyle().Foreground(hexColor(top[z][x])).Render(fmt.Sprintf("%2d", heights[z][x])))
			}
		}
		if z < snap.Depth-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m *tuiModel) renderPanel(snap tetra.Snapshot) string {
	row := func(label string, value any) string {
		return styleLabel.Render(fmt.Sprintf("%-6s", label)) + styleValue.Render(fmt.Sprint(value))
	}

	lines := []string{
		styleTitle.Render("CUBEFALL"),
		"",
		row("score", snap.Score),
		row("level", snap.Level),
		row("lines", snap.Lines),
	}
	if snap.HasNext {
		lines = append(lines, row("next", snap.Next))
	}
	if snap.Active != nil {
		lines = append(lines, row("y", snap.Active.Position.Y))
	}
	lines = append(lines, "")

	switch snap.State {
	case tetra.StatePaused:
		lines = append(lines, stylePaused.Render("PAUSED"))
	case tetra.StateGameOver:
		lines = append(lines, styleAlert.Render("GAME OVER"), styleLabel.Render("n to restart"))
	}
	if m.status != "" {
		lines = append(lines, styleLabel.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func hexColor(tag uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06x", tag&0xffffff))
}
