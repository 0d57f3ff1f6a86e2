package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/iksim/internal/config"
	"github.com/san-kum/iksim/internal/ik"
)

const (
	historyCapacity  = 600
	trailCapacity    = 200
	nudgeStep        = 1.0
	maxFramesPerTick = 1 << 16
)

// The canvas is drawn inside canvasStyle, so mouse cells are offset by its
// padding.
const (
	canvasOffsetX = 2
	canvasOffsetY = 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives a solver from the Bubble Tea event loop. Each tick runs up
// to framesPerTick solver frames and redraws once.
type Model struct {
	solver        *ik.Solver
	name          string
	view          Viewport
	canvas        *Canvas
	fps           int
	framesPerTick int
	running       bool
	showReach     bool
	showHelp      bool
	ticks         int

	last       ik.Frame
	hasFrame   bool
	startError float64
	errHistory []float64
	stepHist   []float64
	trail      []mgl64.Vec2

	logger *zap.Logger
}

// NewModel builds a live view for solver using the view section of cfg.
// A target in cfg is applied immediately.
func NewModel(solver *ik.Solver, cfg *config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	SetTheme(cfg.View.Theme)

	m := Model{
		solver:        solver,
		name:          cfg.Chain,
		view:          Viewport{Extent: cfg.View.Extent, Cols: cfg.View.Width, Rows: cfg.View.Height},
		canvas:        NewCanvas(cfg.View.Width, cfg.View.Height),
		fps:           cfg.View.FPS,
		framesPerTick: cfg.View.FramesPerTick,
		running:       true,
		showReach:     true,
		errHistory:    make([]float64, 0, historyCapacity),
		stepHist:      make([]float64, 0, historyCapacity),
		trail:         make([]mgl64.Vec2, 0, trailCapacity),
		logger:        logger,
	}
	if cfg.Target != nil {
		m.setTarget(mgl64.Vec2{cfg.Target.X, cfg.Target.Y})
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the solver.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "c":
			m.solver.ClearTarget()
			m.errHistory = m.errHistory[:0]
			m.logger.Debug("target cleared")
		case "t":
			SetTheme(NextTheme(CurrentTheme.Name))
		case "w":
			m.showReach = !m.showReach
		case "+", "=":
			if m.framesPerTick < maxFramesPerTick {
				m.framesPerTick *= 2
			}
		case "-", "_":
			if m.framesPerTick > 1 {
				m.framesPerTick /= 2
			}
		case "up", "k":
			m.nudge(0, nudgeStep)
		case "down", "j":
			m.nudge(0, -nudgeStep)
		case "left", "h":
			m.nudge(-nudgeStep, 0)
		case "right", "l":
			m.nudge(nudgeStep, 0)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft {
			break
		}
		if msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion {
			m.click(msg.X, msg.Y)
		}
	case TickMsg:
		m.ticks++
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// click sets the target under terminal cell (x, y), if it is on the canvas.
func (m *Model) click(x, y int) {
	col, row := x-canvasOffsetX, y-canvasOffsetY
	if !m.view.Contains(col, row) {
		return
	}
	m.setTarget(m.view.CellToWorld(col, row))
}

func (m *Model) nudge(dx, dy float64) {
	base := m.solver.Target()
	if !m.solver.HasTarget() {
		base = m.solver.Pose().Effector.Vec2()
	}
	m.setTarget(base.Add(mgl64.Vec2{dx, dy}))
}

func (m *Model) setTarget(t mgl64.Vec2) {
	m.solver.SetTarget(t.X(), t.Y())
	m.startError = m.solver.Distance()
	m.errHistory = m.errHistory[:0]
	m.logger.Debug("target set",
		zap.Float64("x", t.X()),
		zap.Float64("y", t.Y()),
		zap.Float64("error", m.startError),
	)
}

// step runs one batch of frames and records the last one.
func (m *Model) step() {
	var f ik.Frame
	for i := 0; i < m.framesPerTick; i++ {
		f = m.solver.StepFrame()
		if f.Status != ik.Stepped {
			break
		}
	}
	m.last = f.Clone()
	m.hasFrame = true

	if f.HasTarget {
		m.errHistory = appendCapped(m.errHistory, f.Error, historyCapacity)
	}
	speed := 0.0
	for _, d := range f.DTheta {
		speed += d * d
	}
	m.stepHist = appendCapped(m.stepHist, math.Sqrt(speed), historyCapacity)

	if f.Status == ik.Stepped {
		p := f.Effector.Vec2()
		if n := len(m.trail); n == 0 || m.trail[n-1].Sub(p).Len() > 0.25 {
			if n == trailCapacity {
				m.trail = m.trail[1:]
			}
			m.trail = append(m.trail, p)
		}
	}
}

func (m *Model) reset() {
	m.solver.Reset()
	m.trail = m.trail[:0]
	m.errHistory = m.errHistory[:0]
	m.stepHist = m.stepHist[:0]
	m.hasFrame = false
	m.startError = m.solver.Distance()
	m.logger.Debug("chain reset")
}

func appendCapped(xs []float64, v float64, capacity int) []float64 {
	if len(xs) >= capacity {
		xs = xs[1:]
	}
	return append(xs, v)
}

func (m *Model) draw() {
	DrawScene(m.canvas, m.view, Scene{
		Pose:      m.solver.Pose(),
		Target:    m.solver.Target(),
		HasTarget: m.solver.HasTarget(),
		Reach:     m.solver.Reach(),
		ShowReach: m.showReach,
		Trail:     m.trail,
	})
}

func (m Model) status() (string, lipgloss.Style) {
	th := CurrentTheme
	switch {
	case !m.running:
		return "PAUSED", StatusPaused
	case !m.solver.HasTarget():
		return "NO TARGET", lipgloss.NewStyle().Foreground(th.Idle).Bold(true)
	case m.hasFrame && m.last.Status == ik.Converged:
		return "CONVERGED", lipgloss.NewStyle().Foreground(th.Converged).Bold(true)
	default:
		return AnimatedSpinner(m.ticks) + " SOLVING", lipgloss.NewStyle().Foreground(th.Stepping).Bold(true)
	}
}

// View renders the canvas and the stats panel.
func (m Model) View() string {
	th := CurrentTheme
	m.draw()
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(th.Chain).Render(m.canvas.String()))

	header := lipgloss.NewStyle().Foreground(th.Header).Bold(true).MarginBottom(1)
	value := lipgloss.NewStyle().Foreground(th.Text)

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(m.name)+" CHAIN") + "\n")
	label, style := m.status()
	s.WriteString(style.Render(label) + "\n\n")

	if len(m.errHistory) > 1 {
		chart := asciigraph.Plot(m.errHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("error"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	eff := m.solver.Pose().Effector
	s.WriteString(MetricLabel.Render("Frame") + value.Render(fmt.Sprintf("%d", m.solver.FrameCount())) + "\n")
	if m.solver.HasTarget() {
		t := m.solver.Target()
		dist := m.solver.Distance()
		s.WriteString(MetricLabel.Render("Target") + lipgloss.NewStyle().Foreground(th.Target).Render(fmt.Sprintf("(%.2f, %.2f)", t.X(), t.Y())) + "\n")
		s.WriteString(MetricLabel.Render("Error") + MetricValue.Render(fmt.Sprintf("%.6f", dist)) + "\n")
		progress := 1.0
		if m.startError > 0 {
			progress = 1 - dist/m.startError
		}
		s.WriteString(MetricLabel.Render("Progress") + ProgressBar(progress, 20) + "\n")
	} else {
		s.WriteString(MetricLabel.Render("Target") + value.Render("(none) click to set") + "\n")
	}
	s.WriteString(MetricLabel.Render("Effector") + value.Render(fmt.Sprintf("(%.2f, %.2f)", eff.X(), eff.Y())) + "\n")
	s.WriteString(MetricLabel.Render("Reach") + value.Render(fmt.Sprintf("%.2f", m.solver.Reach())) + "\n")
	if m.hasFrame {
		s.WriteString(MetricLabel.Render("Manip.") + value.Render(fmt.Sprintf("%.3f", ik.Manipulability(m.last.Columns))) + "\n")
	}
	s.WriteString(MetricLabel.Render("Speed") + value.Render(fmt.Sprintf("%d frames/tick", m.framesPerTick)) + "\n")
	s.WriteString(MetricLabel.Render("|dθ|") + SparklineChart(m.stepHist, 24) + "\n")

	s.WriteString("\nJOINTS\n")
	for i, a := range m.solver.Theta() {
		s.WriteString(fmt.Sprintf("  θ%-2d %9.3f°\n", i, mgl64.RadToDeg(a)))
	}

	s.WriteString(helpStyle.Render("\n" + Separator(24) + "\nSP:Pause R:Reset C:Clear\nT:Theme  W:Reach  Q:Quit\n←↑↓→:Nudge +/-:Speed ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Click    - Set target               ║
║  Space    - Pause/Resume             ║
║  R        - Reset joint angles       ║
║  C        - Clear target             ║
║  Arrows   - Nudge target             ║
║  + / -    - Frames per tick          ║
║  W        - Toggle reach circle      ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// RunLive starts the live view with mouse reporting enabled.
func RunLive(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
