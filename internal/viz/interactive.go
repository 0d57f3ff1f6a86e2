package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/iksim/internal/config"
	"github.com/san-kum/iksim/internal/ik"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// freePreset is the menu entry that starts a chain without a target.
const freePreset = "free"

var chainInfo = map[string]string{
	"reference": "5 bones, reach 39",
	"arm3":      "3 bones, reach 24",
	"snake8":    "8 bones, reach 32",
}

type menuEntry struct {
	chain, preset string
}

func (e menuEntry) String() string { return e.chain + "/" + e.preset }

type model struct {
	state, cursor int
	entries       []menuEntry
	selected      menuEntry
	cfg           *config.Config
	params        map[string]float64
	paramNames    []string
	paramCursor   int
	editing       bool
	editBuf       string
	targetSet     bool
	err           error
	width, height int
	liveModel     Model
	logger        *zap.Logger
}

// NewInteractiveApp builds the chain and preset picker.
func NewInteractiveApp(logger *zap.Logger) *model {
	if logger == nil {
		logger = zap.NewNop()
	}
	var entries []menuEntry
	for _, chain := range config.ListChains() {
		entries = append(entries, menuEntry{chain, freePreset})
		for _, p := range config.ListPresets(chain) {
			entries = append(entries, menuEntry{chain, p})
		}
	}
	return &model{
		state:      stateMenu,
		entries:    entries,
		paramNames: []string{"step_size", "threshold", "target_x", "target_y", "frames_per_tick"},
		width:      80,
		height:     24,
		logger:     logger,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.entries[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
		m.loadParams()
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%g", &val); err == nil {
				m.setParam(m.paramNames[m.paramCursor], val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.params[m.paramNames[m.paramCursor]])
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.adjust(0.5)
	case "right", "l":
		m.adjust(2)
	}
	return m, nil
}

// adjust scales rates and shifts coordinates of the selected parameter.
func (m *model) adjust(factor float64) {
	name := m.paramNames[m.paramCursor]
	switch name {
	case "target_x", "target_y":
		if factor > 1 {
			m.setParam(name, m.params[name]+1)
		} else {
			m.setParam(name, m.params[name]-1)
		}
	default:
		m.params[name] *= factor
	}
}

// setParam stores a value; touching either coordinate defines the target.
func (m *model) setParam(name string, val float64) {
	m.params[name] = val
	if name == "target_x" || name == "target_y" {
		m.targetSet = true
	}
}

func (m *model) loadParams() {
	cfg := config.GetPreset(m.selected.chain, m.selected.preset)
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Chain = m.selected.chain
		cfg.Lengths = append([]float64(nil), config.Chains[m.selected.chain]...)
		cfg.Joints = len(cfg.Lengths)
	}
	m.cfg = cfg
	m.params = map[string]float64{
		"step_size":       cfg.StepSize,
		"threshold":       cfg.Threshold,
		"frames_per_tick": float64(cfg.View.FramesPerTick),
	}
	m.targetSet = cfg.Target != nil
	if m.targetSet {
		m.params["target_x"], m.params["target_y"] = cfg.Target.X, cfg.Target.Y
	}
}

func (m *model) start() tea.Cmd {
	cfg := m.cfg.Clone()
	cfg.StepSize = m.params["step_size"]
	cfg.Threshold = m.params["threshold"]
	cfg.View.FramesPerTick = int(m.params["frames_per_tick"])
	if m.targetSet {
		cfg.Target = &config.TargetConfig{X: m.params["target_x"], Y: m.params["target_y"]}
	}
	if err := cfg.Validate(); err != nil {
		m.err = err
		return nil
	}
	solver, err := ik.NewSolver(cfg.SolverConfig())
	if err != nil {
		m.err = err
		return nil
	}
	m.logger.Debug("starting live view", zap.String("chain", cfg.Chain), zap.String("preset", m.selected.preset))
	m.liveModel = NewModel(solver, cfg, m.logger)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func keyHelp(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("IKSIM") + "\n    " + subStyle.Render("planar inverse kinematics") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, e := range m.entries {
		desc := chainInfo[e.chain]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-22s", e)), accentStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-22s", e)), idleDimStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHelp("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.selected.String())) + "\n    " + subStyle.Render(chainInfo[m.selected.chain]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.paramNames {
		valStr := fmt.Sprintf("%10.4g", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-16s", name)), accentStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", name)), idleDimStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHelp("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func RunInteractive(logger *zap.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
