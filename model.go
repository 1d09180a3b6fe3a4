package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"absviz/internal/absfn"
	"absviz/internal/insight"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusControls focus = iota
	focusMenu
	focusEditValue
	focusHelp
)

// insightMsg carries a pipeline snapshot into the update loop.
type insightMsg insight.Update

// Model represents the TUI application state. Params is the single source of
// truth; samples are derived from it on every change.
type Model struct {
	params    absfn.Params
	samples   []absfn.DataPoint
	controls  controlPanel
	probe     int // sample index under the tooltip, -1 when hidden
	width     int
	height    int
	focus     focus
	statusMsg string // transient status message (e.g. preset applied)

	// Menu state
	menuCat  int
	menuItem int

	// Value entry
	valueInput textinput.Model

	// Insight card
	pipeline *insight.Pipeline // nil when insights are disabled
	insight  insight.Update
	spinner  spinner.Model

	keys keyMap
	help help.Model
}

func newModel(pipeline *insight.Pipeline, initial absfn.Params) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 2.5, -1/2, pi/4"
	ti.CharLimit = 24
	ti.Width = 24

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingDotStyle

	m := Model{
		params:     initial,
		samples:    absfn.Samples(initial),
		controls:   newControlPanel(),
		probe:      -1,
		focus:      focusControls,
		valueInput: ti,
		pipeline:   pipeline,
		spinner:    sp,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	if pipeline != nil {
		m.insight = pipeline.Snapshot()
	} else {
		m.insight = insight.Update{State: insight.Displaying, Text: insight.DisabledText}
	}
	return m
}

// waitForInsight blocks until the pipeline reports a change and then hands the
// current snapshot to the update loop.
func waitForInsight(p *insight.Pipeline) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		<-p.Changed()
		return insightMsg(p.Snapshot())
	}
}

// setParams installs p, recomputes the samples and re-arms the insight
// debounce. Unchanged params are a no-op.
func (m *Model) setParams(p absfn.Params) {
	if p == m.params {
		return
	}
	m.params = p
	m.samples = absfn.Samples(p)
	if m.pipeline != nil {
		m.pipeline.Notify(p)
	}
}

// moveProbe shifts the tooltip by n samples. A hidden probe appears at the
// sample nearest the vertex.
func (m *Model) moveProbe(n int) {
	last := len(m.samples) - 1
	if last < 0 {
		return
	}
	if m.probe < 0 {
		m.probe = nearestSample(m.samples, m.params.H)
		return
	}
	m.probe = min(max(m.probe+n, 0), last)
}

func nearestSample(samples []absfn.DataPoint, x float64) int {
	best := 0
	for i, s := range samples {
		if abs(s.X-x) < abs(samples[best].X-x) {
			best = i
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	if m.pipeline != nil {
		m.pipeline.Notify(m.params)
	}
	return tea.Batch(waitForInsight(m.pipeline), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.controls.setWidth(m.controlsInnerWidth() - 2)

	case insightMsg:
		m.insight = insight.Update(msg)
		cmds = append(cmds, waitForInsight(m.pipeline))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		m.statusMsg = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusHelp:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			m.focus = focusControls

		case focusMenu:
			if p, ok := m.menuKey(msg.String()); ok {
				m.setParams(p.params)
				m.statusMsg = "Preset: " + p.name
			}

		case focusEditValue:
			switch msg.String() {
			case "esc":
				m.valueInput.Blur()
				m.focus = focusControls
			case "enter":
				s := m.controls.current()
				v, ok := parseValueExpr(m.valueInput.Value())
				if !ok {
					m.statusMsg = "Invalid value, use numbers, fractions or pi expressions (e.g. 1.5, -3/2, pi/4)"
					break
				}
				snapped := s.snap(v)
				m.setParams(m.params.With(s.param, snapped))
				if snapped != v {
					m.statusMsg = fmt.Sprintf("%s set to %s (snapped to step %g)", s.param, formatValue(snapped), s.step)
				}
				m.valueInput.Blur()
				m.focus = focusControls
			default:
				var cmd tea.Cmd
				m.valueInput, cmd = m.valueInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusControls:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.focus = focusHelp
			case key.Matches(msg, m.keys.Presets):
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case key.Matches(msg, m.keys.Reset):
				m.setParams(absfn.DefaultParams())
				m.probe = -1
				m.statusMsg = "Reset to f(x) = |x|"
			case key.Matches(msg, m.keys.Edit):
				m.valueInput.SetValue(formatValue(m.params.Get(m.controls.current().param)))
				m.valueInput.CursorEnd()
				m.focus = focusEditValue
				cmds = append(cmds, m.valueInput.Focus())
			case key.Matches(msg, m.keys.ProbeL):
				m.moveProbe(-1)
			case key.Matches(msg, m.keys.ProbeR):
				m.moveProbe(1)
			case key.Matches(msg, m.keys.ProbeFarL):
				m.moveProbe(-10)
			case key.Matches(msg, m.keys.ProbeFarR):
				m.moveProbe(10)
			case key.Matches(msg, m.keys.Hide):
				m.probe = -1
			default:
				if change, ok := m.controls.handleKey(msg, m.keys, m.params); ok {
					m.setParams(m.params.With(change.param, change.value))
				}
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader(m.width)
	footer := m.renderFooter(m.width)
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), minChartRows+4)

	var body string
	if m.width >= sideBySideMinW {
		sideW := m.controlsInnerWidth() + 4
		graphW := m.width - sideW
		controls := m.renderControlsPanel(sideW-4, controlsRows)
		insightH := max(bodyH-lipgloss.Height(controls)-2, 3)
		side := lipgloss.JoinVertical(lipgloss.Left, controls, m.renderInsightPanel(sideW-4, insightH))
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderGraphPanel(graphW-4, bodyH-2), side)
	} else {
		controls := m.renderControlsPanel(m.width-4, controlsRows)
		ins := m.renderInsightPanel(m.width-4, 4)
		graphH := max(bodyH-lipgloss.Height(controls)-lipgloss.Height(ins)-2, minChartRows+2)
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderGraphPanel(m.width-4, graphH), controls, ins)
	}

	frame := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusEditValue:
		frame = overlayAt(frame, m.renderValueInput(), 2, 2)
	case focusHelp:
		frame = overlayAt(frame, m.renderHelp(), 2, 2)
	}

	return frame
}

// controlsInnerWidth is the content width of the controls and insight column.
func (m Model) controlsInnerWidth() int {
	if m.width >= sideBySideMinW {
		return min(max(m.width/3, 36), 48)
	}
	return max(m.width-4, 20)
}
