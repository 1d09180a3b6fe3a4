package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"absviz/internal/absfn"
)

// slider is the fixed configuration of one parameter input.
type slider struct {
	param absfn.Param
	label string
	min   float64
	max   float64
	step  float64
	color lipgloss.Color
}

// sliders defines the control panel, one entry per parameter.
var sliders = []slider{
	{param: absfn.ParamA, label: "a (Stretch/Reflection)", min: -5, max: 5, step: 0.1, color: colorSky},
	{param: absfn.ParamH, label: "h (Horizontal Shift)", min: -10, max: 10, step: 0.5, color: colorRose},
	{param: absfn.ParamK, label: "k (Vertical Shift)", min: -10, max: 10, step: 0.5, color: colorEmerald},
}

// sliderFor returns the slider configured for p.
func sliderFor(p absfn.Param) slider {
	for _, s := range sliders {
		if s.param == p {
			return s
		}
	}
	return sliders[0]
}

// snap clamps v into range and moves it onto the step grid.
func (s slider) snap(v float64) float64 {
	if math.IsNaN(v) {
		return s.min
	}
	v = min(max(v, s.min), s.max)
	steps := math.Round((v - s.min) / s.step)
	v = absfn.Round2(s.min + steps*s.step)
	return min(max(v, s.min), s.max)
}

// nudge moves v by n steps.
func (s slider) nudge(v float64, n int) float64 {
	return s.snap(v + float64(n)*s.step)
}

// fraction is v's position along the track in [0, 1].
func (s slider) fraction(v float64) float64 {
	v = min(max(v, s.min), s.max)
	return (v - s.min) / (s.max - s.min)
}

// paramChange is what the control panel reports on every adjustment.
type paramChange struct {
	param absfn.Param
	value float64
}

// controlPanel renders the sliders and turns key presses into parameter
// changes. The only state it keeps is which slider has focus; values always
// come from the caller.
type controlPanel struct {
	selected int
	tracks   []progress.Model
}

func newControlPanel() controlPanel {
	tracks := make([]progress.Model, len(sliders))
	for i, s := range sliders {
		tracks[i] = progress.New(
			progress.WithSolidFill(string(s.color)),
			progress.WithoutPercentage(),
			progress.WithWidth(30),
		)
	}
	return controlPanel{tracks: tracks}
}

func (c *controlPanel) setWidth(w int) {
	for i := range c.tracks {
		c.tracks[i].Width = max(w, 10)
	}
}

// current returns the focused slider.
func (c controlPanel) current() slider {
	return sliders[c.selected]
}

// handleKey moves focus between sliders or adjusts the focused one. It
// reports a change only when the value actually differs.
func (c *controlPanel) handleKey(msg tea.KeyMsg, keys keyMap, params absfn.Params) (paramChange, bool) {
	s := c.current()
	v := params.Get(s.param)
	next := v

	switch {
	case key.Matches(msg, keys.Up):
		c.selected = (c.selected + len(sliders) - 1) % len(sliders)
		return paramChange{}, false
	case key.Matches(msg, keys.Down):
		c.selected = (c.selected + 1) % len(sliders)
		return paramChange{}, false
	case key.Matches(msg, keys.Left):
		next = s.nudge(v, -1)
	case key.Matches(msg, keys.Right):
		next = s.nudge(v, 1)
	case key.Matches(msg, keys.BigLeft):
		next = s.nudge(v, -10)
	case key.Matches(msg, keys.BigRight):
		next = s.nudge(v, 10)
	case key.Matches(msg, keys.Min):
		next = s.min
	case key.Matches(msg, keys.Max):
		next = s.max
	default:
		return paramChange{}, false
	}

	if next == v {
		return paramChange{}, false
	}
	return paramChange{param: s.param, value: next}, true
}

// view renders every slider: label and readout, the track, and the range.
func (c controlPanel) view(params absfn.Params, width int) string {
	var sb strings.Builder
	for i, s := range sliders {
		v := params.Get(s.param)

		marker := "  "
		label := labelStyle.Render(strings.ToUpper(s.label))
		if i == c.selected {
			marker = lipgloss.NewStyle().Foreground(s.color).Bold(true).Render("▸ ")
			label = selectedLabelStyle.Render(strings.ToUpper(s.label))
		}
		readout := readoutStyle.Render(formatValue(v))
		gap := max(width-lipgloss.Width(marker)-lipgloss.Width(label)-lipgloss.Width(readout), 1)
		sb.WriteString(marker + label + strings.Repeat(" ", gap) + readout + "\n")

		sb.WriteString("  " + c.tracks[i].ViewAs(s.fraction(v)) + "\n")

		lo, hi := formatBound(s.min), formatBound(s.max)
		pad := max(width-2-len(lo)-len(hi), 1)
		sb.WriteString("  " + dimStyle.Render(lo+strings.Repeat(" ", pad)+hi))
		if i < len(sliders)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatBound(v float64) string {
	return fmt.Sprintf("%g", v)
}
