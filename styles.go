package main

import (
	"github.com/charmbracelet/lipgloss"

	"absviz/internal/plot"
)

// Layout constants
const (
	gutterW        = 4  // width of the y-axis label column
	minChartRows   = 6  // smallest usable chart height in cells
	sideBySideMinW = 100
	controlsRows   = 9 // three sliders × (label, track, range)
)

// Palette
var (
	colorSky     = lipgloss.Color("#38bdf8")
	colorRose    = lipgloss.Color("#f43f5e")
	colorEmerald = lipgloss.Color("#10b981")
	colorAmber   = lipgloss.Color("#f59e0b")
	colorText    = lipgloss.Color("#f1f5f9")
	colorMuted   = lipgloss.Color("#94a3b8")
	colorDim     = lipgloss.Color("#64748b")
	colorAxis    = lipgloss.Color("#475569")
	colorBorder  = lipgloss.Color("#334155")
)

// Lipgloss styles used across the TUI.
var (
	graphStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	insightStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSky)

	equationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 3)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDim)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	selectedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorText)

	readoutStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorBorder).
			Padding(0, 1)

	vertexStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRose)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorAmber)

	loadingDotStyle = lipgloss.NewStyle().Foreground(colorAmber)
	readyDotStyle   = lipgloss.NewStyle().Foreground(colorEmerald)

	menuBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSky).
			Padding(0, 1)

	menuSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSky)

	menuNormalStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// Chart layers
	chartLayerStyles = map[plot.Layer]lipgloss.Style{
		plot.LayerGrid:  lipgloss.NewStyle().Foreground(colorAxis),
		plot.LayerGuide: lipgloss.NewStyle().Foreground(colorRose),
		plot.LayerCurve: lipgloss.NewStyle().Foreground(colorSky).Bold(true),
		plot.LayerProbe: lipgloss.NewStyle().Foreground(colorAmber).Bold(true),
	}
)
