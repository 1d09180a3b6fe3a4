package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"absviz/internal/absfn"
	"absviz/internal/plot"
)

// chartViewport is the fixed visible window, independent of the sample domain.
var chartViewport = plot.Viewport{XMin: -12, XMax: 12, YMin: -12, YMax: 12}

// Background grid spacing in world units, and one dot per gridGap pixels.
const (
	gridStep = 4
	gridGap  = 3
)

// ──────────────────────────── Chart ────────────────────────────

// renderChart draws the function into a cols×rows block: a y-label gutter on
// the left and one row of x labels underneath.
func renderChart(p absfn.Params, samples []absfn.DataPoint, probe, cols, rows int) string {
	plotCols := max(cols-gutterW, 8)
	plotRows := max(rows-1, minChartRows-1)

	ch := plot.NewChart(plotCols, plotRows, chartViewport)
	ch.Grid(gridStep, gridGap, plot.LayerGrid)
	ch.HLine(0, plot.LayerGrid, 0)
	ch.VLine(0, plot.LayerGrid, 0)
	ch.VLine(p.H, plot.LayerGuide, 3)
	ch.HLine(p.K, plot.LayerGuide, 3)

	pts := make([]plot.Point, len(samples))
	for i, s := range samples {
		pts[i] = plot.Point{X: s.X, Y: s.Y}
	}
	ch.Polyline(pts, plot.LayerCurve)

	if probe >= 0 && probe < len(samples) {
		ch.Mark(samples[probe].X, samples[probe].Y, plot.LayerProbe)
	}

	vp := chartViewport
	zeroRow := cellOf(vp.YMax, vp.YMax-vp.YMin, plotRows*4, 4)
	zeroCol := cellOf(-vp.XMin, vp.XMax-vp.XMin, plotCols*2, 2)

	var sb strings.Builder
	for row, line := range ch.Lines(chartLayerStyles) {
		label := ""
		switch row {
		case 0:
			label = axisLabel(vp.YMax)
		case plotRows - 1:
			label = axisLabel(vp.YMin)
		case zeroRow:
			label = "0"
		}
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%*s ", gutterW-1, label)))
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	xLabels := []rune(strings.Repeat(" ", plotCols))
	putLabel(xLabels, axisLabel(vp.XMin), 0)
	putLabel(xLabels, "0", zeroCol)
	hi := axisLabel(vp.XMax)
	putLabel(xLabels, hi, plotCols-len(hi))
	sb.WriteString(dimStyle.Render(strings.Repeat(" ", gutterW) + string(xLabels)))

	return sb.String()
}

// cellOf maps a world offset along an axis of the given span to the cell that
// contains it.
func cellOf(offset, span float64, pixels, perCell int) int {
	px := math.Round(offset / span * float64(pixels-1))
	return int(px) / perCell
}

func axisLabel(v float64) string {
	return fmt.Sprintf("%g", v)
}

// putLabel writes s into buf starting at col, dropping what does not fit.
func putLabel(buf []rune, s string, col int) {
	for i, r := range []rune(s) {
		if c := col + i; c >= 0 && c < len(buf) {
			buf[c] = r
		}
	}
}

// probeReadout describes the sample under the tooltip.
func probeReadout(samples []absfn.DataPoint, probe int) string {
	if probe < 0 || probe >= len(samples) {
		return ""
	}
	s := samples[probe]
	return fmt.Sprintf("x = %.1f   f(x) = %.2f", s.X, s.Y)
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderHeader renders the title block and the live equation.
func (m Model) renderHeader(width int) string {
	title := titleStyle.Render("FUNCTION EXPLORER") + "\n" +
		mutedStyle.Render("Transformations of f(x) = a|x - h| + k")
	eq := equationStyle.Render(absfn.Equation(m.params))

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(eq)-2, 1)
	return " " + lipgloss.JoinHorizontal(lipgloss.Center, title, strings.Repeat(" ", gap), eq)
}

// renderGraphPanel renders the chart and the probe readout.
func (m Model) renderGraphPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(sectionStyle.Render("GRAPH"))
	sb.WriteString(dimStyle.Render("   "))
	sb.WriteString(chartLayerStyles[plot.LayerCurve].Render("━ f(x)"))
	sb.WriteString("  ")
	sb.WriteString(chartLayerStyles[plot.LayerGuide].Render("┄ x = h, y = k"))
	sb.WriteString("\n")

	sb.WriteString(renderChart(m.params, m.samples, m.probe, width, max(height-2, minChartRows)))
	sb.WriteString("\n")

	if r := probeReadout(m.samples, m.probe); r != "" {
		sb.WriteString(chartLayerStyles[plot.LayerProbe].Render(r))
	} else {
		sb.WriteString(dimStyle.Render("[ ] probe the curve"))
	}

	return graphStyle.Width(width + 2).Height(height).Render(sb.String())
}

// renderControlsPanel renders the three parameter sliders.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("PARAMETERS"))
	sb.WriteString("\n\n")
	sb.WriteString(m.controls.view(m.params, width))

	return controlsStyle.Width(width + 2).Height(height + 2).Render(sb.String())
}

// renderInsightPanel renders the insight card. While a request is running the
// previous text stays visible but dimmed.
func (m Model) renderInsightPanel(width, height int) string {
	var sb strings.Builder

	if m.insight.Loading {
		sb.WriteString(m.spinner.View())
	} else {
		sb.WriteString(readyDotStyle.Render("●"))
	}
	sb.WriteString(" ")
	sb.WriteString(sectionStyle.Render("AI INSIGHT"))
	sb.WriteString("\n")

	text := wordwrap.String(m.insight.Text, max(width, 10))
	if m.insight.Loading {
		sb.WriteString(dimStyle.Render(text))
	} else {
		sb.WriteString(menuNormalStyle.Render(text))
	}

	return insightStyle.Width(width + 2).Height(height).Render(sb.String())
}

// renderFooter renders the vertex sentence, the shape summary and key help.
func (m Model) renderFooter(width int) string {
	var sb strings.Builder

	sb.WriteString(" The vertex of this function is at ")
	sb.WriteString(vertexStyle.Render(absfn.VertexLabel(m.params)))
	sb.WriteString(".")
	sb.WriteString("\n ")
	sb.WriteString(mutedStyle.Render(ansi.Truncate(absfn.Describe(m.params).Summary(), max(width-2, 0), "…")))
	sb.WriteString("\n ")
	if m.statusMsg != "" {
		sb.WriteString(statusStyle.Render(m.statusMsg))
	} else {
		sb.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return sb.String()
}

// renderValueInput renders the value-entry overlay for the focused slider.
func (m Model) renderValueInput() string {
	s := m.controls.current()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Set " + s.label))
	sb.WriteString("\n\n")
	sb.WriteString(m.valueInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Range %s … %s, step %g", formatBound(s.min), formatBound(s.max), s.step)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Examples: 1.5, -3/2, pi/4   ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderHelp renders the full key reference overlay.
func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Keys"))
	sb.WriteString("\n\n")
	sb.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Any key to close"))
	return menuBorderStyle.Render(sb.String())
}

// renderStatic renders the non-interactive snapshot printed by `absviz render`.
func renderStatic(p absfn.Params, probe, width, height int) string {
	samples := absfn.Samples(p)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(absfn.Equation(p)))
	sb.WriteString("\n")
	sb.WriteString("Vertex: " + vertexStyle.Render(absfn.VertexLabel(p)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(absfn.Describe(p).Summary()))
	sb.WriteString("\n\n")
	sb.WriteString(renderChart(p, samples, probe, width, height))
	if r := probeReadout(samples, probe); r != "" {
		sb.WriteString("\n")
		sb.WriteString(chartLayerStyles[plot.LayerProbe].Render(r))
	}
	return sb.String()
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with
// overlay content. Escape sequences on either side of the cut are preserved.
func spliceLineAt(bgLine, overlay string, x int) string {
	if w := ansi.StringWidth(bgLine); w < x {
		bgLine += strings.Repeat(" ", x-w)
	}
	prefix := ansi.Truncate(bgLine, x, "")
	suffix := ansi.TruncateLeft(bgLine, x+ansi.StringWidth(overlay), "")
	return prefix + ansi.ResetStyle + overlay + ansi.ResetStyle + suffix
}
