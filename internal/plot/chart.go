package plot

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Point is a point in world coordinates.
type Point struct {
	X, Y float64
}

// Viewport is the visible world rectangle.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Contains reports whether (x, y) lies inside the viewport, edges included.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.XMin && x <= v.XMax && y >= v.YMin && y <= v.YMax
}

// Chart maps world coordinates onto a Canvas through a fixed Viewport.
type Chart struct {
	vp     Viewport
	canvas *Canvas
}

// NewChart creates a chart of cols×rows cells showing vp.
func NewChart(cols, rows int, vp Viewport) *Chart {
	return &Chart{vp: vp, canvas: NewCanvas(cols, rows)}
}

// Viewport returns the chart's visible world rectangle.
func (ch *Chart) Viewport() Viewport {
	return ch.vp
}

// Canvas exposes the underlying raster.
func (ch *Chart) Canvas() *Canvas {
	return ch.canvas
}

// toPixel maps world coordinates to (fractional) pixel coordinates. The y
// axis is flipped: YMax sits on the top pixel row.
func (ch *Chart) toPixel(x, y float64) (float64, float64) {
	w, h := ch.canvas.Pixels()
	px := (x - ch.vp.XMin) / (ch.vp.XMax - ch.vp.XMin) * float64(w-1)
	py := (ch.vp.YMax - y) / (ch.vp.YMax - ch.vp.YMin) * float64(h-1)
	return px, py
}

// Segment draws the part of (x0,y0)-(x1,y1) that falls inside the viewport.
func (ch *Chart) Segment(x0, y0, x1, y1 float64, layer Layer, dash int) {
	cx0, cy0, cx1, cy1, ok := clipSegment(ch.vp, x0, y0, x1, y1)
	if !ok {
		return
	}
	px0, py0 := ch.toPixel(cx0, cy0)
	px1, py1 := ch.toPixel(cx1, cy1)
	ch.canvas.Line(
		int(math.Round(px0)), int(math.Round(py0)),
		int(math.Round(px1)), int(math.Round(py1)),
		layer, dash,
	)
}

// HLine draws a horizontal reference line at y across the whole viewport.
func (ch *Chart) HLine(y float64, layer Layer, dash int) {
	ch.Segment(ch.vp.XMin, y, ch.vp.XMax, y, layer, dash)
}

// VLine draws a vertical reference line at x across the whole viewport.
func (ch *Chart) VLine(x float64, layer Layer, dash int) {
	ch.Segment(x, ch.vp.YMin, x, ch.vp.YMax, layer, dash)
}

// Grid draws a sparse dotted grid with a line every step world units, one dot
// in every gap pixels along each line. Lines through the origin are left to
// HLine and VLine.
func (ch *Chart) Grid(step float64, gap int, layer Layer) {
	if !(step > 0) || gap < 1 || math.IsInf(step, 0) {
		return
	}
	w, h := ch.canvas.Pixels()

	for i := math.Ceil(ch.vp.XMin / step); i*step <= ch.vp.XMax; i++ {
		if i == 0 {
			continue
		}
		px, _ := ch.toPixel(i*step, 0)
		col := int(math.Round(px))
		for py := 0; py < h; py += gap {
			ch.canvas.Set(col, py, layer)
		}
	}
	for i := math.Ceil(ch.vp.YMin / step); i*step <= ch.vp.YMax; i++ {
		if i == 0 {
			continue
		}
		_, py := ch.toPixel(0, i*step)
		row := int(math.Round(py))
		for px := 0; px < w; px += gap {
			ch.canvas.Set(px, row, layer)
		}
	}
}

// Polyline joins consecutive points with straight segments. A non-finite
// point breaks the line.
func (ch *Chart) Polyline(pts []Point, layer Layer) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if !finite(a.X, a.Y, b.X, b.Y) {
			continue
		}
		ch.Segment(a.X, a.Y, b.X, b.Y, layer, 0)
	}
}

// Mark draws a small cross centred on (x, y) if it is visible.
func (ch *Chart) Mark(x, y float64, layer Layer) {
	if !finite(x, y) || !ch.vp.Contains(x, y) {
		return
	}
	px, py := ch.toPixel(x, y)
	cx, cy := int(math.Round(px)), int(math.Round(py))
	ch.canvas.Set(cx, cy, layer)
	ch.canvas.Set(cx-1, cy, layer)
	ch.canvas.Set(cx+1, cy, layer)
	ch.canvas.Set(cx, cy-1, layer)
	ch.canvas.Set(cx, cy+1, layer)
}

// Lines renders the chart rows using per-layer styles.
func (ch *Chart) Lines(styles map[Layer]lipgloss.Style) []string {
	return ch.canvas.Lines(styles)
}

// clipSegment clips a segment to vp (Liang–Barsky). It reports false when no
// part of the segment is visible or the segment is not representable.
func clipSegment(vp Viewport, x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	if !finite(x0, y0, x1, y1, dx, dy) {
		return 0, 0, 0, 0, false
	}

	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - vp.XMin, vp.XMax - x0, y0 - vp.YMin, vp.YMax - y0}

	for i := range 4 {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
