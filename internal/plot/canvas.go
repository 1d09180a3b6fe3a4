// Package plot draws line charts onto a braille dot canvas. Each terminal cell
// holds a 2×4 grid of dots, so a w×h cell canvas has 2w×4h addressable pixels.
package plot

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layer orders what gets drawn. When several layers put dots into the same
// cell the dots are merged and the cell takes the highest layer's style.
type Layer int8

const (
	LayerNone Layer = iota - 1
	LayerGrid
	LayerGuide
	LayerCurve
	LayerProbe
)

const brailleBase = 0x2800

// dotBits maps a pixel's position inside its cell to the braille bit.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a fixed-size braille raster.
type Canvas struct {
	cols, rows int
	dots       []uint8
	layers     []Layer
}

// NewCanvas allocates a canvas of cols×rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	cols = max(cols, 1)
	rows = max(rows, 1)
	c := &Canvas{
		cols:   cols,
		rows:   rows,
		dots:   make([]uint8, cols*rows),
		layers: make([]Layer, cols*rows),
	}
	for i := range c.layers {
		c.layers[i] = LayerNone
	}
	return c
}

// Cells returns the canvas size in terminal cells.
func (c *Canvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// Pixels returns the canvas size in dots.
func (c *Canvas) Pixels() (w, h int) {
	return c.cols * 2, c.rows * 4
}

// Set lights the dot at (px, py). Out-of-range coordinates are ignored.
func (c *Canvas) Set(px, py int, layer Layer) {
	w, h := c.Pixels()
	if px < 0 || py < 0 || px >= w || py >= h {
		return
	}
	idx := (py/4)*c.cols + px/2
	c.dots[idx] |= dotBits[py%4][px%2]
	if layer > c.layers[idx] {
		c.layers[idx] = layer
	}
}

// Line rasterises a segment with Bresenham's algorithm. A positive dash draws
// dash dots on, dash dots off.
func (c *Canvas) Line(x0, y0, x1, y1 int, layer Layer, dash int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for i := 0; ; i++ {
		if dash <= 0 || (i/dash)%2 == 0 {
			c.Set(x0, y0, layer)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Cell returns the braille rune and owning layer of a cell. Empty cells
// report LayerNone.
func (c *Canvas) Cell(col, row int) (rune, Layer) {
	idx := row*c.cols + col
	if c.dots[idx] == 0 {
		return ' ', LayerNone
	}
	return rune(brailleBase + int(c.dots[idx])), c.layers[idx]
}

// Lines renders the canvas row by row. Runs of cells sharing a layer are
// rendered with that layer's style; layers without a style are left plain.
func (c *Canvas) Lines(styles map[Layer]lipgloss.Style) []string {
	out := make([]string, c.rows)
	for row := range c.rows {
		var sb, run strings.Builder
		runLayer := LayerNone

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[runLayer]; ok && runLayer != LayerNone {
				sb.WriteString(st.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}

		for col := range c.cols {
			r, layer := c.Cell(col, row)
			if layer != runLayer {
				flush()
				runLayer = layer
			}
			run.WriteRune(r)
		}
		flush()
		out[row] = sb.String()
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
