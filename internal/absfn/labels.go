package absfn

import (
	"fmt"
	"math"
	"strings"
)

// Equation renders p as "f(x) = a|x - h| + k", dropping the parts that are
// identities (a = 1, h = 0, k = 0). Every number is shown to one decimal.
func Equation(p Params) string {
	var aText string
	switch p.A {
	case 1:
		aText = ""
	case -1:
		aText = "-"
	default:
		aText = fixed1(p.A)
	}

	var hText string
	switch {
	case p.H == 0:
		hText = "x"
	case p.H > 0:
		hText = fmt.Sprintf("x - %.1f", p.H)
	default:
		hText = fmt.Sprintf("x + %.1f", math.Abs(p.H))
	}

	var kText string
	switch {
	case p.K == 0:
		kText = ""
	case p.K > 0:
		kText = fmt.Sprintf(" + %.1f", p.K)
	default:
		kText = fmt.Sprintf(" - %.1f", math.Abs(p.K))
	}

	return "f(x) = " + aText + "|" + hText + "|" + kText
}

// VertexLabel renders the vertex as "(h, k)" to one decimal.
func VertexLabel(p Params) string {
	return "(" + fixed1(p.H) + ", " + fixed1(p.K) + ")"
}

// fixed1 formats v to one decimal. Values that round to zero print as "0.0",
// never "-0.0".
func fixed1(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

// Opening is the direction the graph's arms point.
type Opening int

const (
	OpensUp Opening = iota
	OpensDown
	Flat
)

func (o Opening) String() string {
	switch o {
	case OpensUp:
		return "opens up"
	case OpensDown:
		return "opens down"
	default:
		return "flat"
	}
}

// Shape summarises the qualitative properties of the graph.
type Shape struct {
	Opening    Opening
	Slope      float64   // |a|, the steepness of each arm
	Width      string    // "narrow", "wide" or "standard"
	Extremum   string    // "minimum", "maximum" or "" when flat
	Range      string    // e.g. "y ≥ -1.0"
	Intercepts []float64 // x-intercepts in increasing order
}

// Describe derives the shape of the graph for p.
func Describe(p Params) Shape {
	s := Shape{Slope: math.Abs(p.A)}

	switch {
	case p.A > 0:
		s.Opening = OpensUp
		s.Extremum = "minimum"
		s.Range = "y ≥ " + fixed1(p.K)
	case p.A < 0:
		s.Opening = OpensDown
		s.Extremum = "maximum"
		s.Range = "y ≤ " + fixed1(p.K)
	default:
		s.Opening = Flat
		s.Range = "y = " + fixed1(p.K)
	}

	switch {
	case s.Slope > 1:
		s.Width = "narrow"
	case s.Slope < 1:
		s.Width = "wide"
	default:
		s.Width = "standard"
	}

	s.Intercepts = intercepts(p)
	return s
}

// intercepts solves a|x - h| + k = 0. A flat graph has no isolated roots.
func intercepts(p Params) []float64 {
	if p.A == 0 {
		return nil
	}
	d := -p.K / p.A
	switch {
	case math.IsNaN(d) || math.IsInf(d, 0) || d < 0:
		return nil
	case d == 0:
		return []float64{p.H}
	default:
		return []float64{p.H - d, p.H + d}
	}
}

// Summary is a one-line description of the shape, e.g.
// "opens up · narrow · minimum at vertex · y ≥ -1.0 · x-int: 2.5, 3.5".
func (s Shape) Summary() string {
	parts := []string{s.Opening.String()}
	if s.Opening != Flat {
		parts = append(parts, s.Width)
		parts = append(parts, s.Extremum+" at vertex")
	}
	parts = append(parts, s.Range)

	switch len(s.Intercepts) {
	case 0:
		parts = append(parts, "no x-intercepts")
	default:
		xs := make([]string, len(s.Intercepts))
		for i, x := range s.Intercepts {
			xs[i] = fmt.Sprintf("%.2f", x)
		}
		parts = append(parts, "x-int: "+strings.Join(xs, ", "))
	}
	return strings.Join(parts, " · ")
}
