// Package absfn models the absolute-value family f(x) = a|x - h| + k: its
// parameters, the sampled point sequence the graph is drawn from, and the
// labels derived from the current parameters.
package absfn

import (
	"fmt"
	"math"
)

// Sampling constants. The domain is wider than the visible chart so the
// curve always runs off the edges of the plot.
const (
	DomainMin  = -15.0
	DomainMax  = 15.0
	DomainStep = 0.5
	Precision  = 2 // decimal places kept on sampled x and y
)

// Param identifies one of the three function parameters.
type Param int

const (
	ParamA Param = iota
	ParamH
	ParamK
)

// AllParams lists the parameters in display order.
var AllParams = []Param{ParamA, ParamH, ParamK}

func (p Param) String() string {
	switch p {
	case ParamA:
		return "a"
	case ParamH:
		return "h"
	case ParamK:
		return "k"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

// Params is the (a, h, k) triple. Any finite real is accepted; the UI is what
// constrains the ranges.
type Params struct {
	A float64 `json:"a" yaml:"a"`
	H float64 `json:"h" yaml:"h"`
	K float64 `json:"k" yaml:"k"`
}

// DefaultParams returns the parent function |x|.
func DefaultParams() Params {
	return Params{A: 1, H: 0, K: 0}
}

// Get returns the value of a single parameter.
func (p Params) Get(key Param) float64 {
	switch key {
	case ParamA:
		return p.A
	case ParamH:
		return p.H
	case ParamK:
		return p.K
	}
	return 0
}

// With returns a copy of p with key set to v.
func (p Params) With(key Param, v float64) Params {
	switch key {
	case ParamA:
		p.A = v
	case ParamH:
		p.H = v
	case ParamK:
		p.K = v
	}
	return p
}

// Eval evaluates a|x - h| + k without rounding.
func (p Params) Eval(x float64) float64 {
	return p.A*math.Abs(x-p.H) + p.K
}

// Vertex returns the turning point (h, k).
func (p Params) Vertex() (float64, float64) {
	return p.H, p.K
}

// DataPoint is a single sampled point of the function.
type DataPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SampleCount is the number of points Samples produces.
func SampleCount() int {
	return int(math.Round((DomainMax-DomainMin)/DomainStep)) + 1
}

// Samples evaluates p across [DomainMin, DomainMax] at DomainStep, both ends
// included. x is derived from the index so the last point lands exactly on
// DomainMax.
func Samples(p Params) []DataPoint {
	n := SampleCount()
	points := make([]DataPoint, n)
	for i := range n {
		x := DomainMin + float64(i)*DomainStep
		points[i] = DataPoint{
			X: round(x, Precision),
			Y: round(p.Eval(x), Precision),
		}
	}
	return points
}

// round rounds v to the given number of decimal places. Non-finite values
// pass through unchanged.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if math.IsInf(r, 0) {
		return v
	}
	return r
}

// Round2 rounds v to two decimal places. Slider values go through it so that
// repeated stepping never accumulates float noise.
func Round2(v float64) float64 {
	return round(v, 2)
}
