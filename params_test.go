package main

import (
	"math"
	"testing"
)

func TestParseValueExpr(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2", 2},
		{" -0.5 ", -0.5},
		{"1e-1", 0.1},
		{"1/2", 0.5},
		{"-7/4", -1.75},
		{"pi", math.Pi},
		{"PI/2", math.Pi / 2},
		{"2pi", 2 * math.Pi},
		{"3*pi/4", 3 * math.Pi / 4},
		{"-pi/3", -math.Pi / 3},
		{"+pi", math.Pi},
	}

	for _, tt := range tests {
		got, ok := parseValueExpr(tt.in)
		if !ok {
			t.Errorf("parseValueExpr(%q): expected success", tt.in)
			continue
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("parseValueExpr(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseValueExprRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "1/0", "pi/0", "NaN", "Inf", "-Inf", "2**pi", "1//2"} {
		if v, ok := parseValueExpr(in); ok {
			t.Errorf("parseValueExpr(%q) = %v, expected failure", in, v)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		1:     "1.0",
		-2.5:  "-2.5",
		0.1:   "0.1",
		10:    "10.0",
		0:     "0.0",
		-0.04: "0.0",
	}
	for in, want := range tests {
		if got := formatValue(in); got != want {
			t.Errorf("formatValue(%v) = %q, want %q", in, got, want)
		}
	}
}
