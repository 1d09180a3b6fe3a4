package main

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4
var piExprRegex = regexp.MustCompile(`^([-+]?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// fractionRegex matches plain fractions such as 1/3 or -5/2.
var fractionRegex = regexp.MustCompile(`^([-+]?\d+\.?\d*)\s*/\s*(\d+\.?\d*)$`)

// parseValueExpr parses a typed slider value. Returns the value and true on
// success, or 0 and false on failure.
//
// Supported formats:
//   - Plain numbers: "2", "-0.5", "1e-1"
//   - Fractions: "1/2", "-7/4"
//   - Pi expressions: "pi", "pi/2", "2pi", "3*pi/4", "-pi/3"
func parseValueExpr(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Try plain number first
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	}

	if m := fractionRegex.FindStringSubmatch(s); m != nil {
		num, err1 := strconv.ParseFloat(m[1], 64)
		den, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	}

	// Try pi expression
	s = strings.ToLower(s)
	if m := piExprRegex.FindStringSubmatch(s); m != nil {
		coeff := 1.0
		if m[2] != "" {
			var err error
			coeff, err = strconv.ParseFloat(m[2], 64)
			if err != nil {
				return 0, false
			}
		}

		result := coeff * math.Pi
		if m[3] != "" {
			denom, err := strconv.ParseFloat(m[3], 64)
			if err != nil || denom == 0 {
				return 0, false
			}
			result /= denom
		}

		if m[1] == "-" {
			result = -result
		}
		return result, true
	}

	return 0, false
}

// formatValue formats a parameter for readouts: always one decimal, and no
// "-0.0".
func formatValue(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}
