package insight

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"absviz/internal/absfn"
)

// Fixed display strings. EmptyText and FailureText are deliberately
// different so an uninformative reply is distinguishable from an outage.
const (
	PlaceholderText   = "Loading mathematical insight..."
	NotConfiguredText = "API Key not found. Please ensure it is configured in your environment."
	EmptyText         = "Move the sliders to see mathematical insights!"
	FailureText       = "Exploring the properties of absolute value transformations. Keep adjusting the parameters to see more!"
	DisabledText      = "Insights are turned off."
)

// Request is one call to the text-generation service.
type Request struct {
	Model           string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
}

const promptTemplate = `Analyze the absolute value function f(x) = %[1]s|x - %[2]s| + %[3]s.
The parameters are:
a = %[1]s (Vertical stretch/compression and reflection)
h = %[2]s (Horizontal shift)
k = %[3]s (Vertical shift)

Provide a very short, concise 2-sentence mathematical insight or observation about this specific function's graph properties (e.g., vertex location, opening direction, width).
Keep it professional and encouraging.`

// BuildPrompt renders the natural-language prompt for p. Values are printed in
// their shortest exact form (1, -2.5, 0.1).
func BuildPrompt(p absfn.Params) string {
	return fmt.Sprintf(promptTemplate, num(p.A), num(p.H), num(p.K))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	headingRe  = regexp.MustCompile(`(?m)^\s*#{1,6}\s*`)
	bulletRe   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	strongRe   = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	italicRe   = regexp.MustCompile(`(^|\s)[*_](\S[^*_]*?)[*_]`)
	codeRe     = regexp.MustCompile("`([^`]*)`")
)

// stripEmphasis removes paired markdown markers and keeps their content. A
// lone '*' between operands is multiplication and stays.
func stripEmphasis(s string) string {
	s = strongRe.ReplaceAllString(s, "${2}")
	s = italicRe.ReplaceAllString(s, "${1}${2}")
	return codeRe.ReplaceAllString(s, "${1}")
}

// Sanitize turns a model reply into plain text that is safe to print inside
// the TUI: terminal escape sequences and control characters are removed,
// markdown markers are dropped, and runs of whitespace collapse to one space.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, headingRe.ReplaceAllString(bulletRe.ReplaceAllString(s, ""), ""))
	s = stripEmphasis(s)
	return strings.Join(strings.Fields(s), " ")
}

// Resolve maps the outcome of a request onto the text to display.
func Resolve(text string, err error) string {
	if err != nil {
		return FailureText
	}
	if clean := Sanitize(text); clean != "" {
		return clean
	}
	return EmptyText
}
