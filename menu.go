package main

import (
	"fmt"
	"strings"

	"absviz/internal/absfn"
)

// preset is a named parameter triple offered in the picker.
type preset struct {
	name   string
	params absfn.Params
}

// presetCategory groups related presets under a tab.
type presetCategory struct {
	name  string
	items []preset
}

// presetMenu defines the preset picker categories and items. Every value sits
// on its slider's step grid.
var presetMenu = []presetCategory{
	{
		name: "Basic",
		items: []preset{
			{name: "Parent", params: absfn.Params{A: 1, H: 0, K: 0}},
			{name: "Reflected", params: absfn.Params{A: -1, H: 0, K: 0}},
			{name: "Flat", params: absfn.Params{A: 0, H: 0, K: 2}},
		},
	},
	{
		name: "Stretch",
		items: []preset{
			{name: "Narrow", params: absfn.Params{A: 3, H: 0, K: 0}},
			{name: "Wide", params: absfn.Params{A: 0.5, H: 0, K: 0}},
			{name: "Steep, flipped", params: absfn.Params{A: -4, H: 0, K: 0}},
			{name: "Gentle, flipped", params: absfn.Params{A: -0.2, H: 0, K: 0}},
		},
	},
	{
		name: "Shift",
		items: []preset{
			{name: "Right 4", params: absfn.Params{A: 1, H: 4, K: 0}},
			{name: "Left 4", params: absfn.Params{A: 1, H: -4, K: 0}},
			{name: "Up 3", params: absfn.Params{A: 1, H: 0, K: 3}},
			{name: "Down 3", params: absfn.Params{A: 1, H: 0, K: -3}},
		},
	},
	{
		name: "Combined",
		items: []preset{
			{name: "Cap at (3, -1)", params: absfn.Params{A: -2, H: 3, K: -1}},
			{name: "Cup at (-5, 4)", params: absfn.Params{A: 0.5, H: -5, K: 4}},
			{name: "Cup at (2, -6)", params: absfn.Params{A: 1.5, H: 2, K: -6}},
			{name: "Cap at (-2.5, 8)", params: absfn.Params{A: -3, H: -2.5, K: 8}},
		},
	},
}

// renderMenu renders the floating preset picker.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Presets"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range presetMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(menuSelectedStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(presetMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 44)))
	sb.WriteString("\n")

	// Items in the selected category
	for i, item := range presetMenu[m.menuCat].items {
		eq := absfn.Equation(item.params)
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-17s", item.name)))
			sb.WriteString(mutedStyle.Render(eq))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-17s", item.name)))
			sb.WriteString(dimStyle.Render(eq))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Group  ⏎ Apply  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// menuKey handles navigation inside the preset picker. It returns the chosen
// preset when the user confirms.
func (m *Model) menuKey(k string) (preset, bool) {
	switch k {
	case "esc", "p":
		m.focus = focusControls
	case "up", "k":
		if m.menuItem > 0 {
			m.menuItem--
		}
	case "down", "j":
		if m.menuItem < len(presetMenu[m.menuCat].items)-1 {
			m.menuItem++
		}
	case "left", "h":
		if m.menuCat > 0 {
			m.menuCat--
			m.menuItem = 0
		}
	case "right", "l":
		if m.menuCat < len(presetMenu)-1 {
			m.menuCat++
			m.menuItem = 0
		}
	case "enter":
		m.focus = focusControls
		return presetMenu[m.menuCat].items[m.menuItem], true
	}
	return preset{}, false
}
