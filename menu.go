package main

import (
	"fmt"
	"strings"
)

// menuItem represents a single amplifier choice in the strategy menu.
type menuItem struct {
	name     string
	strategy string
	hint     string
}

// strategyMenu lists the ways a Grover round can be applied.
var strategyMenu = []menuItem{
	{name: "Vector", strategy: "vector", hint: "phase flip + inversion about the mean, O(2^n)"},
	{name: "Circuit", strategy: "circuit", hint: "X / H / multi-controlled Z gates, O(n·2^n)"},
	{name: "Dense", strategy: "dense", hint: "explicit 2^n×2^n operators, O(4^n), n ≤ 10"},
}

// menuIndex returns the menu position of strategy, or 0.
func menuIndex(strategy string) int {
	for i, item := range strategyMenu {
		if item.strategy == strategy {
			return i
		}
	}
	return 0
}

// renderMenu renders the strategy picker overlay.
func (m Model) renderMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Amplifier"))
	sb.WriteString("\n\n")
	for i, item := range strategyMenu {
		label := fmt.Sprintf("%-8s %s", item.name, dimStyle.Render(item.hint))
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render("▸ ") + label)
		} else {
			sb.WriteString("  " + label)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("↑↓ Select  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
