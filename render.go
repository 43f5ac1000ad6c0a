package main

import (
	"fmt"
	"math"
	"strings"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	total := width - n
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// scheduleCell returns the symbol drawn for qubit q in a round column. The
// oracle column marks each control as ● (fires on 1) or ○ (fires on 0).
func scheduleCell(kind byte, bit byte) string {
	switch kind {
	case 'H':
		return "H"
	case 'O':
		if bit == '1' {
			return "●"
		}
		return "○"
	default:
		return "D"
	}
}

// bar renders p in [0,1] as a fixed-width fill bar.
func bar(p float64, width int) string {
	filled := int(math.Round(p * float64(width)))
	filled = min(max(filled, 0), width)
	return barFillStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleRounds returns the first round column shown and how many fit.
func (m Model) visibleRounds(width int) (start, count int) {
	availWidth := width - labelVisualW - colW - 4
	count = max(availWidth/(2*colW), 1)
	start = m.viewStart
	if m.round > start+count-1 {
		start = m.round - count + 1
	}
	last := m.maxRound()
	if start+count > last+1 {
		count = max(last+1-start, 1)
	}
	return start, count
}

// renderSchedulePanel renders the round schedule: an H column followed by an
// oracle/diffusion column pair per round. Rounds already applied are bright.
func (m Model) renderSchedulePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Grover Schedule"))
	sb.WriteString("\n\n")

	start, count := m.visibleRounds(width)
	if start > 1 {
		fmt.Fprintf(&sb, "  ◀ showing rounds %d–%d\n", start, start+count-1)
	}

	header := strings.Repeat(" ", labelVisualW) + dimStyle.Render(padCenter("0", colW))
	for r := start; r < start+count; r++ {
		if r == 0 {
			continue
		}
		label := padCenter(fmt.Sprintf("%d", r), 2*colW)
		if r == m.round {
			header += cursorStyle.Render(label)
		} else {
			header += dimStyle.Render(label)
		}
	}
	sb.WriteString(header + "\n")

	bits := m.oracle().Bits
	for q := range m.numQubits {
		line := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", q)))
		line += gateStyle.Render(padCenter(scheduleCell('H', 0), colW))
		for r := start; r < start+count; r++ {
			if r == 0 {
				continue
			}
			for _, kind := range []byte{'O', 'D'} {
				cell := padCenter(scheduleCell(kind, bits[q]), colW)
				switch {
				case r == m.round:
					line += cursorStyle.Render(cell)
				case r < m.round:
					line += gateStyle.Render(cell)
				default:
					line += dimStyle.Render(cell)
				}
			}
		}
		sb.WriteString(line + "\n\n")
	}

	k := m.driver.Iterations()
	fmt.Fprintf(&sb, "  Oracle %s  │  round %d of K=%d", activeGateStyle.Render(bits), m.round, k)
	if m.round > k {
		sb.WriteString(missStyle.Render("  over-rotated"))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n  %s", activeGateStyle.Render(m.statusMsg))
	}

	return schedulePanelStyle.Width(width).Height(height).Render(sb.String())
}

// renderMarginalPanel renders one probability bar per qubit, the decided
// bitstring, and the most likely basis states.
func (m Model) renderMarginalPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Marginals"))
	fmt.Fprintf(&sb, "  %s\n\n", dimStyle.Render(m.strategy))

	bits := m.oracle().Bits
	for _, mg := range m.marginals {
		mark := hitStyle.Render("✓")
		if mg.Bit() != bits[mg.Qubit] {
			mark = missStyle.Render("✗")
		}
		fmt.Fprintf(&sb, "%s %s %.3f  %c %s\n",
			qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", mg.Qubit))),
			bar(mg.P1, barW), mg.P1, mg.Bit(), mark)
	}

	answer := m.answer()
	result := hitStyle.Render("success")
	if answer != bits {
		result = missStyle.Render("miss")
	}
	fmt.Fprintf(&sb, "\nAnswer %s  %s\n\n", activeGateStyle.Render(answer), result)

	sb.WriteString(titleStyle.Render("Top states"))
	sb.WriteString("\n")
	for _, s := range m.states {
		label := "|" + s.Label + "⟩"
		if s.Label == bits {
			label = hitStyle.Render(label)
		}
		fmt.Fprintf(&sb, "  %s  p=%.4f  φ=%+.3f\n", label, s.Prob, s.Phase)
	}
	if m.reg != nil {
		fmt.Fprintf(&sb, "%s", dimStyle.Render(fmt.Sprintf("\n  norm %.12f", m.reg.Norm())))
	}

	return marginalPanelStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("←→/hl Round  0 Reset  $ Jump to K  +/- Qubits")
	sb.WriteString("\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("o Set oracle  r Random oracle  a Amplifier  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderOracleInput renders the oracle entry overlay.
func (m Model) renderOracleInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Bind oracle"))
	sb.WriteString("\n\n")
	sb.WriteString(m.oracleInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%d bits  ⏎ Ok  Esc ✕", m.numQubits)))
	return menuBorderStyle.Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscFinal reports whether r terminates an ANSI CSI sequence.
func isEscFinal(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at x in bgLine with overlay,
// copying escape sequences in the kept prefix through untouched.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var out strings.Builder
	col, i := 0, 0
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				out.WriteRune(runes[i])
				i++
				if isEscFinal(runes[i-1]) {
					break
				}
			}
			continue
		}
		out.WriteRune(runes[i])
		col++
		i++
	}
	for ; col < x; col++ {
		out.WriteRune(' ')
	}
	out.WriteString(overlay)

	for skipped := 0; i < len(runes) && skipped < ovWidth; {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if isEscFinal(runes[i-1]) {
					break
				}
			}
			continue
		}
		skipped++
		i++
	}
	out.WriteString(string(runes[i:]))
	return out.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscFinal(r) {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
