package main

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qgrover/bench"
	"qgrover/gate"
	"qgrover/grover"
	"qgrover/projector"
	"qgrover/register"
)

// maxViewQubits bounds the interactive viewer to what every amplifier,
// dense included, can drive. Larger registers are for run and bench.
const maxViewQubits = gate.MaxDenseQubits

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusSchedule focus = iota
	focusOracle
	focusMenu
)

// Model represents the TUI application state.
type Model struct {
	driver    *grover.Driver
	numQubits int
	strategy  string
	round     int // rounds applied to the displayed register
	viewStart int // first round column currently visible

	reg       *register.Register
	marginals []projector.Marginal
	states    []projector.BasisState

	oracleInput textinput.Model
	focus       focus
	menuItem    int
	rng         *rand.Rand

	width     int
	height    int
	statusMsg string // transient status message
}

func initialModel(numQubits int, oracle, strategy string, seed int64) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "bitstring, qubit 0 first"
	ti.Prompt = "oracle> "
	ti.CharLimit = maxViewQubits

	m := Model{
		numQubits:   numQubits,
		strategy:    strategy,
		oracleInput: ti,
		focus:       focusSchedule,
		rng:         rand.New(rand.NewSource(seed)),
	}
	if numQubits < 1 || numQubits > maxViewQubits {
		return m, fmt.Errorf("%w: viewer supports 1..%d qubits", register.ErrInvalidSize, maxViewQubits)
	}
	if oracle == "" {
		oracle = bench.RandomOracle(m.rng, numQubits)
	}
	if err := m.rebuild(oracle); err != nil {
		return m, err
	}
	m.round = m.driver.Iterations()
	m.recompute()
	return m, nil
}

// rebuild creates a driver for the current size and strategy and binds oracle.
func (m *Model) rebuild(oracle string) error {
	amp, err := gate.ParseStrategy(m.strategy)
	if err != nil {
		return err
	}
	d, err := grover.New(m.numQubits, grover.WithAmplifier(amp))
	if err != nil {
		return err
	}
	if err := d.DefineOracle(oracle); err != nil {
		return err
	}
	m.driver = d
	m.round = min(m.round, m.maxRound())
	return nil
}

// maxRound lets the cursor run to 2K so over-rotation is visible.
func (m *Model) maxRound() int {
	return 2 * m.driver.Iterations()
}

// recompute replays the driver up to the cursor round and projects the result.
func (m *Model) recompute() {
	reg, err := m.driver.RunRounds(m.round)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Run error: %v", err)
		return
	}
	m.reg = reg
	m.marginals = projector.ProjectAll(reg)
	m.states = projector.Top(reg, topStates)
}

func (m *Model) oracle() grover.Oracle {
	o, _ := m.driver.Oracle()
	return o
}

// resize changes the qubit count and draws a fresh oracle of that length.
func (m *Model) resize(numQubits int) {
	if numQubits < 1 || numQubits > maxViewQubits {
		return
	}
	m.numQubits = numQubits
	m.round = 0
	if err := m.rebuild(bench.RandomOracle(m.rng, numQubits)); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.round = m.driver.Iterations()
	m.viewStart = 0
	m.recompute()
}

// answer returns the decided bits of the displayed register.
func (m Model) answer() string {
	bits := make([]byte, len(m.marginals))
	for i, mg := range m.marginals {
		bits[i] = mg.Bit()
	}
	return string(bits)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusSchedule:
			m.statusMsg = ""
			return m.updateSchedule(key)
		case focusMenu:
			return m.updateMenu(key)
		case focusOracle:
			return m.updateOracle(msg)
		}
	}
	return m, nil
}

func (m Model) updateSchedule(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "left", "h":
		if m.round > 0 {
			m.round--
			if m.round < m.viewStart {
				m.viewStart = m.round
			}
			m.recompute()
		}
	case "right", "l":
		if m.round < m.maxRound() {
			m.round++
			m.recompute()
		}
	case "home", "0":
		m.round = 0
		m.viewStart = 0
		m.recompute()
	case "end", "$":
		m.round = m.driver.Iterations()
		m.recompute()
	case "+", "=":
		m.resize(m.numQubits + 1)
	case "-":
		m.resize(m.numQubits - 1)
	case "r":
		if err := m.rebuild(bench.RandomOracle(m.rng, m.numQubits)); err != nil {
			m.statusMsg = err.Error()
			break
		}
		m.recompute()
	case "o":
		m.focus = focusOracle
		m.oracleInput.SetValue("")
		m.oracleInput.Focus()
	case "a":
		m.focus = focusMenu
		m.menuItem = menuIndex(m.strategy)
	}
	return m, nil
}

func (m Model) updateMenu(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.focus = focusSchedule
	case "up", "k":
		if m.menuItem > 0 {
			m.menuItem--
		}
	case "down", "j":
		if m.menuItem < len(strategyMenu)-1 {
			m.menuItem++
		}
	case "enter":
		chosen := strategyMenu[m.menuItem].strategy
		m.focus = focusSchedule
		if chosen == m.strategy {
			break
		}
		prev := m.strategy
		m.strategy = chosen
		if err := m.rebuild(m.oracle().Bits); err != nil {
			m.strategy = prev
			m.statusMsg = err.Error()
			break
		}
		m.recompute()
		m.statusMsg = "Amplifier: " + chosen
	}
	return m, nil
}

func (m Model) updateOracle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusSchedule
		m.oracleInput.Blur()
		return m, nil
	case "enter":
		bits := m.oracleInput.Value()
		if err := m.driver.DefineOracle(bits); err != nil {
			if errors.Is(err, grover.ErrInvalidOracle) {
				m.statusMsg = fmt.Sprintf("Oracle must be %d characters of 0/1", m.numQubits)
			} else {
				m.statusMsg = err.Error()
			}
			return m, nil
		}
		m.focus = focusSchedule
		m.oracleInput.Blur()
		m.round = min(m.round, m.maxRound())
		m.recompute()
		m.statusMsg = "Oracle bound: " + bits
		return m, nil
	}
	var cmd tea.Cmd
	m.oracleInput, cmd = m.oracleInput.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	marginalWidth := max(m.width/2-4, 36)
	scheduleWidth := max(m.width-marginalWidth-4, 20)
	controlsHeight := 6
	panelHeight := max(m.height-controlsHeight-2, 8)

	schedulePanel := m.renderSchedulePanel(scheduleWidth, panelHeight)
	marginalPanel := m.renderMarginalPanel(marginalWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, schedulePanel, marginalPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusOracle:
		frame = overlayAt(frame, m.renderOracleInput(), 2, 2)
	}
	return frame
}
