package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tuiQubits   int
	tuiOracle   string
	tuiStrategy string
	tuiSeed     int64
)

// tuiCmd opens the interactive round viewer.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Step through Grover rounds interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(tuiQubits, tuiOracle, tuiStrategy, tuiSeed)
	},
}

func registerTUIFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&tuiQubits, "qubits", "n", 3, "Number of qubits (1-10)")
	cmd.Flags().StringVar(&tuiStrategy, "strategy", "vector", "Amplifier: vector, circuit or dense")
	cmd.Flags().Int64Var(&tuiSeed, "seed", time.Now().UnixNano(), "Seed for random oracles")
}

func init() {
	registerTUIFlags(tuiCmd)
	tuiCmd.Flags().StringVarP(&tuiOracle, "oracle", "o", "", "Marked bitstring (random if empty)")
}

func runTUI(numQubits int, oracle, strategy string, seed int64) error {
	m, err := initialModel(numQubits, oracle, strategy, seed)
	if err != nil {
		return err
	}
	logger.Debug("starting viewer",
		zap.Int("qubits", numQubits),
		zap.String("strategy", strategy),
		zap.Int64("seed", seed))

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
