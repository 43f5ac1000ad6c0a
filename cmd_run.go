package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qgrover/gate"
	"qgrover/grover"
	"qgrover/projector"
)

var (
	runQubits   int
	runOracle   string
	runStrategy string
	runStates   int
)

// runCmd performs one search and prints the read-out.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one Grover search and read out every qubit",
	Example: `  qgrover run --qubits 2 --oracle 10
  qgrover run -n 8 -o 10110011 --strategy circuit --states 4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), cmd.OutOrStdout(), runQubits, runOracle, runStrategy, runStates)
	},
}

func init() {
	runCmd.Flags().IntVarP(&runQubits, "qubits", "n", 3, "Number of qubits")
	runCmd.Flags().StringVarP(&runOracle, "oracle", "o", "", "Marked bitstring, qubit 0 first (required)")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "vector", "Amplifier: vector, circuit or dense")
	runCmd.Flags().IntVar(&runStates, "states", 0, "Also list the K most probable basis states")
	_ = runCmd.MarkFlagRequired("oracle")
}

func runSearch(ctx context.Context, w io.Writer, numQubits int, oracle, strategy string, states int) error {
	amp, err := gate.ParseStrategy(strategy)
	if err != nil {
		return err
	}
	d, err := grover.New(numQubits, grover.WithAmplifier(amp))
	if err != nil {
		return err
	}
	if err := d.DefineOracle(oracle); err != nil {
		return err
	}

	start := time.Now()
	r, err := d.Run()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logger.Debug("search finished",
		zap.Int("qubits", numQubits),
		zap.String("strategy", amp.Name()),
		zap.Int("iterations", d.Round()),
		zap.Duration("elapsed", elapsed))

	marginals, err := projector.ProjectAllContext(ctx, r, runtime.GOMAXPROCS(0))
	if err != nil {
		return err
	}
	bits := make([]byte, len(marginals))
	for q, m := range marginals {
		fmt.Fprintln(w, m)
		bits[q] = m.Bit()
	}

	answer := string(bits)
	result := hitStyle.Render("success")
	if answer != oracle {
		result = missStyle.Render("miss")
	}
	fmt.Fprintf(w, "answer %s (%s) after %d rounds in %s\n", answer, result, d.Round(), elapsed)

	if states != 0 {
		fmt.Fprintln(w, statesTable(projector.Top(r, states)))
	}
	return nil
}

// statesTable renders basis states as a bordered table.
func statesTable(states []projector.BasisState) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("STATE", "AMPLITUDE", "PROB", "PHASE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, s := range states {
		t.Row(
			"|"+s.Label+"⟩",
			fmt.Sprintf("%+.4f%+.4fi", real(s.Amplitude), imag(s.Amplitude)),
			strconv.FormatFloat(s.Prob, 'f', 6, 64),
			strconv.FormatFloat(s.Phase, 'f', 3, 64),
		)
	}
	return t.String()
}
