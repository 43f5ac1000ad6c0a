package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qgrover/bench"
	"qgrover/config"
)

// benchCmd runs the success-rate and scaling benchmark.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure success rate and run time across qubit counts",
	Long: `Run many searches against random oracles for every qubit count in
[min, max] and report the success rate and mean run time per count.

Settings come from the config file's bench section; flags override them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bc := cfg.Bench
		if err := applyBenchFlags(cmd, &bc); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runBench(ctx, cmd.OutOrStdout(), bc)
	},
}

func init() {
	f := benchCmd.Flags()
	f.Int("min", 0, "Smallest qubit count")
	f.Int("max", 0, "Largest qubit count")
	f.Int("trials", 0, "Trials per qubit count")
	f.Int64("seed", 0, "Seed for the random oracles")
	f.Int("workers", 0, "Concurrent trials")
	f.String("strategy", "", "Amplifier: vector, circuit or dense")
	f.String("log-file", "", "Append one JSON line per trial to this file")
	f.String("metrics-file", "", "Write Prometheus metrics to this file")
}

// applyBenchFlags copies every flag the user set over bc.
func applyBenchFlags(cmd *cobra.Command, bc *config.BenchConfig) error {
	f := cmd.Flags()
	var err error
	if f.Changed("min") {
		bc.MinQubits, err = f.GetInt("min")
	}
	if err == nil && f.Changed("max") {
		bc.MaxQubits, err = f.GetInt("max")
	}
	if err == nil && f.Changed("trials") {
		bc.Trials, err = f.GetInt("trials")
	}
	if err == nil && f.Changed("seed") {
		bc.Seed, err = f.GetInt64("seed")
	}
	if err == nil && f.Changed("workers") {
		bc.Workers, err = f.GetInt("workers")
	}
	if err == nil && f.Changed("strategy") {
		bc.Strategy, err = f.GetString("strategy")
	}
	if err == nil && f.Changed("log-file") {
		bc.LogFile, err = f.GetString("log-file")
	}
	if err == nil && f.Changed("metrics-file") {
		bc.MetricsFile, err = f.GetString("metrics-file")
	}
	return err
}

func runBench(ctx context.Context, w io.Writer, bc config.BenchConfig) (err error) {
	metrics := bench.NewMetrics()
	sinks := bench.MultiSink{bench.NewLogSink(logger), metrics}
	if bc.LogFile != "" {
		fs, err := bench.OpenFileSink(bc.LogFile)
		if err != nil {
			return err
		}
		sinks = append(sinks, fs)
	}
	defer func() {
		err = errors.Join(err, sinks.Close())
	}()

	runner, err := bench.NewRunner(bc, bench.WithLogger(logger), bench.WithSink(sinks))
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("benchmark finished",
		zap.Int("trials", report.Trials()),
		zap.Duration("elapsed", report.Elapsed))

	fmt.Fprintln(w, reportTable(report))

	if bc.MetricsFile != "" {
		if err := metrics.WriteTextfile(bc.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// reportTable renders one row per qubit count.
func reportTable(r bench.Report) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("QUBITS", "K", "TRIALS", "SUCCESS", "RATE", "MEAN", "MIN", "MAX", "GROWTH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})
	for _, s := range r.Summaries {
		growth := "-"
		if s.Growth > 0 {
			growth = fmt.Sprintf("×%.2f", s.Growth)
		}
		t.Row(
			strconv.Itoa(s.Qubits),
			strconv.Itoa(s.Iterations),
			strconv.Itoa(s.Trials),
			strconv.Itoa(s.Successes),
			fmt.Sprintf("%.1f%%", 100*s.Rate),
			s.Mean.Round(time.Microsecond).String(),
			s.Min.Round(time.Microsecond).String(),
			s.Max.Round(time.Microsecond).String(),
			growth,
		)
	}
	return fmt.Sprintf("%s\nstrategy %s, %d trials in %s",
		t.String(), r.Strategy, r.Trials(), r.Elapsed.Round(time.Millisecond))
}
