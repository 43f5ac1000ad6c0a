package bench

import (
	"bufio"
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"qgrover/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func smallConfig() config.BenchConfig {
	cfg := config.Default().Bench
	cfg.MinQubits = 2
	cfg.MaxQubits = 5
	cfg.Trials = 12
	cfg.Workers = 3
	return cfg
}

func TestRandomOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 1; n <= 10; n++ {
		bits := RandomOracle(rng, n)
		require.Len(t, bits, n)
		assert.Equal(t, "", strings.Trim(bits, "01"))
	}
}

func TestRunner_Report(t *testing.T) {
	collector := &Collector{}
	metrics := NewMetrics()
	r, err := NewRunner(smallConfig(), WithSink(MultiSink{collector, metrics}))
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vector", report.Strategy)
	assert.Equal(t, 48, report.Trials())
	require.Len(t, report.Summaries, 4)

	for i, s := range report.Summaries {
		assert.Equal(t, 2+i, s.Qubits)
		assert.Equal(t, 12, s.Trials)
		assert.LessOrEqual(t, s.Min, s.Mean)
		assert.LessOrEqual(t, s.Mean, s.Max)
		if i == 0 {
			assert.Zero(t, s.Growth)
		}
	}
	// Two qubits is exact, so every read-out matches.
	assert.Equal(t, 1.0, report.Summaries[0].Rate)

	trials := collector.Trials()
	require.Len(t, trials, 48)
	ids := make(map[string]bool)
	for _, tr := range trials {
		assert.Len(t, tr.Oracle, tr.Qubits)
		assert.Len(t, tr.Answer, tr.Qubits)
		assert.Equal(t, tr.Answer == tr.Oracle, tr.Success)
		ids[tr.RunID] = true
	}
	assert.Len(t, ids, 48)

	successes := 0.0
	for _, s := range report.Summaries {
		successes += float64(s.Successes)
	}
	counted := 0.0
	for q := 2; q <= 5; q++ {
		label := string(rune('0' + q))
		counted += testutil.ToFloat64(metrics.trials.WithLabelValues(label, "success"))
		counted += testutil.ToFloat64(metrics.trials.WithLabelValues(label, "miss"))
	}
	assert.Equal(t, 48.0, counted)
	assert.Equal(t, 4, testutil.CollectAndCount(metrics.duration))
	assert.Equal(t, successes, testutil.ToFloat64(metrics.trials.WithLabelValues("2", "success"))+
		testutil.ToFloat64(metrics.trials.WithLabelValues("3", "success"))+
		testutil.ToFloat64(metrics.trials.WithLabelValues("4", "success"))+
		testutil.ToFloat64(metrics.trials.WithLabelValues("5", "success")))
}

func TestRunner_SameOraclesForAnyWorkerCount(t *testing.T) {
	oracles := func(workers int) map[string]int {
		cfg := smallConfig()
		cfg.Workers = workers
		c := &Collector{}
		r, err := NewRunner(cfg, WithSink(c))
		require.NoError(t, err)
		_, err = r.Run(context.Background())
		require.NoError(t, err)
		seen := make(map[string]int)
		for _, tr := range c.Trials() {
			seen[tr.Oracle]++
		}
		return seen
	}
	assert.Equal(t, oracles(1), oracles(8))
}

func TestRunner_Strategies(t *testing.T) {
	for _, strategy := range []string{"circuit", "dense"} {
		cfg := smallConfig()
		cfg.Strategy = strategy
		cfg.Trials = 3
		r, err := NewRunner(cfg)
		require.NoError(t, err)
		report, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, strategy, report.Strategy)
		assert.Equal(t, 12, report.Trials())
	}
}

func TestRunner_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategy = "nope"
	_, err := NewRunner(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := NewRunner(smallConfig())
	require.NoError(t, err)
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Logs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	cfg := smallConfig()
	cfg.Trials = 2
	r, err := NewRunner(cfg, WithLogger(logger), WithSink(NewLogSink(logger)))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("benchmark starting").Len())
	assert.Equal(t, 4, logs.FilterMessage("qubit count finished").Len())
	finished := logs.FilterMessage("trial finished").All()
	require.Len(t, finished, 8)
	assert.Contains(t, finished[0].ContextMap(), "oracle")
}

func TestFileSink_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.jsonl")
	sink, err := OpenFileSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Record(Trial{RunID: "a", Qubits: 3, Oracle: "101", Answer: "101", Success: true, Iterations: 2, Elapsed: time.Millisecond}))
	require.NoError(t, sink.Record(Trial{RunID: "b", Qubits: 3, Oracle: "001", Answer: "011", Iterations: 2}))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0]["run_id"])
	assert.Equal(t, true, lines[0]["success"])
	assert.Equal(t, 0.001, lines[0]["elapsed"])
	assert.Equal(t, "011", lines[1]["answer"])
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	require.NoError(t, m.Record(Trial{Qubits: 4, Success: true, Elapsed: time.Microsecond}))
	require.NoError(t, m.Record(Trial{Qubits: 4, Elapsed: time.Microsecond}))

	path := filepath.Join(t.TempDir(), "qgrover.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `qgrover_trials_total{qubits="4",result="success"} 1`)
	assert.Contains(t, string(data), `qgrover_run_duration_seconds_count{qubits="4"} 2`)
}

func TestSummarize_Growth(t *testing.T) {
	trials := []Trial{
		{Qubits: 3, Elapsed: 10 * time.Millisecond, Success: true},
		{Qubits: 3, Elapsed: 30 * time.Millisecond},
		{Qubits: 4, Elapsed: 60 * time.Millisecond, Success: true},
		{Qubits: 4, Elapsed: 100 * time.Millisecond, Success: true},
	}
	got := summarize(trials)
	require.Len(t, got, 2)
	assert.Equal(t, 20*time.Millisecond, got[0].Mean)
	assert.Equal(t, 0.5, got[0].Rate)
	assert.Equal(t, 80*time.Millisecond, got[1].Mean)
	assert.Equal(t, 4.0, got[1].Growth)
	assert.Equal(t, 60*time.Millisecond, got[1].Min)
	assert.Equal(t, 100*time.Millisecond, got[1].Max)
}
