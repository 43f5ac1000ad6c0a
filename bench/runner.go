package bench

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qgrover/config"
	"qgrover/gate"
	"qgrover/grover"
)

// Summary aggregates the trials of one qubit count.
type Summary struct {
	Qubits     int
	Iterations int
	Trials     int
	Successes  int
	Rate       float64
	Mean       time.Duration
	Min        time.Duration
	Max        time.Duration
	// Growth is Mean divided by the previous qubit count's Mean, 0 for the
	// first row.
	Growth float64
}

// Report is the result of a whole benchmark.
type Report struct {
	Strategy  string
	Summaries []Summary
	Elapsed   time.Duration
}

// Trials returns the number of runs in the report.
func (r Report) Trials() int {
	total := 0
	for _, s := range r.Summaries {
		total += s.Trials
	}
	return total
}

// Runner executes the benchmark described by a BenchConfig.
type Runner struct {
	cfg    config.BenchConfig
	amp    gate.Amplifier
	logger *zap.Logger
	sink   Sink
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the progress logger.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithSink sets where finished trials go.
func WithSink(s Sink) RunnerOption {
	return func(r *Runner) { r.sink = s }
}

// NewRunner validates cfg and prepares the amplifier it names.
func NewRunner(cfg config.BenchConfig, opts ...RunnerOption) (*Runner, error) {
	full := config.Default()
	full.Bench = cfg
	if err := full.Validate(); err != nil {
		return nil, err
	}
	amp, err := gate.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:    cfg,
		amp:    amp,
		logger: zap.NewNop(),
		sink:   &Collector{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type job struct {
	qubits int
	oracle string
}

// Run executes every trial and aggregates them per qubit count. Oracles are
// drawn up front from the seeded source, so a given config always tests the
// same targets whatever the worker count.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(r.cfg.Seed))

	var jobs []job
	for n := r.cfg.MinQubits; n <= r.cfg.MaxQubits; n++ {
		for i := 0; i < r.cfg.Trials; i++ {
			jobs = append(jobs, job{qubits: n, oracle: RandomOracle(rng, n)})
		}
	}
	r.logger.Info("benchmark starting",
		zap.Int("min_qubits", r.cfg.MinQubits),
		zap.Int("max_qubits", r.cfg.MaxQubits),
		zap.Int("trials", len(jobs)),
		zap.String("strategy", r.amp.Name()),
		zap.Int("workers", r.cfg.Workers),
	)

	results := make([]Trial, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := r.trial(j)
			if err != nil {
				return err
			}
			results[i] = t
			if err := r.sink.Record(t); err != nil {
				return fmt.Errorf("record trial %s: %w", t.RunID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Strategy:  r.amp.Name(),
		Summaries: summarize(results),
		Elapsed:   time.Since(start),
	}
	for _, s := range report.Summaries {
		r.logger.Info("qubit count finished",
			zap.Int("qubits", s.Qubits),
			zap.Int("successes", s.Successes),
			zap.Int("trials", s.Trials),
			zap.Duration("mean", s.Mean),
			zap.Float64("growth", s.Growth),
		)
	}
	return report, nil
}

func (r *Runner) trial(j job) (Trial, error) {
	d, err := grover.New(j.qubits, grover.WithAmplifier(r.amp))
	if err != nil {
		return Trial{}, err
	}
	if err := d.DefineOracle(j.oracle); err != nil {
		return Trial{}, err
	}
	o, _ := d.Oracle()

	began := time.Now()
	reg, err := d.Run()
	elapsed := time.Since(began)
	if err != nil {
		return Trial{}, err
	}

	answer := grover.Answer(reg)
	p, err := reg.Probability(o.Index)
	if err != nil {
		return Trial{}, err
	}
	return Trial{
		RunID:             uuid.NewString(),
		Qubits:            j.qubits,
		Oracle:            j.oracle,
		Answer:            answer,
		Success:           answer == j.oracle,
		Iterations:        d.Iterations(),
		TargetProbability: p,
		Elapsed:           elapsed,
		Strategy:          r.amp.Name(),
	}, nil
}

// summarize groups trials by qubit count; trials arrive ordered by count.
func summarize(trials []Trial) []Summary {
	var out []Summary
	for _, t := range trials {
		if len(out) == 0 || out[len(out)-1].Qubits != t.Qubits {
			out = append(out, Summary{Qubits: t.Qubits, Iterations: t.Iterations, Min: t.Elapsed})
		}
		s := &out[len(out)-1]
		s.Trials++
		if t.Success {
			s.Successes++
		}
		s.Mean += t.Elapsed
		s.Min = min(s.Min, t.Elapsed)
		s.Max = max(s.Max, t.Elapsed)
	}
	for i := range out {
		s := &out[i]
		s.Rate = float64(s.Successes) / float64(s.Trials)
		s.Mean /= time.Duration(s.Trials)
		if i > 0 && out[i-1].Mean > 0 {
			s.Growth = float64(s.Mean) / float64(out[i-1].Mean)
		}
	}
	return out
}
