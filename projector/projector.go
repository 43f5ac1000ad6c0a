// Package projector reduces a joint register state to per-qubit read-outs.
package projector

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"qgrover/register"
)

// Marginal is the probability of reading one qubit as 0 or 1.
type Marginal struct {
	Qubit int
	P0    float64
	P1    float64
	// Drift is how far the raw sums were from adding up to 1.
	Drift float64
}

// Bit is the deterministic read-out of the marginal.
func (m Marginal) Bit() byte { return Decide(m.P0, m.P1) }

func (m Marginal) String() string {
	return fmt.Sprintf("qubit %d: p0=%.4f p1=%.4f -> %c", m.Qubit, m.P0, m.P1, m.Bit())
}

// Decide returns '0' when p0 strictly outweighs p1 and '1' otherwise.
func Decide(p0, p1 float64) byte {
	if p0 > p1 {
		return '0'
	}
	return '1'
}

func reconcile(q int, s0, s1 float64) Marginal {
	total := s0 + s1
	m := Marginal{Qubit: q, Drift: math.Abs(total - 1)}
	if total == 0 {
		return m
	}
	m.P0 = s0 / total
	m.P1 = s1 / total
	return m
}

// Project computes the marginal of qubit q in one O(2^n) scan.
func Project(r *register.Register, q int) (Marginal, error) {
	bit, err := r.Mask(q)
	if err != nil {
		return Marginal{}, err
	}
	var s0, s1 float64
	r.Range(func(i int, a complex128) {
		p := real(a * cmplx.Conj(a))
		if i&bit != 0 {
			s1 += p
		} else {
			s0 += p
		}
	})
	return reconcile(q, s0, s1), nil
}

// sums accumulates, for every qubit, the |0⟩ and |1⟩ mass over amps, whose
// first element is basis index offset. Both sides are summed independently
// so reconcile can check them against each other.
func sums(n int, amps []complex128, offset int) (zeros, ones []float64) {
	zeros = make([]float64, n)
	ones = make([]float64, n)
	for k, a := range amps {
		p := real(a * cmplx.Conj(a))
		i := offset + k
		for q := 0; q < n; q++ {
			if i&(1<<(n-1-q)) != 0 {
				ones[q] += p
			} else {
				zeros[q] += p
			}
		}
	}
	return zeros, ones
}

func marginals(zeros, ones []float64) []Marginal {
	out := make([]Marginal, len(ones))
	for q := range out {
		out[q] = reconcile(q, zeros[q], ones[q])
	}
	return out
}

// ProjectAll computes every qubit's marginal in a single pass.
func ProjectAll(r *register.Register) []Marginal {
	var zeros, ones []float64
	r.Read(func(amps []complex128) {
		zeros, ones = sums(r.NumQubits(), amps, 0)
	})
	return marginals(zeros, ones)
}

// ProjectAllContext splits the pass over workers goroutines, each reading a
// disjoint chunk, and merges the partial sums once all have finished.
func ProjectAllContext(ctx context.Context, r *register.Register, workers int) ([]Marginal, error) {
	var (
		out []Marginal
		err error
	)
	r.Read(func(amps []complex128) {
		out, err = projectChunks(ctx, r.NumQubits(), amps, workers)
	})
	return out, err
}

func projectChunks(ctx context.Context, n int, amps []complex128, workers int) ([]Marginal, error) {
	workers = min(max(workers, 1), len(amps))
	chunk := (len(amps) + workers - 1) / workers

	partZeros := make([][]float64, workers)
	partOnes := make([][]float64, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(amps))
		if start >= end {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partZeros[w], partOnes[w] = sums(n, amps[start:end], start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zeros := make([]float64, n)
	ones := make([]float64, n)
	for w := range partOnes {
		for q := range partOnes[w] {
			zeros[q] += partZeros[w][q]
			ones[q] += partOnes[w][q]
		}
	}
	return marginals(zeros, ones), nil
}

// Describe returns the diagnostic line for qubit q with its marginal.
func Describe(r *register.Register, q int) (string, Marginal, error) {
	m, err := Project(r, q)
	if err != nil {
		return "", Marginal{}, err
	}
	return m.String(), m, nil
}

// Answer reads every qubit and joins the decided bits, qubit 0 first.
func Answer(r *register.Register) string {
	var sb strings.Builder
	for _, m := range ProjectAll(r) {
		sb.WriteByte(m.Bit())
	}
	return sb.String()
}

// BasisState is one entry of the joint distribution.
type BasisState struct {
	Index     int
	Label     string
	Amplitude complex128
	Prob      float64
	Phase     float64
	Hamming   int
}

// States lists basis states with probability above threshold, most likely
// first; ties keep index order.
func States(r *register.Register, threshold float64) []BasisState {
	var states []BasisState
	r.Range(func(i int, a complex128) {
		prob := real(a * cmplx.Conj(a))
		if prob <= threshold {
			return
		}
		states = append(states, BasisState{
			Index:     i,
			Label:     r.Label(i),
			Amplitude: a,
			Prob:      prob,
			Phase:     cmplx.Phase(a),
			Hamming:   bits.OnesCount(uint(i)),
		})
	})
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Prob > states[j].Prob
	})
	return states
}

// Top returns at most k of the most likely basis states.
func Top(r *register.Register, k int) []BasisState {
	states := States(r, 1e-10)
	if k >= 0 && len(states) > k {
		states = states[:k]
	}
	return states
}
