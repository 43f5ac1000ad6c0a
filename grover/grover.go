// Package grover runs Grover's amplitude amplification on a simulated
// register.
//
// A Driver is created for a qubit count, bound to a single target bitstring
// with DefineOracle, and then run. Each run starts from a fresh uniform
// superposition and performs K = max(1, ⌊π/4·√(2^n)⌋) rounds of oracle then
// diffusion. The returned register belongs to the caller.
//
//	d, _ := grover.New(3)
//	_ = d.DefineOracle("101")
//	r, _ := d.Run()
//	line, m, _ := grover.GetQubit(r, 0)
//
// A run whose read-out differs from the oracle is a normal result, not an
// error; for small registers the amplification is not exact.
package grover

import (
	"fmt"
	"math"

	"qgrover/gate"
	"qgrover/projector"
	"qgrover/register"
)

// Phase is the lifecycle state of a Driver.
type Phase int

const (
	Unbound Phase = iota
	Bound
	Iterating
	Done
)

func (p Phase) String() string {
	switch p {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	case Iterating:
		return "iterating"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Oracle is a bound search target.
type Oracle struct {
	Bits  string
	Index int
}

// ParseOracle validates bits against an n-qubit register.
func ParseOracle(n int, bits string) (Oracle, error) {
	if len(bits) != n {
		return Oracle{}, fmt.Errorf("%w: %q has %d bits, want %d", ErrInvalidOracle, bits, len(bits), n)
	}
	index := 0
	for i := 0; i < len(bits); i++ {
		index <<= 1
		switch bits[i] {
		case '0':
		case '1':
			index |= 1
		default:
			return Oracle{}, fmt.Errorf("%w: %q has %q at position %d", ErrInvalidOracle, bits, bits[i], i)
		}
	}
	return Oracle{Bits: bits, Index: index}, nil
}

// IterationCount returns max(1, ⌊π/4·√(2^n)⌋).
func IterationCount(n int) int {
	k := int(math.Floor(math.Pi / 4 * math.Sqrt(float64(int(1)<<n))))
	return max(1, k)
}

// Option configures a Driver.
type Option func(*Driver)

// WithAmplifier selects how oracle and diffusion are applied.
// The default is gate.Vector.
func WithAmplifier(a gate.Amplifier) Option {
	return func(d *Driver) {
		d.amp = a
	}
}

// Driver owns the lifecycle of Grover runs over n qubits.
// It is not safe for concurrent use.
type Driver struct {
	n          int
	oracle     Oracle
	iterations int
	phase      Phase
	round      int
	amp        gate.Amplifier
}

// New returns an unbound driver for n qubits.
func New(n int, opts ...Option) (*Driver, error) {
	if n < 1 || n > register.MaxQubits {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", register.ErrInvalidSize, n, register.MaxQubits)
	}
	d := &Driver{n: n, amp: gate.Vector{}}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NumQubits returns n.
func (d *Driver) NumQubits() int { return d.n }

// Phase returns the current lifecycle state.
func (d *Driver) Phase() Phase { return d.phase }

// Round returns the number of rounds performed by the current or last run.
func (d *Driver) Round() int { return d.round }

// Iterations returns K, or 0 while unbound.
func (d *Driver) Iterations() int { return d.iterations }

// Amplifier returns the strategy in use.
func (d *Driver) Amplifier() gate.Amplifier { return d.amp }

// Oracle returns the bound oracle.
func (d *Driver) Oracle() (Oracle, bool) {
	return d.oracle, d.phase != Unbound
}

// DefineOracle binds the search target. Binding again replaces the target
// for later runs.
func (d *Driver) DefineOracle(bits string) error {
	o, err := ParseOracle(d.n, bits)
	if err != nil {
		return err
	}
	d.oracle = o
	d.iterations = IterationCount(d.n)
	d.phase = Bound
	d.round = 0
	return nil
}

// Run performs the full K-round amplification on a fresh register.
func (d *Driver) Run() (*register.Register, error) {
	if d.phase == Unbound {
		return nil, ErrNotBound
	}
	return d.RunRounds(d.iterations)
}

// RunRounds is Run with an explicit round count, which may be zero or go
// past K.
func (d *Driver) RunRounds(rounds int) (*register.Register, error) {
	if d.phase == Unbound {
		return nil, ErrNotBound
	}
	if rounds < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRounds, rounds)
	}
	r, err := gate.Fanout(d.n)
	if err != nil {
		return nil, err
	}

	oracle := d.oracle
	d.phase = Iterating
	d.round = 0
	for d.round < rounds {
		if err := d.amp.Oracle(r, oracle.Index); err != nil {
			d.phase = Bound
			return nil, fmt.Errorf("round %d oracle: %w", d.round+1, err)
		}
		if err := d.amp.Diffuse(r); err != nil {
			d.phase = Bound
			return nil, fmt.Errorf("round %d diffusion: %w", d.round+1, err)
		}
		d.round++
	}
	d.phase = Done
	return r, nil
}

// GetQubit reads qubit index of r, returning the diagnostic line and the
// marginal it was built from.
func GetQubit(r *register.Register, index int) (string, projector.Marginal, error) {
	return projector.Describe(r, index)
}

// Answer reads every qubit of r, qubit 0 first.
func Answer(r *register.Register) string {
	return projector.Answer(r)
}
