// Package register holds the joint state of an n-qubit register as a dense
// vector of 2^n complex amplitudes.
//
// Basis index i encodes the register as an n-bit pattern with qubit 0 in the
// most significant position, so the bitstring "10" is index 2 and its first
// character belongs to qubit 0.
package register

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// MaxQubits bounds the register size. 2^24 amplitudes already take 256 MiB.
const MaxQubits = 24

// Register is the amplitude store of one simulation run.
type Register struct {
	n    int
	amps []complex128
}

func validSize(n int) error {
	if n < 1 || n > MaxQubits {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidSize, n, MaxQubits)
	}
	return nil
}

// New returns an n-qubit register in uniform superposition.
//
// The shared amplitude is built as the n-fold product of 1/√2, which is what
// a Hadamard on every qubit of |0…0⟩ produces, so both constructions agree
// bit for bit.
func New(n int) (*Register, error) {
	if err := validSize(n); err != nil {
		return nil, err
	}
	amp := 1.0
	for k := 0; k < n; k++ {
		amp *= 1 / math.Sqrt2
	}
	size := 1 << n
	amps := make([]complex128, size)
	for i := range amps {
		amps[i] = complex(amp, 0)
	}
	return &Register{n: n, amps: amps}, nil
}

// NewBasis returns an n-qubit register in the basis state |index⟩.
func NewBasis(n, index int) (*Register, error) {
	if err := validSize(n); err != nil {
		return nil, err
	}
	size := 1 << n
	if index < 0 || index >= size {
		return nil, fmt.Errorf("%w: basis %d of %d", ErrIndexOutOfRange, index, size)
	}
	amps := make([]complex128, size)
	amps[index] = 1
	return &Register{n: n, amps: amps}, nil
}

// NumQubits returns n.
func (r *Register) NumQubits() int { return r.n }

// Len returns the number of basis states, 2^n.
func (r *Register) Len() int { return len(r.amps) }

// Clone returns an independent copy.
func (r *Register) Clone() *Register {
	amps := make([]complex128, len(r.amps))
	copy(amps, r.amps)
	return &Register{n: r.n, amps: amps}
}

func (r *Register) checkIndex(i int) error {
	if i < 0 || i >= len(r.amps) {
		return fmt.Errorf("%w: basis %d of %d", ErrIndexOutOfRange, i, len(r.amps))
	}
	return nil
}

// At returns the amplitude of basis state i.
func (r *Register) At(i int) (complex128, error) {
	if err := r.checkIndex(i); err != nil {
		return 0, err
	}
	return r.amps[i], nil
}

// Probability returns |a_i|².
func (r *Register) Probability(i int) (float64, error) {
	a, err := r.At(i)
	if err != nil {
		return 0, err
	}
	return sqAbs(a), nil
}

// Amplitudes returns a copy of the amplitude vector.
func (r *Register) Amplitudes() []complex128 {
	out := make([]complex128, len(r.amps))
	copy(out, r.amps)
	return out
}

// Range calls fn with every basis index and its amplitude, in index order,
// without copying the vector.
func (r *Register) Range(fn func(i int, a complex128)) {
	for i, a := range r.amps {
		fn(i, a)
	}
}

// Read hands the backing amplitude slice to fn for reading. fn must not
// modify or retain the slice.
func (r *Register) Read(fn func(amps []complex128)) {
	fn(r.amps)
}

// Norm returns Σ|a|², which stays at 1 for every reachable state.
func (r *Register) Norm() float64 {
	sum := 0.0
	for _, a := range r.amps {
		sum += sqAbs(a)
	}
	return sum
}

// PhaseFlip multiplies the amplitude of the target basis state by -1.
func (r *Register) PhaseFlip(target int) error {
	if err := r.checkIndex(target); err != nil {
		return err
	}
	r.amps[target] = -r.amps[target]
	return nil
}

// Diffuse reflects every amplitude about the mean: a ← 2μ − a.
// The mean is taken over the whole vector before any amplitude is rewritten.
func (r *Register) Diffuse() {
	var sum complex128
	for _, a := range r.amps {
		sum += a
	}
	twoMean := 2 * sum / complex(float64(len(r.amps)), 0)
	for i, a := range r.amps {
		r.amps[i] = twoMean - a
	}
}

// Transform hands the backing amplitude slice to fn for an in-place unitary
// update. fn must not retain the slice or change its length.
func (r *Register) Transform(fn func(amps []complex128)) {
	fn(r.amps)
}

// Mask returns the basis-index bit that holds qubit q.
func (r *Register) Mask(q int) (int, error) {
	if q < 0 || q >= r.n {
		return 0, fmt.Errorf("%w: qubit %d of %d", ErrIndexOutOfRange, q, r.n)
	}
	return 1 << (r.n - 1 - q), nil
}

// Label renders basis index i as an n-character bitstring, qubit 0 first.
func (r *Register) Label(i int) string {
	return Label(r.n, i)
}

// Label renders i as an n-character bitstring, most significant bit first.
func Label(n, i int) string {
	var sb strings.Builder
	sb.Grow(n)
	for q := 0; q < n; q++ {
		if i&(1<<(n-1-q)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// String lists every amplitude next to its basis label.
func (r *Register) String() string {
	var sb strings.Builder
	for i, a := range r.amps {
		fmt.Fprintf(&sb, "%+.4f%+.4fi\t|%s⟩\n", real(a), imag(a), r.Label(i))
	}
	return sb.String()
}

func sqAbs(a complex128) float64 {
	return real(a * cmplx.Conj(a))
}
