// Package gate applies unitary operators to a register.
//
// Every operator works on the amplitude vector directly: permutation gates
// walk the index pairs that differ only in the target bit, phase gates touch
// the indices whose bits match, and ApplyMatrix runs a small 2^k operator
// over the chosen qubits. No 2^n × 2^n matrix is ever built here; the dense
// forms live in dense.go as a reference.
package gate

import (
	"fmt"
	"math"
	"math/cmplx"

	"qgrover/register"
)

func masks(r *register.Register, qubits ...int) ([]int, error) {
	out := make([]int, len(qubits))
	seen := 0
	for i, q := range qubits {
		m, err := r.Mask(q)
		if err != nil {
			return nil, err
		}
		if seen&m != 0 {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateQubit, q)
		}
		seen |= m
		out[i] = m
	}
	return out, nil
}

var hadamard = HadamardMatrix()

// Hadamard applies H to qubit q.
func Hadamard(r *register.Register, q int) error {
	return ApplyMatrix(r, hadamard, q)
}

// X applies the Pauli-X (NOT) gate to qubit q.
func X(r *register.Register, q int) error {
	m, err := masks(r, q)
	if err != nil {
		return err
	}
	bit := m[0]
	r.Transform(func(amps []complex128) {
		for i := range amps {
			if i&bit == 0 {
				j := i | bit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	})
	return nil
}

// Z applies the Pauli-Z gate to qubit q.
func Z(r *register.Register, q int) error {
	return Phase(r, q, math.Pi)
}

// Phase multiplies the |1⟩ component of qubit q by e^{iφ}.
func Phase(r *register.Register, q int, phi float64) error {
	m, err := masks(r, q)
	if err != nil {
		return err
	}
	bit := m[0]
	factor := cmplx.Exp(complex(0, phi))
	if phi == math.Pi {
		// exact sign flip instead of e^{iπ} = -1 + 1.2e-16i
		factor = -1
	}
	r.Transform(func(amps []complex128) {
		for i := range amps {
			if i&bit != 0 {
				amps[i] *= factor
			}
		}
	})
	return nil
}

// CNOT flips target where control is 1.
func CNOT(r *register.Register, control, target int) error {
	m, err := masks(r, control, target)
	if err != nil {
		return err
	}
	cBit, tBit := m[0], m[1]
	r.Transform(func(amps []complex128) {
		for i := range amps {
			if i&cBit != 0 && i&tBit == 0 {
				j := i | tBit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	})
	return nil
}

// CCNOT (Toffoli) flips target where both controls are 1.
func CCNOT(r *register.Register, c1, c2, target int) error {
	m, err := masks(r, c1, c2, target)
	if err != nil {
		return err
	}
	cBits, tBit := m[0]|m[1], m[2]
	r.Transform(func(amps []complex128) {
		for i := range amps {
			if i&cBits == cBits && i&tBit == 0 {
				j := i | tBit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	})
	return nil
}

// SWAP exchanges qubits q1 and q2.
func SWAP(r *register.Register, q1, q2 int) error {
	m, err := masks(r, q1, q2)
	if err != nil {
		return err
	}
	bit1, bit2 := m[0], m[1]
	r.Transform(func(amps []complex128) {
		for i := range amps {
			if i&bit1 != 0 && i&bit2 == 0 {
				j := (i &^ bit1) | bit2
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	})
	return nil
}

// ControlledZ negates every amplitude whose controls and target are all 1.
// With no controls it is a plain Z on target.
func ControlledZ(r *register.Register, target int, controls ...int) error {
	m, err := masks(r, append([]int{target}, controls...)...)
	if err != nil {
		return err
	}
	all := 0
	for _, b := range m {
		all |= b
	}
	r.Transform(func(amps []complex128) {
		for i := range amps {
			if i&all == all {
				amps[i] = -amps[i]
			}
		}
	})
	return nil
}
