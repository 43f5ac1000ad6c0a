package gate

import (
	"fmt"

	"qgrover/register"
)

// ApplyMatrix applies a 2^k × 2^k operator to the k listed qubits, leaving
// the rest of the register alone. qubits[0] is the most significant bit of
// the operator's own index, so ApplyMatrix(r, Kron(a, b), p, q) acts like a
// on p and b on q. The full 2^n operator is never built: the register is
// walked in blocks of 2^k amplitudes that differ only in the chosen bits.
func ApplyMatrix(r *register.Register, m *Matrix, qubits ...int) error {
	k := len(qubits)
	if k == 0 || m.dim != 1<<k {
		return fmt.Errorf("%w: %d×%d operator on %d qubits", ErrDimensionMismatch, m.dim, m.dim, k)
	}
	bits, err := masks(r, qubits...)
	if err != nil {
		return err
	}

	// offsets[s] is the basis-index pattern of sub-state s.
	offsets := make([]int, m.dim)
	all := 0
	for j, b := range bits {
		all |= b
		for s := range offsets {
			if s&(1<<(k-1-j)) != 0 {
				offsets[s] |= b
			}
		}
	}

	block := make([]complex128, m.dim)
	r.Transform(func(amps []complex128) {
		for base := range amps {
			if base&all != 0 {
				continue
			}
			for s, off := range offsets {
				block[s] = amps[base|off]
			}
			for s, off := range offsets {
				var acc complex128
				row := m.data[s*m.dim : (s+1)*m.dim]
				for t, x := range block {
					acc += row[t] * x
				}
				amps[base|off] = acc
			}
		}
	})
	return nil
}
