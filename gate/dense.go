package gate

import (
	"fmt"
	"math"

	"qgrover/register"
)

// MaxDenseQubits bounds the dense operators: at n qubits a matrix holds 4^n
// complex entries.
const MaxDenseQubits = 10

// Matrix is a square complex matrix stored row-major.
type Matrix struct {
	dim  int
	data []complex128
}

// NewMatrix returns a dim×dim zero matrix.
func NewMatrix(dim int) *Matrix {
	return &Matrix{dim: dim, data: make([]complex128, dim*dim)}
}

// Identity returns I of size dim.
func Identity(dim int) *Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.data[i*dim+i] = 1
	}
	return m
}

// HadamardMatrix returns the single-qubit H.
func HadamardMatrix() *Matrix {
	h := complex(1.0/math.Sqrt2, 0)
	return &Matrix{dim: 2, data: []complex128{h, h, h, -h}}
}

// Dim returns the side length.
func (m *Matrix) Dim() int { return m.dim }

// At returns entry (i, j).
func (m *Matrix) At(i, j int) complex128 { return m.data[i*m.dim+j] }

// Set writes entry (i, j).
func (m *Matrix) Set(i, j int, v complex128) { m.data[i*m.dim+j] = v }

// Kron returns the tensor product a ⊗ b. The left operand acts on the more
// significant qubits.
func Kron(a, b *Matrix) *Matrix {
	out := NewMatrix(a.dim * b.dim)
	for ai := 0; ai < a.dim; ai++ {
		for aj := 0; aj < a.dim; aj++ {
			av := a.At(ai, aj)
			if av == 0 {
				continue
			}
			for bi := 0; bi < b.dim; bi++ {
				for bj := 0; bj < b.dim; bj++ {
					out.Set(ai*b.dim+bi, aj*b.dim+bj, av*b.At(bi, bj))
				}
			}
		}
	}
	return out
}

// Power returns m ⊗ m ⊗ … ⊗ m with k factors. k == 0 is the empty
// product, the 1×1 identity.
func Power(m *Matrix, k int) (*Matrix, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativePower, k)
	}
	out := Identity(1)
	for i := 0; i < k; i++ {
		out = Kron(out, m)
	}
	return out, nil
}

// Mul returns the matrix product a·b.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.dim != b.dim {
		return nil, fmt.Errorf("%w: %d×%d · %d×%d", ErrDimensionMismatch, a.dim, a.dim, b.dim, b.dim)
	}
	d := a.dim
	out := NewMatrix(d)
	for i := 0; i < d; i++ {
		for k := 0; k < d; k++ {
			av := a.data[i*d+k]
			if av == 0 {
				continue
			}
			for j := 0; j < d; j++ {
				out.data[i*d+j] += av * b.data[k*d+j]
			}
		}
	}
	return out, nil
}

// Apply replaces the register state x with m·x.
func (m *Matrix) Apply(r *register.Register) error {
	if m.dim != r.Len() {
		return fmt.Errorf("%w: %d×%d operator on %d amplitudes", ErrDimensionMismatch, m.dim, m.dim, r.Len())
	}
	r.Transform(func(amps []complex128) {
		out := make([]complex128, len(amps))
		for i := 0; i < m.dim; i++ {
			var acc complex128
			row := m.data[i*m.dim : (i+1)*m.dim]
			for j, x := range amps {
				acc += row[j] * x
			}
			out[i] = acc
		}
		copy(amps, out)
	})
	return nil
}

func checkDense(n int) error {
	if n < 1 || n > MaxDenseQubits {
		return fmt.Errorf("%w: %d qubits (max %d)", ErrTooLarge, n, MaxDenseQubits)
	}
	return nil
}

// OracleMatrix returns the diagonal operator that negates |target⟩.
func OracleMatrix(n, target int) (*Matrix, error) {
	if err := checkDense(n); err != nil {
		return nil, err
	}
	dim := 1 << n
	if target < 0 || target >= dim {
		return nil, fmt.Errorf("%w: basis %d of %d", register.ErrIndexOutOfRange, target, dim)
	}
	m := Identity(dim)
	m.Set(target, target, -1)
	return m, nil
}

// DiffusionMatrix returns 2|s⟩⟨s| − I for the uniform state |s⟩, written out
// entry by entry as 2/N − δ_ij.
func DiffusionMatrix(n int) (*Matrix, error) {
	if err := checkDense(n); err != nil {
		return nil, err
	}
	dim := 1 << n
	off := complex(2/float64(dim), 0)
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			m.data[i*dim+j] = off
		}
		m.data[i*dim+i] = off - 1
	}
	return m, nil
}
