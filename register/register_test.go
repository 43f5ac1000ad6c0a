package register

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestNew_UniformSuperposition(t *testing.T) {
	for n := 1; n <= 10; n++ {
		r, err := New(n)
		require.NoError(t, err)
		require.Equal(t, n, r.NumQubits())
		require.Equal(t, 1<<n, r.Len())

		want := 1 / math.Sqrt(float64(int(1)<<n))
		for i := 0; i < r.Len(); i++ {
			a, err := r.At(i)
			require.NoError(t, err)
			assert.InDelta(t, want, real(a), 1e-15)
			assert.Zero(t, imag(a))
		}
		assert.InDelta(t, 1.0, r.Norm(), tolerance)
	}
}

func TestNew_InvalidSize(t *testing.T) {
	for _, n := range []int{-3, 0, MaxQubits + 1} {
		r, err := New(n)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrInvalidSize, "n=%d", n)
	}
}

func TestNewBasis(t *testing.T) {
	r, err := NewBasis(3, 5)
	require.NoError(t, err)
	for i := 0; i < r.Len(); i++ {
		p, err := r.Probability(i)
		require.NoError(t, err)
		if i == 5 {
			assert.Equal(t, 1.0, p)
		} else {
			assert.Zero(t, p)
		}
	}

	_, err = NewBasis(3, 8)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = NewBasis(0, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestAt_OutOfRange(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)
	for _, i := range []int{-1, 8, 100} {
		_, err := r.At(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "i=%d", i)
	}
}

func TestPhaseFlip_TouchesOnlyTarget(t *testing.T) {
	r, err := New(4)
	require.NoError(t, err)
	r.Diffuse()
	require.NoError(t, r.PhaseFlip(3))
	r.Diffuse()

	before := r.Amplitudes()
	require.NoError(t, r.PhaseFlip(11))
	after := r.Amplitudes()

	for i := range before {
		if i == 11 {
			assert.Equal(t, -before[i], after[i])
			continue
		}
		assert.Equal(t, before[i], after[i], "amplitude %d changed", i)
	}
}

func TestPhaseFlip_OutOfRange(t *testing.T) {
	r, err := New(2)
	require.NoError(t, err)
	before := r.Amplitudes()
	assert.ErrorIs(t, r.PhaseFlip(4), ErrIndexOutOfRange)
	assert.ErrorIs(t, r.PhaseFlip(-1), ErrIndexOutOfRange)
	assert.Equal(t, before, r.Amplitudes())
}

func TestDiffuse_UniformIsFixedPoint(t *testing.T) {
	for n := 1; n <= 12; n++ {
		r, err := New(n)
		require.NoError(t, err)
		before := r.Amplitudes()
		r.Diffuse()
		for i, a := range r.Amplitudes() {
			assert.InDelta(t, real(before[i]), real(a), 1e-12)
			assert.InDelta(t, 0, imag(a), 1e-12)
		}
	}
}

func TestDiffuse_InvertsAboutMean(t *testing.T) {
	r, err := New(2)
	require.NoError(t, err)
	require.NoError(t, r.PhaseFlip(2))
	r.Diffuse()

	// mean of (½, ½, -½, ½) is ¼, so 2μ−a leaves the marked state at 1.
	for i := 0; i < r.Len(); i++ {
		a, _ := r.At(i)
		want := 0.0
		if i == 2 {
			want = 1.0
		}
		assert.InDelta(t, want, real(a), 1e-12, "basis %d", i)
	}
}

func TestNormalization_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 1; n <= 10; n++ {
		r, err := New(n)
		require.NoError(t, err)
		for step := 0; step < 64; step++ {
			if rng.Intn(2) == 0 {
				require.NoError(t, r.PhaseFlip(rng.Intn(r.Len())))
			} else {
				r.Diffuse()
			}
			require.InDelta(t, 1.0, r.Norm(), tolerance, "n=%d step=%d", n, step)
		}
	}
}

func TestMaskAndLabel(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)

	m, err := r.Mask(0)
	require.NoError(t, err)
	assert.Equal(t, 4, m)
	m, err = r.Mask(2)
	require.NoError(t, err)
	assert.Equal(t, 1, m)

	_, err = r.Mask(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Equal(t, "110", r.Label(6))
	assert.Equal(t, "001", Label(3, 1))
	assert.Equal(t, "10", Label(2, 2))
}

func TestClone_IsIndependent(t *testing.T) {
	r, err := New(2)
	require.NoError(t, err)
	c := r.Clone()
	require.NoError(t, c.PhaseFlip(0))

	a, _ := r.At(0)
	b, _ := c.At(0)
	assert.Equal(t, -a, b)
}

func TestTransform(t *testing.T) {
	r, err := NewBasis(1, 0)
	require.NoError(t, err)
	r.Transform(func(amps []complex128) {
		amps[0], amps[1] = amps[1], amps[0]
	})
	p, _ := r.Probability(1)
	assert.Equal(t, 1.0, p)
}

func TestString(t *testing.T) {
	r, err := NewBasis(2, 1)
	require.NoError(t, err)
	assert.Contains(t, r.String(), "+1.0000+0.0000i\t|01⟩")
}

func TestRangeAndRead_SeeLiveState(t *testing.T) {
	r, err := NewBasis(3, 5)
	require.NoError(t, err)
	require.NoError(t, r.PhaseFlip(5))

	var visited []int
	r.Range(func(i int, a complex128) {
		visited = append(visited, i)
		if i == 5 {
			assert.Equal(t, complex(-1, 0), a)
		} else {
			assert.Equal(t, complex(0, 0), a)
		}
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, visited)

	r.Read(func(amps []complex128) {
		assert.Len(t, amps, 8)
		assert.Equal(t, complex(-1, 0), amps[5])
	})
}
