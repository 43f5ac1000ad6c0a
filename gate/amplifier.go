package gate

import (
	"fmt"
	"sort"
	"sync"

	"qgrover/register"
)

// Amplifier performs the two halves of a Grover iteration.
type Amplifier interface {
	Name() string
	Oracle(r *register.Register, target int) error
	Diffuse(r *register.Register) error
}

// Vector is the default amplifier: an O(1) phase flip and an O(2^n)
// two-pass inversion about the mean.
type Vector struct{}

func (Vector) Name() string { return "vector" }

func (Vector) Oracle(r *register.Register, target int) error {
	return Oracle(r, target)
}

func (Vector) Diffuse(r *register.Register) error {
	Diffusion(r)
	return nil
}

// Circuit builds both operators from X, H and multi-controlled Z gates, the
// way they would be laid out on hardware. Each operator costs O(n·2^n).
type Circuit struct{}

func (Circuit) Name() string { return "circuit" }

// flipZeros applies X to every qubit whose bit in pattern is 0.
func flipZeros(r *register.Register, pattern int) error {
	n := r.NumQubits()
	for q := 0; q < n; q++ {
		if pattern&(1<<(n-1-q)) == 0 {
			if err := X(r, q); err != nil {
				return err
			}
		}
	}
	return nil
}

func allControlledZ(r *register.Register) error {
	n := r.NumQubits()
	controls := make([]int, 0, n-1)
	for q := 0; q < n-1; q++ {
		controls = append(controls, q)
	}
	return ControlledZ(r, n-1, controls...)
}

func (Circuit) Oracle(r *register.Register, target int) error {
	if _, err := r.At(target); err != nil {
		return err
	}
	if err := flipZeros(r, target); err != nil {
		return err
	}
	if err := allControlledZ(r); err != nil {
		return err
	}
	return flipZeros(r, target)
}

func (Circuit) Diffuse(r *register.Register) error {
	n := r.NumQubits()
	steps := []func() error{
		func() error { return eachQubit(n, func(q int) error { return Hadamard(r, q) }) },
		func() error { return flipZeros(r, 0) },
		func() error { return allControlledZ(r) },
		func() error { return flipZeros(r, 0) },
		func() error { return eachQubit(n, func(q int) error { return Hadamard(r, q) }) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	// H X MCZ X H is I − 2|s⟩⟨s|; negate to get 2|s⟩⟨s| − I.
	r.Transform(func(amps []complex128) {
		for i := range amps {
			amps[i] = -amps[i]
		}
	})
	return nil
}

func eachQubit(n int, fn func(q int) error) error {
	for q := 0; q < n; q++ {
		if err := fn(q); err != nil {
			return err
		}
	}
	return nil
}

// Dense multiplies the register by explicit 2^n × 2^n operators. Matrices
// are cached per size and target. It is the slow reference path: every
// application is O(4^n). The zero value is ready to use.
type Dense struct {
	mu    sync.Mutex
	cache map[denseKey]*Matrix
}

// denseKey identifies a cached operator; target is -1 for diffusion.
type denseKey struct {
	n, target int
}

// NewDense returns an empty dense amplifier.
func NewDense() *Dense {
	return &Dense{}
}

func (d *Dense) Name() string { return "dense" }

// operator returns the cached matrix for key, building it on first use.
func (d *Dense) operator(key denseKey, build func() (*Matrix, error)) (*Matrix, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.cache[key]; ok {
		return m, nil
	}
	m, err := build()
	if err != nil {
		return nil, err
	}
	if d.cache == nil {
		d.cache = make(map[denseKey]*Matrix)
	}
	d.cache[key] = m
	return m, nil
}

func (d *Dense) Oracle(r *register.Register, target int) error {
	n := r.NumQubits()
	m, err := d.operator(denseKey{n, target}, func() (*Matrix, error) {
		return OracleMatrix(n, target)
	})
	if err != nil {
		return err
	}
	return m.Apply(r)
}

func (d *Dense) Diffuse(r *register.Register) error {
	n := r.NumQubits()
	m, err := d.operator(denseKey{n, -1}, func() (*Matrix, error) {
		return DiffusionMatrix(n)
	})
	if err != nil {
		return err
	}
	return m.Apply(r)
}

var strategies = map[string]func() Amplifier{
	"vector":  func() Amplifier { return Vector{} },
	"circuit": func() Amplifier { return Circuit{} },
	"dense":   func() Amplifier { return NewDense() },
}

// ParseStrategy returns a fresh amplifier by name.
func ParseStrategy(name string) (Amplifier, error) {
	mk, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return mk(), nil
}

// Strategies lists the known amplifier names in order.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
