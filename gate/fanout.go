package gate

import "qgrover/register"

// Fanout returns n qubits in uniform superposition, the state H^⊗n|0…0⟩.
func Fanout(n int) (*register.Register, error) {
	return register.New(n)
}

// FanoutByGates builds the same state one Hadamard at a time.
// It exists to check Fanout and is O(n·2^n).
func FanoutByGates(n int) (*register.Register, error) {
	r, err := register.NewBasis(n, 0)
	if err != nil {
		return nil, err
	}
	for q := 0; q < n; q++ {
		if err := Hadamard(r, q); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Oracle marks the target basis state with a phase flip.
func Oracle(r *register.Register, target int) error {
	return r.PhaseFlip(target)
}

// Diffusion inverts every amplitude about the mean.
func Diffusion(r *register.Register) {
	r.Diffuse()
}
