package grover

import "errors"

var (
	// ErrInvalidOracle is returned for a target bitstring of the wrong
	// length or with characters other than '0' and '1'.
	ErrInvalidOracle = errors.New("grover: invalid oracle")

	// ErrNotBound is returned when a run is requested before DefineOracle.
	ErrNotBound = errors.New("grover: oracle not bound")

	// ErrInvalidRounds is returned by RunRounds for a negative round count.
	ErrInvalidRounds = errors.New("grover: invalid round count")
)
