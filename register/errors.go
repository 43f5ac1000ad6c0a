package register

import "errors"

var (
	// ErrInvalidSize is returned when a register is requested with fewer than
	// one qubit or more than MaxQubits.
	ErrInvalidSize = errors.New("register: invalid qubit count")

	// ErrIndexOutOfRange is returned for a basis or qubit index outside the
	// register. Indexes are never wrapped or clamped.
	ErrIndexOutOfRange = errors.New("register: index out of range")
)
