package gate

import "errors"

var (
	// ErrDuplicateQubit is returned when a multi-qubit gate names the same
	// qubit twice.
	ErrDuplicateQubit = errors.New("gate: duplicate qubit operand")

	// ErrTooLarge is returned when a dense operator is requested for a
	// register above MaxDenseQubits.
	ErrTooLarge = errors.New("gate: register too large for dense operators")

	// ErrDimensionMismatch is returned when matrix or vector shapes disagree.
	ErrDimensionMismatch = errors.New("gate: dimension mismatch")

	// ErrNegativePower is returned by Power for k < 0.
	ErrNegativePower = errors.New("gate: negative tensor power")

	// ErrUnknownStrategy is returned by ParseStrategy.
	ErrUnknownStrategy = errors.New("gate: unknown amplifier strategy")
)
