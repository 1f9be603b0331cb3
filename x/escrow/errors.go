package escrow

import "github.com/iov-one/tokenswap/errors"

// Namespace owns the custom error codes of the escrow program.
const Namespace = "escrow"

// Custom error codes of the escrow program. Clients decode failed
// transactions using these numbers, never renumber an existing entry.
var (
	ErrInvalidInstruction     = errors.RegisterCustom(Namespace, 0, "invalid instruction")
	ErrExpectedAmountMismatch = errors.RegisterCustom(Namespace, 1, "expected amount mismatch")
	ErrAmountOverflow         = errors.RegisterCustom(Namespace, 2, "amount overflow")
)
