package escrow

import (
	"github.com/iov-one/tokenswap/errors"
)

// Error codes of the escrow program take 1000-1009.
var (
	ErrInvalidInstruction   = errors.Register(1000, "invalid instruction")
	ErrNotRentExempt        = errors.Register(1001, "not rent exempt")
	ErrEscrowAmountMismatch = errors.Register(1002, "expected amount mismatch")
	ErrAmountOverflow       = errors.Register(1003, "amount overflow")
)
