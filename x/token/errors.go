package token

import (
	"github.com/iov-one/tokenswap/errors"
)

// Error codes of the token program take 1100-1109.
var (
	ErrNotRentExempt             = errors.Register(1100, "token account is not rent exempt")
	ErrOwnerMismatch             = errors.Register(1101, "owner does not match")
	ErrMintMismatch              = errors.Register(1102, "account not associated with this mint")
	ErrNonNativeHasBalance       = errors.Register(1103, "non-native account can only be closed if its balance is zero")
	ErrAlreadyInUse              = errors.Register(1104, "account already in use")
	ErrAuthorityTypeNotSupported = errors.Register(1105, "account does not support specified authority type")
)
