/*
Package rent implements the minimum balance rule of the ledger.

An account must hold enough lamports to pay for two years of storage of its
data plus a fixed per-account overhead to be exempt from rent. Programs use
the rule to refuse accounts that would not stay persisted.
*/
package rent

import (
	"math"

	"github.com/iov-one/tokenswap/errors"
)

const (
	// AccountStorageOverhead is the number of bytes charged for every
	// account on top of its data.
	AccountStorageOverhead = 128

	// DefaultLamportsPerByteYear is the storage price of one byte for a
	// year.
	DefaultLamportsPerByteYear uint64 = 3480

	// DefaultExemptionThreshold is the number of years an account must be
	// able to pay for to be exempt.
	DefaultExemptionThreshold = 2.0
)

// Rent is the rent configuration of the ledger.
type Rent struct {
	LamportsPerByteYear uint64  `yaml:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `yaml:"exemption_threshold"`
}

// Default returns the rent configuration used when nothing else is
// configured.
func Default() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}
}

// Validate returns an error if the configuration cannot be used.
func (r Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "lamports per byte year must be positive")
	}
	if r.ExemptionThreshold <= 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		return errors.Wrapf(errors.ErrInvalidInput, "exemption threshold %v", r.ExemptionThreshold)
	}
	return nil
}

// MinimumBalance returns the lamports an account with dataLen bytes of data
// must hold to be rent exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt returns true if an account holding the given lamports and
// dataLen bytes of data is exempt from paying rent.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}
