package escrow

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// EscrowLen is the size of the data of an escrow record account.
const EscrowLen = 1 + 32 + 32 + 32 + 8

// Escrow is the record of an open escrow. It is written once by InitEscrow
// and destroyed by Exchange.
type Escrow struct {
	IsInitialized                          bool
	InitializerPubkey                      common.PublicKey
	TempTokenAccountPubkey                 common.PublicKey
	InitializerTokenToReceiveAccountPubkey common.PublicKey
	// ExpectedAmount is the number of tokens the initializer receives.
	ExpectedAmount uint64
}

// UnpackUnchecked decodes a record without requiring it to be initialized.
// An all zero buffer decodes to the zero Escrow.
func UnpackUnchecked(buf []byte) (Escrow, error) {
	var e Escrow
	if len(buf) != EscrowLen {
		return e, errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(buf))
	}
	if buf[0] > 1 {
		return e, errors.Wrapf(errors.ErrInvalidAccountData, "initialized flag %d", buf[0])
	}
	if err := borsh.Deserialize(&e, buf); err != nil {
		return e, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return e, nil
}

// Unpack decodes an initialized record.
func Unpack(buf []byte) (Escrow, error) {
	e, err := UnpackUnchecked(buf)
	if err != nil {
		return e, err
	}
	if !e.IsInitialized {
		return e, errors.Wrap(errors.ErrUninitializedAccount, "escrow record")
	}
	return e, nil
}

// Pack encodes the record into buf, which must be exactly EscrowLen bytes.
func Pack(e Escrow, buf []byte) error {
	if len(buf) != EscrowLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow record of %d bytes", len(buf))
	}
	raw, err := borsh.Serialize(e)
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	copy(buf, raw)
	return nil
}
