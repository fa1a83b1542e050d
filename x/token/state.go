package token

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// AccountLen is the size of the data of every token account.
const AccountLen = 32 + 32 + 8 + 1

// Token account states.
const (
	StateUninitialized uint8 = iota
	StateInitialized
)

// Account is the content of a token account.
type Account struct {
	Mint   common.PublicKey
	Owner  common.PublicKey
	Amount uint64
	State  uint8
}

// IsInitialized returns true if the account has been initialized.
func (a Account) IsInitialized() bool {
	return a.State == StateInitialized
}

// DecodeAccount decodes the data of an initialized token account.
func DecodeAccount(data []byte) (Account, error) {
	acc, err := decodeAccountUnchecked(data)
	if err != nil {
		return acc, err
	}
	if !acc.IsInitialized() {
		return acc, errors.Wrap(errors.ErrUninitializedAccount, "token account")
	}
	return acc, nil
}

func decodeAccountUnchecked(data []byte) (Account, error) {
	var acc Account
	if len(data) != AccountLen {
		return acc, errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(data))
	}
	if s := data[AccountLen-1]; s > StateInitialized {
		return acc, errors.Wrapf(errors.ErrInvalidAccountData, "token account state %d", s)
	}
	if err := borsh.Deserialize(&acc, data); err != nil {
		return acc, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return acc, nil
}

// EncodeAccount writes the token account into dst, which must be exactly
// AccountLen bytes long.
func EncodeAccount(acc Account, dst []byte) error {
	if len(dst) != AccountLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account of %d bytes", len(dst))
	}
	raw, err := borsh.Serialize(acc)
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	copy(dst, raw)
	return nil
}
