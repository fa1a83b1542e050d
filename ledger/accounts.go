package ledger

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/near/borsh-go"
)

var accountPrefix = []byte("acct:")

// accountKey returns the store key of the account with the given address.
func accountKey(key common.PublicKey) []byte {
	return append(append([]byte(nil), accountPrefix...), key.Bytes()...)
}

// accountRecord is the persisted form of tokenswap.Account.
type accountRecord struct {
	Lamports   uint64
	Owner      common.PublicKey
	Executable bool
	Data       []byte
}

// loadAccount reads an account. A missing account is returned as an empty
// account owned by the system program.
func loadAccount(db store.ReadOnlyKVStore, key common.PublicKey) (*tokenswap.Account, error) {
	raw, err := db.Get(accountKey(key))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get account %s: %s", key, err)
	}
	if raw == nil {
		return &tokenswap.Account{Owner: common.SystemProgramID}, nil
	}
	var rec accountRecord
	if err := borsh.Deserialize(&rec, raw); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "decode account %s: %s", key, err)
	}
	return &tokenswap.Account{
		Lamports:   rec.Lamports,
		Owner:      rec.Owner,
		Executable: rec.Executable,
		Data:       rec.Data,
	}, nil
}

// saveAccount writes an account. Accounts without lamports are removed.
func saveAccount(db store.SetDeleter, key common.PublicKey, acc *tokenswap.Account) error {
	if acc.Lamports == 0 {
		return db.Delete(accountKey(key))
	}
	raw, err := borsh.Serialize(accountRecord{
		Lamports:   acc.Lamports,
		Owner:      acc.Owner,
		Executable: acc.Executable,
		Data:       acc.Data,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "encode account %s: %s", key, err)
	}
	return db.Set(accountKey(key), raw)
}
