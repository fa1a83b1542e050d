package tokenswap

import (
	"bytes"

	"github.com/blocto/solana-go-sdk/common"
)

// Account is the state the ledger keeps for every address.
type Account struct {
	// Lamports is the native balance of the account. An account without
	// lamports is removed when the transaction commits.
	Lamports uint64
	// Owner is the program allowed to change Data and debit Lamports.
	Owner common.PublicKey
	// Executable marks program accounts.
	Executable bool
	// Data is the program defined content of the account.
	Data []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// Equals returns true if both accounts hold the same state.
func (a *Account) Equals(b *Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner == b.Owner &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

// AccountInfo is an account as seen by a program during a single
// instruction: its address, the privileges the instruction grants and the
// shared account state. Writes through the embedded Account are visible to
// every other AccountInfo for the same address within the transaction.
type AccountInfo struct {
	Key        common.PublicKey
	IsSigner   bool
	IsWritable bool
	*Account
}

// FindAccount returns the account info with the given key or nil.
func FindAccount(accounts []*AccountInfo, key common.PublicKey) *AccountInfo {
	for _, a := range accounts {
		if a.Key == key {
			return a
		}
	}
	return nil
}
