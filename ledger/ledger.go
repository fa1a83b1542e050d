/*
Package ledger implements the host runtime programs are executed in.

The ledger keeps accounts in a store, verifies transaction signatures and
runs the instructions of a transaction one after another. All writes of a
transaction, including those of cross-program invocations, happen in a single
cache-wrap of the store: either the whole transaction commits or nothing of
it is kept.

After every instruction, and every cross-program invocation, the ledger checks
the account rules every program is bound to:

  - the lamport sum of the accounts is unchanged,
  - read-only accounts are unchanged,
  - only the owner program changes the data of an account or debits it,
  - the owner is only reassigned by the current owner of an empty account.
*/
package ledger

import (
	"context"
	"sync"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/mr-tron/base58"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// Ledger executes transactions against a set of accounts.
//
// Transactions are processed one at a time.
type Ledger struct {
	mu       sync.Mutex
	cfg      Config
	db       store.CacheableKVStore
	programs map[common.PublicKey]tokenswap.Program
	logger   log.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for transaction processing.
func WithLogger(logger log.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithProgram deploys a program at the given address.
func WithProgram(id common.PublicKey, p tokenswap.Program) Option {
	return func(l *Ledger) {
		l.programs[id] = p
	}
}

// New returns a ledger keeping its accounts in db. The system program is
// always deployed.
func New(cfg Config, db store.CacheableKVStore, opts ...Option) *Ledger {
	l := &Ledger{
		cfg:      cfg,
		db:       db,
		programs: make(map[common.PublicKey]tokenswap.Program),
		logger:   tokenswap.DefaultLogger,
	}
	l.programs[common.SystemProgramID] = SystemProgram{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Deploy makes a program available at the given address.
func (l *Ledger) Deploy(id common.PublicKey, p tokenswap.Program) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.programs[id] = p
}

// Account returns a copy of the account stored under key. A missing account
// is returned as an empty account owned by the system program.
func (l *Ledger) Account(key common.PublicKey) (tokenswap.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, err := loadAccount(l.db, key)
	if err != nil {
		return tokenswap.Account{}, err
	}
	return *acc, nil
}

// Exists returns true if an account is stored under key.
func (l *Ledger) Exists(key common.PublicKey) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ok, err := l.db.Has(accountKey(key))
	return ok, errors.Wrap(err, "has account")
}

// Balance returns the lamports held by the account.
func (l *Ledger) Balance(key common.PublicKey) (uint64, error) {
	acc, err := l.Account(key)
	return acc.Lamports, err
}

// SetAccount overwrites the account stored under key. It is meant to build
// the initial state of the ledger.
func (l *Ledger) SetAccount(key common.PublicKey, acc tokenswap.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return saveAccount(l.db, key, &acc)
}

// Airdrop credits lamports to an account, creating it if needed.
func (l *Ledger) Airdrop(key common.PublicKey, lamports uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, err := loadAccount(l.db, key)
	if err != nil {
		return err
	}
	if acc.Lamports+lamports < acc.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "airdrop to %s", key)
	}
	acc.Lamports += lamports
	return saveAccount(l.db, key, acc)
}

// Rent returns the minimum balance rule of the ledger.
func (l *Ledger) Rent() tokenswap.RentOracle {
	return l.cfg.Rent
}

// Execute verifies the signatures of the transaction and runs all of its
// instructions. Either all changes are committed or none.
func (l *Ledger) Execute(ctx context.Context, tx types.Transaction) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := tx.Message.Serialize()
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "serialize message: %s", err)
	}
	if err := verifySignatures(tx, raw); err != nil {
		return err
	}

	ctx = tokenswap.WithLogger(ctx, l.logger)
	ctx = tokenswap.WithLogInfo(ctx, "tx", base58.Encode(tx.Signatures[0]))
	logger := tokenswap.GetLogger(ctx)
	logger.Debug("Executing transaction", "instructions", len(tx.Message.Instructions))

	cache := l.db.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
			logger.Error("Transaction rolled back", "err", err)
		}
	}()
	defer errors.Recover(&err)

	tc := newTxContext(l, cache)
	for i, ix := range tx.Message.DecompileInstructions() {
		if err := tc.processInstruction(ctx, ix); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	if err := tc.commit(); err != nil {
		return err
	}
	writes := cache.Pending()
	if err := cache.Write(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write: %s", err)
	}
	logger.Info("Transaction committed", "accounts", len(tc.order), "writes", writes)
	return nil
}

// verifySignatures checks that every required signer signed the serialized
// message.
func verifySignatures(tx types.Transaction, raw []byte) error {
	want := int(tx.Message.Header.NumRequireSignatures)
	if want == 0 {
		return errors.Wrap(errors.ErrMissingRequiredSignature, "fee payer")
	}
	if len(tx.Signatures) != want {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "want %d signatures, got %d", want, len(tx.Signatures))
	}
	if len(tx.Message.Accounts) < want {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "%d signers but only %d accounts", want, len(tx.Message.Accounts))
	}
	for i := 0; i < want; i++ {
		pub := ed25519.PublicKey(tx.Message.Accounts[i].Bytes())
		if !ed25519.Verify(pub, raw, tx.Signatures[i]) {
			return errors.Wrapf(errors.ErrInvalidSignature, "signer %s", tx.Message.Accounts[i])
		}
	}
	return nil
}
