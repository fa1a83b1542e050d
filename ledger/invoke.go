package ledger

import (
	"bytes"
	"context"
	"math/bits"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
)

// txContext holds the accounts loaded by a single transaction. Every frame
// shares the same account instances so that writes of a callee are visible
// to its caller.
type txContext struct {
	ledger   *Ledger
	db       store.KVStore
	accounts map[common.PublicKey]*tokenswap.Account
	orig     map[common.PublicKey]*tokenswap.Account
	order    []common.PublicKey
}

func newTxContext(l *Ledger, db store.KVStore) *txContext {
	return &txContext{
		ledger:   l,
		db:       db,
		accounts: make(map[common.PublicKey]*tokenswap.Account),
		orig:     make(map[common.PublicKey]*tokenswap.Account),
	}
}

// account returns the shared instance of an account, loading it on first
// use.
func (tc *txContext) account(key common.PublicKey) (*tokenswap.Account, error) {
	if acc, ok := tc.accounts[key]; ok {
		return acc, nil
	}
	acc, err := loadAccount(tc.db, key)
	if err != nil {
		return nil, err
	}
	tc.accounts[key] = acc
	tc.orig[key] = acc.Clone()
	tc.order = append(tc.order, key)
	return acc, nil
}

// processInstruction runs a top level instruction. Privileges are those
// granted by the transaction message.
func (tc *txContext) processInstruction(ctx context.Context, ix types.Instruction) error {
	infos := make([]*tokenswap.AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		acc, err := tc.account(meta.PubKey)
		if err != nil {
			return err
		}
		infos = append(infos, &tokenswap.AccountInfo{
			Key:        meta.PubKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    acc,
		})
	}
	return tc.call(ctx, 1, ix, infos)
}

// call executes a program in a new frame and verifies the account rules
// once it returns.
func (tc *txContext) call(ctx context.Context, depth int, ix types.Instruction, infos []*tokenswap.AccountInfo) error {
	if depth > tc.ledger.cfg.MaxInvokeDepth {
		return errors.Wrapf(errors.ErrCallDepth, "depth %d", depth)
	}
	program, ok := tc.ledger.programs[ix.ProgramID]
	if !ok {
		return errors.Wrapf(errors.ErrUnsupportedProgramID, "program %s", ix.ProgramID)
	}

	f := newFrame(tc, ix.ProgramID, depth, infos)
	ctx = tokenswap.WithLogInfo(ctx, "program", ix.ProgramID.String())
	if err := program.Process(ctx, f, ix.ProgramID, infos, ix.Data); err != nil {
		return err
	}
	return f.verify()
}

// commit writes every account the transaction changed.
func (tc *txContext) commit() error {
	for _, key := range tc.order {
		acc := tc.accounts[key]
		if acc.Equals(tc.orig[key]) {
			continue
		}
		if err := saveAccount(tc.db, key, acc); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "save %s: %s", key, err)
		}
	}
	return nil
}

// frame is a single program invocation. It implements tokenswap.Env for the
// running program.
type frame struct {
	tc        *txContext
	programID common.PublicKey
	depth     int
	keys      []common.PublicKey
	pre       map[common.PublicKey]*tokenswap.Account
	writable  map[common.PublicKey]bool
	signer    map[common.PublicKey]bool
}

var _ tokenswap.Env = (*frame)(nil)

func newFrame(tc *txContext, programID common.PublicKey, depth int, infos []*tokenswap.AccountInfo) *frame {
	f := &frame{
		tc:        tc,
		programID: programID,
		depth:     depth,
		pre:       make(map[common.PublicKey]*tokenswap.Account),
		writable:  make(map[common.PublicKey]bool),
		signer:    make(map[common.PublicKey]bool),
	}
	for _, info := range infos {
		if _, ok := f.pre[info.Key]; !ok {
			f.keys = append(f.keys, info.Key)
			f.pre[info.Key] = info.Account.Clone()
		}
		f.writable[info.Key] = f.writable[info.Key] || info.IsWritable
		f.signer[info.Key] = f.signer[info.Key] || info.IsSigner
	}
	return f
}

// Rent implements tokenswap.Env.
func (f *frame) Rent() tokenswap.RentOracle {
	return f.tc.ledger.cfg.Rent
}

// Invoke implements tokenswap.Env.
func (f *frame) Invoke(ctx context.Context, ix types.Instruction, accounts []*tokenswap.AccountInfo) error {
	return f.InvokeSigned(ctx, ix, accounts)
}

// InvokeSigned implements tokenswap.Env.
func (f *frame) InvokeSigned(ctx context.Context, ix types.Instruction, accounts []*tokenswap.AccountInfo, signerSeeds ...[][]byte) error {
	derived := make(map[common.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := common.CreateProgramAddress(seeds, f.programID)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidSeeds, "program %s: %s", f.programID, err)
		}
		derived[addr] = true
	}

	if tokenswap.FindAccount(accounts, ix.ProgramID) == nil {
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "program account %s", ix.ProgramID)
	}
	infos := make([]*tokenswap.AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		key := meta.PubKey
		if tokenswap.FindAccount(accounts, key) == nil || f.pre[key] == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s", key)
		}
		if meta.IsWritable && !f.writable[key] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "writable %s", key)
		}
		if meta.IsSigner && !f.signer[key] && !derived[key] {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "signer %s", key)
		}
		infos = append(infos, &tokenswap.AccountInfo{
			Key:        key,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    f.tc.accounts[key],
		})
	}

	// Changes made so far must be valid before the callee sees them.
	if err := f.verify(); err != nil {
		return err
	}
	if err := f.tc.call(ctx, f.depth+1, ix, infos); err != nil {
		return err
	}
	// The callee was verified against its own rules, the caller continues
	// from the resulting state.
	for _, info := range infos {
		f.pre[info.Key] = info.Account.Clone()
	}
	return nil
}

// verify checks the changes the program made to the accounts of the frame.
func (f *frame) verify() error {
	var preHi, preLo, postHi, postLo uint64
	for _, key := range f.keys {
		pre, post := f.pre[key], f.tc.accounts[key]
		preHi, preLo = add128(preHi, preLo, pre.Lamports)
		postHi, postLo = add128(postHi, postLo, post.Lamports)

		if pre.Equals(post) {
			continue
		}
		if !f.writable[key] {
			return errors.Wrapf(errors.ErrReadonlyDataModified, "account %s", key)
		}
		if pre.Owner != post.Owner {
			if pre.Owner != f.programID || !isZeroed(post.Data) {
				return errors.Wrapf(errors.ErrModifiedProgramID, "account %s", key)
			}
		}
		if pre.Executable != post.Executable {
			return errors.Wrapf(errors.ErrModifiedProgramID, "executable flag of %s", key)
		}
		if pre.Owner != f.programID {
			if !bytes.Equal(pre.Data, post.Data) {
				return errors.Wrapf(errors.ErrExternalAccountDataModified, "account %s", key)
			}
			if post.Lamports < pre.Lamports {
				return errors.Wrapf(errors.ErrExternalAccountLamportSpend, "account %s", key)
			}
		}
	}
	if preHi != postHi || preLo != postLo {
		return errors.Wrapf(errors.ErrUnbalancedInstruction, "program %s", f.programID)
	}
	return nil
}

func add128(hi, lo, v uint64) (uint64, uint64) {
	lo, carry := bits.Add64(lo, v, 0)
	return hi + carry, lo
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
