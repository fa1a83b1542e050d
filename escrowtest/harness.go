/*
Package escrowtest provides a ledger wired with the system, token and escrow
programs, and helpers to build the accounts a swap needs.
*/
package escrowtest

import (
	"context"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/ledger"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/token"
)

// DefaultAirdrop is the balance of wallets created with NewWallet.
const DefaultAirdrop uint64 = 10_000_000_000

// Harness runs transactions against an in-memory ledger.
type Harness struct {
	t         testing.TB
	Ledger    *ledger.Ledger
	ProgramID common.PublicKey
}

// NewHarness returns a harness with the escrow program deployed at a random
// address.
func NewHarness(t testing.TB, opts ...ledger.Option) *Harness {
	t.Helper()
	return NewHarnessWithConfig(t, ledger.DefaultConfig(), opts...)
}

// NewHarnessWithConfig works like NewHarness but uses the given ledger
// configuration.
func NewHarnessWithConfig(t testing.TB, cfg ledger.Config, opts ...ledger.Option) *Harness {
	t.Helper()
	programID := types.NewAccount().PublicKey
	opts = append([]ledger.Option{
		ledger.WithProgram(token.ProgramID, token.Processor{}),
		ledger.WithProgram(programID, escrow.Processor{}),
	}, opts...)
	return &Harness{
		t:         t,
		Ledger:    ledger.New(cfg, store.MemStore(), opts...),
		ProgramID: programID,
	}
}

// Send signs and executes a transaction. The first signer pays the fee.
func (h *Harness) Send(signers []types.Account, ixs ...types.Instruction) error {
	h.t.Helper()
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signers[0].PublicKey,
			RecentBlockhash: common.SystemProgramID.String(),
			Instructions:    ixs,
		}),
		Signers: signers,
	})
	if err != nil {
		h.t.Fatalf("cannot build transaction: %s", err)
	}
	return h.Ledger.Execute(context.Background(), tx)
}

// MustSend works like Send but fails the test on error.
func (h *Harness) MustSend(signers []types.Account, ixs ...types.Instruction) {
	h.t.Helper()
	if err := h.Send(signers, ixs...); err != nil {
		h.t.Fatalf("transaction failed: %+v", err)
	}
}

// NewWallet returns a key funded with DefaultAirdrop lamports.
func (h *Harness) NewWallet() types.Account {
	h.t.Helper()
	acc := types.NewAccount()
	if err := h.Ledger.Airdrop(acc.PublicKey, DefaultAirdrop); err != nil {
		h.t.Fatalf("cannot airdrop: %+v", err)
	}
	return acc
}

// NewMint returns a mint key. Mints carry no ledger state, the key itself is
// the mint authority.
func (h *Harness) NewMint() types.Account {
	return types.NewAccount()
}

// NewTokenAccount creates and initializes a rent exempt token account of the
// mint, owned by owner.
func (h *Harness) NewTokenAccount(payer types.Account, mint, owner common.PublicKey) types.Account {
	h.t.Helper()
	acc := types.NewAccount()
	h.MustSend([]types.Account{payer, acc},
		system.CreateAccount(system.CreateAccountParam{
			From:     payer.PublicKey,
			New:      acc.PublicKey,
			Owner:    token.ProgramID,
			Lamports: h.Ledger.Rent().MinimumBalance(token.AccountLen),
			Space:    token.AccountLen,
		}),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: acc.PublicKey,
			Mint:    mint,
			Owner:   owner,
		}),
	)
	return acc
}

// MintTo credits amount tokens of mint to a token account.
func (h *Harness) MintTo(payer, mint types.Account, to common.PublicKey, amount uint64) {
	h.t.Helper()
	h.MustSend([]types.Account{payer, mint},
		sdktoken.MintTo(sdktoken.MintToParam{
			Mint:   mint.PublicKey,
			To:     to,
			Auth:   mint.PublicKey,
			Amount: amount,
		}),
	)
}

// NewEscrowAccount creates an empty record account owned by the escrow
// program, funded with lamports.
func (h *Harness) NewEscrowAccount(payer types.Account, lamports uint64) types.Account {
	h.t.Helper()
	acc := types.NewAccount()
	h.MustSend([]types.Account{payer, acc},
		system.CreateAccount(system.CreateAccountParam{
			From:     payer.PublicKey,
			New:      acc.PublicKey,
			Owner:    h.ProgramID,
			Lamports: lamports,
			Space:    escrow.EscrowLen,
		}),
	)
	return acc
}

// RentExempt returns the minimum balance of an account holding dataLen
// bytes.
func (h *Harness) RentExempt(dataLen int) uint64 {
	return h.Ledger.Rent().MinimumBalance(dataLen)
}

// Account returns the ledger account stored under key.
func (h *Harness) Account(key common.PublicKey) tokenswap.Account {
	h.t.Helper()
	acc, err := h.Ledger.Account(key)
	if err != nil {
		h.t.Fatalf("cannot load account %s: %+v", key, err)
	}
	return acc
}

// Balance returns the lamports of an account.
func (h *Harness) Balance(key common.PublicKey) uint64 {
	h.t.Helper()
	return h.Account(key).Lamports
}

// TokenAccount returns the decoded token account stored under key.
func (h *Harness) TokenAccount(key common.PublicKey) token.Account {
	h.t.Helper()
	acc, err := token.DecodeAccount(h.Account(key).Data)
	if err != nil {
		h.t.Fatalf("cannot decode token account %s: %+v", key, err)
	}
	return acc
}

// Record returns the decoded escrow record stored under key.
func (h *Harness) Record(key common.PublicKey) escrow.Escrow {
	h.t.Helper()
	rec, err := escrow.UnpackUnchecked(h.Account(key).Data)
	if err != nil {
		h.t.Fatalf("cannot decode escrow record %s: %+v", key, err)
	}
	return rec
}

// Exists returns true if the ledger stores an account under key.
func (h *Harness) Exists(key common.PublicKey) bool {
	h.t.Helper()
	ok, err := h.Ledger.Exists(key)
	if err != nil {
		h.t.Fatalf("cannot check account %s: %+v", key, err)
	}
	return ok
}
