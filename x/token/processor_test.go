package token_test

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/escrowtest"
	"github.com/iov-one/tokenswap/escrowtest/assert"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/stretchr/testify/require"
)

func TestInitializeAccount(t *testing.T) {
	h := escrowtest.NewHarness(t)
	payer := h.NewWallet()
	mint := h.NewMint()

	acc := h.NewTokenAccount(payer, mint.PublicKey, payer.PublicKey)
	got := h.TokenAccount(acc.PublicKey)
	require.Equal(t, token.Account{
		Mint:  mint.PublicKey,
		Owner: payer.PublicKey,
		State: token.StateInitialized,
	}, got)
	require.Equal(t, token.ProgramID, h.Account(acc.PublicKey).Owner)

	// The same account cannot be initialized twice.
	err := h.Send([]types.Account{payer}, sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
		Account: acc.PublicKey,
		Mint:    mint.PublicKey,
		Owner:   payer.PublicKey,
	}))
	assert.IsErr(t, token.ErrAlreadyInUse, err)
}

func TestInitializeAccountNotRentExempt(t *testing.T) {
	h := escrowtest.NewHarness(t)
	payer := h.NewWallet()
	acc := types.NewAccount()

	err := h.Send([]types.Account{payer, acc},
		createAccount(payer, acc, h.RentExempt(token.AccountLen)-1),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: acc.PublicKey,
			Mint:    h.NewMint().PublicKey,
			Owner:   payer.PublicKey,
		}),
	)
	assert.IsErr(t, token.ErrNotRentExempt, err)
	// The account creation was rolled back together with the failed
	// initialization.
	require.False(t, h.Exists(acc.PublicKey))
}

func TestTransfer(t *testing.T) {
	h := escrowtest.NewHarness(t)
	alice, bob := h.NewWallet(), h.NewWallet()
	mint, otherMint := h.NewMint(), h.NewMint()
	aliceAcc := h.NewTokenAccount(alice, mint.PublicKey, alice.PublicKey)
	bobAcc := h.NewTokenAccount(bob, mint.PublicKey, bob.PublicKey)
	otherAcc := h.NewTokenAccount(bob, otherMint.PublicKey, bob.PublicKey)
	h.MintTo(alice, mint, aliceAcc.PublicKey, 100)

	cases := map[string]struct {
		From, To common.PublicKey
		Auth     types.Account
		Amount   uint64
		WantErr  error
	}{
		"owner signs": {
			From: aliceAcc.PublicKey, To: bobAcc.PublicKey, Auth: alice, Amount: 40,
		},
		"self transfer": {
			From: aliceAcc.PublicKey, To: aliceAcc.PublicKey, Auth: alice, Amount: 10,
		},
		"not the owner": {
			From: aliceAcc.PublicKey, To: bobAcc.PublicKey, Auth: bob, Amount: 1,
			WantErr: token.ErrOwnerMismatch,
		},
		"insufficient balance": {
			From: aliceAcc.PublicKey, To: bobAcc.PublicKey, Auth: alice, Amount: 101,
			WantErr: errors.ErrInsufficientFunds,
		},
		"mint mismatch": {
			From: aliceAcc.PublicKey, To: otherAcc.PublicKey, Auth: alice, Amount: 1,
			WantErr: token.ErrMintMismatch,
		},
		"destination is not a token account": {
			From: aliceAcc.PublicKey, To: bob.PublicKey, Auth: alice, Amount: 1,
			WantErr: errors.ErrIncorrectProgramID,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			before := h.TokenAccount(tc.From).Amount
			err := h.Send([]types.Account{tc.Auth}, sdktoken.Transfer(sdktoken.TransferParam{
				From:   tc.From,
				To:     tc.To,
				Auth:   tc.Auth.PublicKey,
				Amount: tc.Amount,
			}))
			assert.IsErr(t, tc.WantErr, err)

			switch {
			case tc.WantErr != nil:
				require.Equal(t, before, h.TokenAccount(tc.From).Amount)
			case tc.From != tc.To:
				require.Equal(t, before-tc.Amount, h.TokenAccount(tc.From).Amount)
			default:
				require.Equal(t, before, h.TokenAccount(tc.From).Amount)
			}
		})
	}
	require.Equal(t, uint64(60), h.TokenAccount(aliceAcc.PublicKey).Amount)
	require.Equal(t, uint64(40), h.TokenAccount(bobAcc.PublicKey).Amount)
}

func TestTransferRequiresSignature(t *testing.T) {
	h := escrowtest.NewHarness(t)
	alice, bob := h.NewWallet(), h.NewWallet()
	mint := h.NewMint()
	aliceAcc := h.NewTokenAccount(alice, mint.PublicKey, alice.PublicKey)
	bobAcc := h.NewTokenAccount(bob, mint.PublicKey, bob.PublicKey)
	h.MintTo(alice, mint, aliceAcc.PublicKey, 5)

	ix := sdktoken.Transfer(sdktoken.TransferParam{
		From:   aliceAcc.PublicKey,
		To:     bobAcc.PublicKey,
		Auth:   alice.PublicKey,
		Amount: 5,
	})
	ix.Accounts[2].IsSigner = false
	err := h.Send([]types.Account{bob}, ix)
	assert.IsErr(t, errors.ErrMissingRequiredSignature, err)
	require.Equal(t, uint64(5), h.TokenAccount(aliceAcc.PublicKey).Amount)
}

func TestSetAuthority(t *testing.T) {
	h := escrowtest.NewHarness(t)
	alice, bob := h.NewWallet(), h.NewWallet()
	mint := h.NewMint()
	acc := h.NewTokenAccount(alice, mint.PublicKey, alice.PublicKey)

	setOwner := func(auth types.Account, newOwner common.PublicKey, authType sdktoken.AuthorityType) error {
		return h.Send([]types.Account{auth}, sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
			Account:  acc.PublicKey,
			NewAuth:  &newOwner,
			AuthType: authType,
			Auth:     auth.PublicKey,
		}))
	}

	assert.IsErr(t, token.ErrOwnerMismatch, setOwner(bob, bob.PublicKey, sdktoken.AuthorityTypeAccountOwner))
	assert.IsErr(t, token.ErrAuthorityTypeNotSupported, setOwner(alice, bob.PublicKey, sdktoken.AuthorityTypeCloseAccount))
	require.Equal(t, alice.PublicKey, h.TokenAccount(acc.PublicKey).Owner)

	require.NoError(t, setOwner(alice, bob.PublicKey, sdktoken.AuthorityTypeAccountOwner))
	require.Equal(t, bob.PublicKey, h.TokenAccount(acc.PublicKey).Owner)
}

func TestMintTo(t *testing.T) {
	h := escrowtest.NewHarness(t)
	alice := h.NewWallet()
	mint, otherMint := h.NewMint(), h.NewMint()
	acc := h.NewTokenAccount(alice, mint.PublicKey, alice.PublicKey)

	h.MintTo(alice, mint, acc.PublicKey, 10)
	require.Equal(t, uint64(10), h.TokenAccount(acc.PublicKey).Amount)

	err := h.Send([]types.Account{alice, otherMint}, sdktoken.MintTo(sdktoken.MintToParam{
		Mint:   otherMint.PublicKey,
		To:     acc.PublicKey,
		Auth:   otherMint.PublicKey,
		Amount: 1,
	}))
	assert.IsErr(t, token.ErrMintMismatch, err)

	err = h.Send([]types.Account{alice, mint}, sdktoken.MintTo(sdktoken.MintToParam{
		Mint:   mint.PublicKey,
		To:     acc.PublicKey,
		Auth:   mint.PublicKey,
		Amount: ^uint64(0),
	}))
	assert.IsErr(t, errors.ErrOverflow, err)
	require.Equal(t, uint64(10), h.TokenAccount(acc.PublicKey).Amount)
}

func TestCloseAccount(t *testing.T) {
	h := escrowtest.NewHarness(t)
	alice := h.NewWallet()
	mint := h.NewMint()
	acc := h.NewTokenAccount(alice, mint.PublicKey, alice.PublicKey)
	h.MintTo(alice, mint, acc.PublicKey, 1)

	closeAcc := sdktoken.CloseAccount(sdktoken.CloseAccountParam{
		Account: acc.PublicKey,
		To:      alice.PublicKey,
		Auth:    alice.PublicKey,
	})
	assert.IsErr(t, token.ErrNonNativeHasBalance, h.Send([]types.Account{alice}, closeAcc))

	burn := h.NewTokenAccount(alice, mint.PublicKey, alice.PublicKey)
	h.MustSend([]types.Account{alice}, sdktoken.Transfer(sdktoken.TransferParam{
		From:   acc.PublicKey,
		To:     burn.PublicKey,
		Auth:   alice.PublicKey,
		Amount: 1,
	}))

	walletBefore := h.Balance(alice.PublicKey)
	accLamports := h.Balance(acc.PublicKey)
	h.MustSend([]types.Account{alice}, closeAcc)

	require.False(t, h.Exists(acc.PublicKey))
	require.Equal(t, walletBefore+accLamports, h.Balance(alice.PublicKey))
}

func TestUnknownInstruction(t *testing.T) {
	h := escrowtest.NewHarness(t)
	alice := h.NewWallet()
	err := h.Send([]types.Account{alice}, types.Instruction{
		ProgramID: token.ProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: alice.PublicKey, IsSigner: true, IsWritable: true},
		},
		Data: []byte{byte(sdktoken.InstructionBurn)},
	})
	assert.IsErr(t, errors.ErrInvalidInstructionData, err)
}

func createAccount(payer, acc types.Account, lamports uint64) types.Instruction {
	return system.CreateAccount(system.CreateAccountParam{
		From:     payer.PublicKey,
		New:      acc.PublicKey,
		Owner:    token.ProgramID,
		Lamports: lamports,
		Space:    token.AccountLen,
	})
}
