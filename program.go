package tokenswap

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// Program is the state transition logic deployed under a program id.
//
// Process must validate every account it relies on. Nothing is carried over
// from previous invocations and the runtime only enforces ownership and
// privilege rules, not program semantics.
type Program interface {
	Process(ctx context.Context, env Env, programID common.PublicKey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc allows a plain function to be used as a Program.
type ProgramFunc func(ctx context.Context, env Env, programID common.PublicKey, accounts []*AccountInfo, data []byte) error

// Process implements Program.
func (f ProgramFunc) Process(ctx context.Context, env Env, programID common.PublicKey, accounts []*AccountInfo, data []byte) error {
	return f(ctx, env, programID, accounts, data)
}

// Env is the runtime as visible to an executing program.
type Env interface {
	// Rent returns the minimum balance rule of the ledger.
	Rent() RentOracle

	// Invoke executes an instruction of another program within the current
	// transaction. Every account referenced by the instruction must be
	// present in accounts. Signer privileges are only granted for accounts
	// that signed the calling instruction.
	Invoke(ctx context.Context, ix types.Instruction, accounts []*AccountInfo) error

	// InvokeSigned works like Invoke, but additionally grants signer
	// privilege to every program address derived from the calling program
	// id with one of the given seed sets.
	InvokeSigned(ctx context.Context, ix types.Instruction, accounts []*AccountInfo, signerSeeds ...[][]byte) error
}

// RentOracle decides whether an account holds enough lamports to stay
// persisted.
type RentOracle interface {
	IsExempt(lamports uint64, dataLen int) bool
	MinimumBalance(dataLen int) uint64
}
