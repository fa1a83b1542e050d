package ledger

import (
	"context"
	"encoding/binary"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// MaxAccountDataLen limits the space CreateAccount may allocate.
const MaxAccountDataLen = 10 * 1024 * 1024

// SystemProgram creates accounts and moves lamports between accounts it
// owns. It is deployed by every ledger.
type SystemProgram struct{}

var _ tokenswap.Program = SystemProgram{}

type createAccountData struct {
	Instruction uint32
	Lamports    uint64
	Space       uint64
	Owner       common.PublicKey
}

type transferData struct {
	Instruction uint32
	Lamports    uint64
}

// Process implements tokenswap.Program.
func (s SystemProgram) Process(ctx context.Context, env tokenswap.Env, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(data) < 4 {
		return errors.Wrapf(errors.ErrInvalidInstructionData, "system instruction of %d bytes", len(data))
	}
	logger := tokenswap.GetLogger(ctx)

	switch system.Instruction(binary.LittleEndian.Uint32(data)) {
	case system.InstructionCreateAccount:
		var d createAccountData
		if err := borsh.Deserialize(&d, data); err != nil {
			return errors.Wrap(errors.ErrInvalidInstructionData, err.Error())
		}
		logger.Debug("Instruction: CreateAccount", "lamports", d.Lamports, "space", d.Space)
		return s.createAccount(accounts, d)
	case system.InstructionTransfer:
		var d transferData
		if err := borsh.Deserialize(&d, data); err != nil {
			return errors.Wrap(errors.ErrInvalidInstructionData, err.Error())
		}
		logger.Debug("Instruction: Transfer", "lamports", d.Lamports)
		return s.transfer(accounts, d.Lamports)
	default:
		return errors.Wrapf(errors.ErrInvalidInstructionData, "unsupported system instruction %d", binary.LittleEndian.Uint32(data))
	}
}

func (s SystemProgram) createAccount(accounts []*tokenswap.AccountInfo, d createAccountData) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "create account")
	}
	from, to := accounts[0], accounts[1]
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "funding account %s", from.Key)
	}
	if !to.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "new account %s", to.Key)
	}
	if to.Lamports != 0 || len(to.Data) != 0 || to.Owner != common.SystemProgramID {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "account %s", to.Key)
	}
	if d.Space > MaxAccountDataLen {
		return errors.Wrapf(errors.ErrInvalidInstructionData, "space %d", d.Space)
	}
	if err := debit(from, d.Lamports); err != nil {
		return err
	}
	to.Lamports = d.Lamports
	to.Data = make([]byte, d.Space)
	to.Owner = d.Owner
	return nil
}

func (s SystemProgram) transfer(accounts []*tokenswap.AccountInfo, lamports uint64) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "transfer")
	}
	from, to := accounts[0], accounts[1]
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "funding account %s", from.Key)
	}
	if to.Lamports+lamports < to.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "account %s", to.Key)
	}
	if err := debit(from, lamports); err != nil {
		return err
	}
	to.Lamports += lamports
	return nil
}

// debit takes lamports from a plain wallet account.
func debit(from *tokenswap.AccountInfo, lamports uint64) error {
	if len(from.Data) != 0 {
		return errors.Wrapf(errors.ErrInvalidAccountData, "funding account %s carries data", from.Key)
	}
	if from.Lamports < lamports {
		return errors.Wrapf(errors.ErrInsufficientFunds, "account %s holds %d, need %d", from.Key, from.Lamports, lamports)
	}
	from.Lamports -= lamports
	return nil
}
