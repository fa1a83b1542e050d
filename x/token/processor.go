package token

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// ProgramID is the address the token program is deployed at.
var ProgramID = common.TokenProgramID

// Processor executes token instructions.
type Processor struct{}

var _ tokenswap.Program = Processor{}

// amountData is the payload of Transfer and MintTo.
type amountData struct {
	Instruction uint8
	Amount      uint64
}

// Process decodes the instruction tag and dispatches to the matching
// handler.
func (p Processor) Process(ctx context.Context, env tokenswap.Env, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "empty token instruction")
	}
	logger := tokenswap.GetLogger(ctx)

	switch sdktoken.Instruction(data[0]) {
	case sdktoken.InstructionInitializeAccount:
		logger.Debug("Instruction: InitializeAccount")
		return p.initializeAccount(env, programID, accounts)
	case sdktoken.InstructionTransfer:
		logger.Debug("Instruction: Transfer")
		amount, err := unpackAmount(data)
		if err != nil {
			return err
		}
		return p.transfer(programID, accounts, amount)
	case sdktoken.InstructionSetAuthority:
		logger.Debug("Instruction: SetAuthority")
		return p.setAuthority(programID, accounts, data)
	case sdktoken.InstructionMintTo:
		logger.Debug("Instruction: MintTo")
		amount, err := unpackAmount(data)
		if err != nil {
			return err
		}
		return p.mintTo(programID, accounts, amount)
	case sdktoken.InstructionCloseAccount:
		logger.Debug("Instruction: CloseAccount")
		return p.closeAccount(programID, accounts)
	default:
		return errors.Wrapf(errors.ErrInvalidInstructionData, "unsupported token instruction %d", data[0])
	}
}

func unpackAmount(data []byte) (uint64, error) {
	if len(data) < 9 {
		return 0, errors.Wrapf(errors.ErrInvalidInstructionData, "amount payload of %d bytes", len(data))
	}
	var d amountData
	if err := borsh.Deserialize(&d, data[:9]); err != nil {
		return 0, errors.Wrap(errors.ErrInvalidInstructionData, err.Error())
	}
	return d.Amount, nil
}

func (p Processor) initializeAccount(env tokenswap.Env, programID common.PublicKey, accounts []*tokenswap.AccountInfo) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "initialize account")
	}
	account, mint, owner := accounts[0], accounts[1], accounts[2]
	if account.Owner != programID {
		return errors.Wrap(errors.ErrIncorrectProgramID, "token account")
	}
	state, err := decodeAccountUnchecked(account.Data)
	if err != nil {
		return err
	}
	if state.IsInitialized() {
		return errors.Wrapf(ErrAlreadyInUse, "token account %s", account.Key)
	}
	if !env.Rent().IsExempt(account.Lamports, len(account.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "token account %s", account.Key)
	}

	state = Account{
		Mint:  mint.Key,
		Owner: owner.Key,
		State: StateInitialized,
	}
	return EncodeAccount(state, account.Data)
}

func (p Processor) transfer(programID common.PublicKey, accounts []*tokenswap.AccountInfo, amount uint64) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "transfer")
	}
	source, dest, authority := accounts[0], accounts[1], accounts[2]

	src, err := loadAccount(programID, source)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := loadAccount(programID, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, transfer %d", src.Amount, amount)
	}
	if src.Mint != dst.Mint {
		return errors.Wrap(ErrMintMismatch, "transfer")
	}
	if err := validateOwner(src.Owner, authority); err != nil {
		return err
	}

	// Self transfers are validated, but do not change the balance.
	if source.Key == dest.Key {
		return nil
	}

	src.Amount -= amount
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	dst.Amount += amount

	if err := EncodeAccount(src, source.Data); err != nil {
		return err
	}
	return EncodeAccount(dst, dest.Data)
}

func (p Processor) setAuthority(programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	if len(accounts) < 2 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "set authority")
	}
	// Layout: [tag, authority type, option flag, new authority (32)]
	if len(data) < 3 {
		return errors.Wrapf(errors.ErrInvalidInstructionData, "set authority payload of %d bytes", len(data))
	}
	authType, hasNew := sdktoken.AuthorityType(data[1]), data[2] == 1
	if !hasNew || len(data) < 35 {
		return errors.Wrap(errors.ErrInvalidInstructionData, "new authority required")
	}
	if authType != sdktoken.AuthorityTypeAccountOwner {
		return errors.Wrapf(ErrAuthorityTypeNotSupported, "authority type %d", data[1])
	}
	newOwner := common.PublicKeyFromBytes(data[3:35])

	account, authority := accounts[0], accounts[1]
	state, err := loadAccount(programID, account)
	if err != nil {
		return err
	}
	if err := validateOwner(state.Owner, authority); err != nil {
		return err
	}
	state.Owner = newOwner
	return EncodeAccount(state, account.Data)
}

func (p Processor) mintTo(programID common.PublicKey, accounts []*tokenswap.AccountInfo, amount uint64) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "mint to")
	}
	mint, dest, authority := accounts[0], accounts[1], accounts[2]

	dst, err := loadAccount(programID, dest)
	if err != nil {
		return err
	}
	if dst.Mint != mint.Key {
		return errors.Wrap(ErrMintMismatch, "mint to")
	}
	if err := validateOwner(mint.Key, authority); err != nil {
		return err
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	dst.Amount += amount
	return EncodeAccount(dst, dest.Data)
}

func (p Processor) closeAccount(programID common.PublicKey, accounts []*tokenswap.AccountInfo) error {
	if len(accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccountKeys, "close account")
	}
	source, dest, authority := accounts[0], accounts[1], accounts[2]
	if source.Key == dest.Key {
		return errors.Wrap(errors.ErrInvalidAccountData, "cannot close into itself")
	}

	src, err := loadAccount(programID, source)
	if err != nil {
		return err
	}
	if src.Amount != 0 {
		return errors.Wrapf(ErrNonNativeHasBalance, "balance %d", src.Amount)
	}
	if err := validateOwner(src.Owner, authority); err != nil {
		return err
	}

	if dest.Lamports+source.Lamports < dest.Lamports {
		return errors.Wrap(errors.ErrOverflow, "destination lamports")
	}
	dest.Lamports += source.Lamports
	source.Lamports = 0
	source.Data = nil
	return nil
}

// loadAccount checks the account is owned by the token program and decodes
// its initialized state.
func loadAccount(programID common.PublicKey, info *tokenswap.AccountInfo) (Account, error) {
	if info.Owner != programID {
		return Account{}, errors.Wrapf(errors.ErrIncorrectProgramID, "account %s", info.Key)
	}
	return DecodeAccount(info.Data)
}

// validateOwner ensures the authority account is the expected owner and
// that it signed.
func validateOwner(expected common.PublicKey, authority *tokenswap.AccountInfo) error {
	if expected != authority.Key {
		return errors.Wrapf(ErrOwnerMismatch, "want %s, got %s", expected, authority.Key)
	}
	if !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "owner %s", authority.Key)
	}
	return nil
}
