package escrow

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/token"
)

// Processor executes escrow instructions. It keeps no state between
// invocations; everything it relies on is read from and checked against the
// supplied accounts.
type Processor struct{}

var _ tokenswap.Program = Processor{}

// Process implements tokenswap.Program.
func (p Processor) Process(ctx context.Context, env tokenswap.Env, programID common.PublicKey, accounts []*tokenswap.AccountInfo, data []byte) error {
	ix, err := UnpackInstruction(data)
	if err != nil {
		return err
	}
	tokenswap.GetLogger(ctx).Info("Instruction: " + ix.String())

	switch ix.Tag {
	case TagInitEscrow:
		req, err := parseInitEscrowAccounts(accounts)
		if err != nil {
			return err
		}
		return p.initEscrow(ctx, env, programID, req, ix.Amount)
	case TagExchange:
		req, err := parseExchangeAccounts(accounts)
		if err != nil {
			return err
		}
		return p.exchange(ctx, env, programID, req, ix.Amount)
	}
	return errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", ix.Tag)
}

// InitEscrowAccounts are the accounts of an InitEscrow instruction.
type InitEscrowAccounts struct {
	Initializer    *tokenswap.AccountInfo
	TempToken      *tokenswap.AccountInfo
	TokenToReceive *tokenswap.AccountInfo
	Escrow         *tokenswap.AccountInfo
	Rent           *tokenswap.AccountInfo
	TokenProgram   *tokenswap.AccountInfo
}

func parseInitEscrowAccounts(accounts []*tokenswap.AccountInfo) (InitEscrowAccounts, error) {
	if len(accounts) < 6 {
		return InitEscrowAccounts{}, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "init escrow requires 6 accounts, got %d", len(accounts))
	}
	return InitEscrowAccounts{
		Initializer:    accounts[0],
		TempToken:      accounts[1],
		TokenToReceive: accounts[2],
		Escrow:         accounts[3],
		Rent:           accounts[4],
		TokenProgram:   accounts[5],
	}, nil
}

func (p Processor) initEscrow(ctx context.Context, env tokenswap.Env, programID common.PublicKey, req InitEscrowAccounts, amount uint64) error {
	if !req.Initializer.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "initializer %s", req.Initializer.Key)
	}
	if req.TokenToReceive.Owner != token.ProgramID {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token to receive account %s is owned by %s", req.TokenToReceive.Key, req.TokenToReceive.Owner)
	}
	if req.Rent.Key != common.SysVarRentPubkey {
		return errors.Wrapf(errors.ErrInvalidAccountData, "rent sysvar %s", req.Rent.Key)
	}
	if !env.Rent().IsExempt(req.Escrow.Lamports, len(req.Escrow.Data)) {
		return errors.Wrapf(ErrNotRentExempt, "escrow account %s", req.Escrow.Key)
	}

	record, err := UnpackUnchecked(req.Escrow.Data)
	if err != nil {
		return err
	}
	if record.IsInitialized {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "escrow account %s", req.Escrow.Key)
	}

	record = Escrow{
		IsInitialized:                          true,
		InitializerPubkey:                      req.Initializer.Key,
		TempTokenAccountPubkey:                 req.TempToken.Key,
		InitializerTokenToReceiveAccountPubkey: req.TokenToReceive.Key,
		ExpectedAmount:                         amount,
	}
	if err := Pack(record, req.Escrow.Data); err != nil {
		return err
	}

	authority, err := DeriveAuthority(programID)
	if err != nil {
		return err
	}
	setAuthority := sdktoken.SetAuthority(sdktoken.SetAuthorityParam{
		Account:  req.TempToken.Key,
		NewAuth:  &authority.Address,
		AuthType: sdktoken.AuthorityTypeAccountOwner,
		Auth:     req.Initializer.Key,
	})
	tokenswap.GetLogger(ctx).Info("Calling the token program to transfer token account ownership...")
	accounts := []*tokenswap.AccountInfo{req.TempToken, req.Initializer, req.TokenProgram}
	return errors.Wrap(env.Invoke(ctx, setAuthority, accounts), "set temp token account authority")
}

// ExchangeAccounts are the accounts of an Exchange instruction.
type ExchangeAccounts struct {
	Taker                     *tokenswap.AccountInfo
	TakerSendingToken         *tokenswap.AccountInfo
	TakerTokenToReceive       *tokenswap.AccountInfo
	TempToken                 *tokenswap.AccountInfo
	InitializerMain           *tokenswap.AccountInfo
	InitializerTokenToReceive *tokenswap.AccountInfo
	Escrow                    *tokenswap.AccountInfo
	TokenProgram              *tokenswap.AccountInfo
	Authority                 *tokenswap.AccountInfo
}

func parseExchangeAccounts(accounts []*tokenswap.AccountInfo) (ExchangeAccounts, error) {
	if len(accounts) < 9 {
		return ExchangeAccounts{}, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "exchange requires 9 accounts, got %d", len(accounts))
	}
	return ExchangeAccounts{
		Taker:                     accounts[0],
		TakerSendingToken:         accounts[1],
		TakerTokenToReceive:       accounts[2],
		TempToken:                 accounts[3],
		InitializerMain:           accounts[4],
		InitializerTokenToReceive: accounts[5],
		Escrow:                    accounts[6],
		TokenProgram:              accounts[7],
		Authority:                 accounts[8],
	}, nil
}

func (p Processor) exchange(ctx context.Context, env tokenswap.Env, programID common.PublicKey, req ExchangeAccounts, amountExpectedByTaker uint64) error {
	if !req.Taker.IsSigner {
		return errors.Wrapf(errors.ErrMissingRequiredSignature, "taker %s", req.Taker.Key)
	}

	temp, err := token.DecodeAccount(req.TempToken.Data)
	if err != nil {
		return errors.Wrap(err, "temp token account")
	}
	if temp.Amount != amountExpectedByTaker {
		return errors.Wrapf(ErrEscrowAmountMismatch, "temp token account holds %d, taker expects %d", temp.Amount, amountExpectedByTaker)
	}

	record, err := Unpack(req.Escrow.Data)
	if err != nil {
		return err
	}
	if record.InitializerPubkey != req.InitializerMain.Key {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s", req.InitializerMain.Key)
	}
	if record.InitializerTokenToReceiveAccountPubkey != req.InitializerTokenToReceive.Key {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer token to receive account %s", req.InitializerTokenToReceive.Key)
	}
	if record.TempTokenAccountPubkey != req.TempToken.Key {
		return errors.Wrapf(errors.ErrInvalidAccountData, "temp token account %s", req.TempToken.Key)
	}

	authority, err := DeriveAuthority(programID)
	if err != nil {
		return err
	}
	if authority.Address != req.Authority.Key {
		return errors.Wrapf(errors.ErrInvalidAccountData, "authority %s", req.Authority.Key)
	}

	logger := tokenswap.GetLogger(ctx)

	toInitializer := sdktoken.Transfer(sdktoken.TransferParam{
		From:   req.TakerSendingToken.Key,
		To:     req.InitializerTokenToReceive.Key,
		Auth:   req.Taker.Key,
		Amount: record.ExpectedAmount,
	})
	logger.Info("Calling the token program to transfer tokens to the escrow's initializer...")
	if err := env.Invoke(ctx, toInitializer, []*tokenswap.AccountInfo{
		req.TakerSendingToken, req.InitializerTokenToReceive, req.Taker, req.TokenProgram,
	}); err != nil {
		return errors.Wrap(err, "transfer to initializer")
	}

	toTaker := sdktoken.Transfer(sdktoken.TransferParam{
		From:   req.TempToken.Key,
		To:     req.TakerTokenToReceive.Key,
		Auth:   authority.Address,
		Amount: temp.Amount,
	})
	logger.Info("Calling the token program to transfer tokens to the taker...")
	if err := authority.Authorize(ctx, env, toTaker, []*tokenswap.AccountInfo{
		req.TempToken, req.TakerTokenToReceive, req.Authority, req.TokenProgram,
	}); err != nil {
		return errors.Wrap(err, "transfer to taker")
	}

	closeTemp := sdktoken.CloseAccount(sdktoken.CloseAccountParam{
		Account: req.TempToken.Key,
		To:      req.InitializerMain.Key,
		Auth:    authority.Address,
	})
	logger.Info("Calling the token program to close the temp token account...")
	if err := authority.Authorize(ctx, env, closeTemp, []*tokenswap.AccountInfo{
		req.TempToken, req.InitializerMain, req.Authority, req.TokenProgram,
	}); err != nil {
		return errors.Wrap(err, "close temp token account")
	}

	logger.Info("Closing the escrow account...")
	lamports := req.InitializerMain.Lamports + req.Escrow.Lamports
	if lamports < req.InitializerMain.Lamports {
		return errors.Wrapf(ErrAmountOverflow, "initializer %s", req.InitializerMain.Key)
	}
	req.InitializerMain.Lamports = lamports
	req.Escrow.Lamports = 0
	req.Escrow.Data = nil
	return nil
}
