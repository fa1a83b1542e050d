package escrow

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

// InitEscrowParam lists the accounts and amount of an InitEscrow
// instruction.
type InitEscrowParam struct {
	Initializer    common.PublicKey
	TempToken      common.PublicKey
	TokenToReceive common.PublicKey
	Escrow         common.PublicKey
	// ExpectedAmount is the number of tokens the initializer wants in
	// return.
	ExpectedAmount uint64
}

// NewInitEscrowInstruction returns an InitEscrow instruction for the program
// deployed at programID.
func NewInitEscrowInstruction(programID common.PublicKey, param InitEscrowParam) types.Instruction {
	return types.Instruction{
		ProgramID: programID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Initializer, IsSigner: true, IsWritable: false},
			{PubKey: param.TempToken, IsSigner: false, IsWritable: true},
			{PubKey: param.TokenToReceive, IsSigner: false, IsWritable: false},
			{PubKey: param.Escrow, IsSigner: false, IsWritable: true},
			{PubKey: common.SysVarRentPubkey, IsSigner: false, IsWritable: false},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
		},
		Data: Instruction{Tag: TagInitEscrow, Amount: param.ExpectedAmount}.Pack(),
	}
}

// ExchangeParam lists the accounts and amount of an Exchange instruction.
type ExchangeParam struct {
	Taker                     common.PublicKey
	TakerSendingToken         common.PublicKey
	TakerTokenToReceive       common.PublicKey
	TempToken                 common.PublicKey
	InitializerMain           common.PublicKey
	InitializerTokenToReceive common.PublicKey
	Escrow                    common.PublicKey
	// Amount is the number of tokens the taker expects to receive.
	Amount uint64
}

// NewExchangeInstruction returns an Exchange instruction for the program
// deployed at programID. The authority account is derived from programID.
func NewExchangeInstruction(programID common.PublicKey, param ExchangeParam) (types.Instruction, error) {
	authority, err := DeriveAuthority(programID)
	if err != nil {
		return types.Instruction{}, err
	}
	return types.Instruction{
		ProgramID: programID,
		Accounts: []types.AccountMeta{
			{PubKey: param.Taker, IsSigner: true, IsWritable: false},
			{PubKey: param.TakerSendingToken, IsSigner: false, IsWritable: true},
			{PubKey: param.TakerTokenToReceive, IsSigner: false, IsWritable: true},
			{PubKey: param.TempToken, IsSigner: false, IsWritable: true},
			{PubKey: param.InitializerMain, IsSigner: false, IsWritable: true},
			{PubKey: param.InitializerTokenToReceive, IsSigner: false, IsWritable: true},
			{PubKey: param.Escrow, IsSigner: false, IsWritable: true},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: authority.Address, IsSigner: false, IsWritable: false},
		},
		Data: Instruction{Tag: TagExchange, Amount: param.Amount}.Pack(),
	}, nil
}
