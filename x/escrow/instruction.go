package escrow

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/near/borsh-go"
)

// Instruction tags.
const (
	TagInitEscrow uint8 = 0
	TagExchange   uint8 = 1
)

// instructionLen is the tag byte followed by a little endian u64 amount.
const instructionLen = 1 + 8

// Instruction is a decoded escrow instruction.
//
// For InitEscrow the amount is the number of tokens the initializer expects
// in return. For Exchange it is the number of tokens the taker expects to
// receive, which must match the balance of the temporary token account.
type Instruction struct {
	Tag    uint8
	Amount uint64
}

// UnpackInstruction decodes instruction data. Bytes after the amount are
// ignored.
func UnpackInstruction(data []byte) (Instruction, error) {
	var ix Instruction
	if len(data) < instructionLen {
		return ix, errors.Wrapf(ErrInvalidInstruction, "instruction of %d bytes", len(data))
	}
	if err := borsh.Deserialize(&ix, data[:instructionLen]); err != nil {
		return ix, errors.Wrap(ErrInvalidInstruction, err.Error())
	}
	switch ix.Tag {
	case TagInitEscrow, TagExchange:
		return ix, nil
	default:
		return ix, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", ix.Tag)
	}
}

// Pack encodes the instruction.
func (ix Instruction) Pack() []byte {
	raw, err := borsh.Serialize(ix)
	if err != nil {
		// unreachable for fixed size integers
		panic(err)
	}
	return raw
}

// String returns the instruction name.
func (ix Instruction) String() string {
	switch ix.Tag {
	case TagInitEscrow:
		return "InitEscrow"
	case TagExchange:
		return "Exchange"
	default:
		return "Unknown"
	}
}
