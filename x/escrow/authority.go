package escrow

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// AuthoritySeed is the seed of the address that owns every temporary token
// account of the program.
var AuthoritySeed = []byte("escrow")

// Authority is the program derived address allowed to move escrowed tokens.
// No private key exists for it; the runtime accepts it as a signer only when
// the program presents the seeds it was derived from.
type Authority struct {
	Seed    []byte
	Bump    uint8
	Address common.PublicKey
}

// DeriveAuthority returns the authority of the program deployed at
// programID.
func DeriveAuthority(programID common.PublicKey) (Authority, error) {
	addr, bump, err := common.FindProgramAddress([][]byte{AuthoritySeed}, programID)
	if err != nil {
		return Authority{}, errors.Wrapf(errors.ErrInvalidSeeds, "program %s: %s", programID, err)
	}
	return Authority{Seed: AuthoritySeed, Bump: bump, Address: addr}, nil
}

// SignerSeeds returns the seeds that prove the program controls the
// authority.
func (a Authority) SignerSeeds() [][]byte {
	return [][]byte{a.Seed, {a.Bump}}
}

// Authorize invokes an instruction with the authority as a signer.
func (a Authority) Authorize(ctx context.Context, env tokenswap.Env, ix types.Instruction, accounts []*tokenswap.AccountInfo) error {
	return env.InvokeSigned(ctx, ix, accounts, a.SignerSeeds())
}
