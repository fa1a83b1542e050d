package escrow

import (
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestDeriveAuthority(t *testing.T) {
	programID := types.NewAccount().PublicKey

	a, err := DeriveAuthority(programID)
	require.NoError(t, err)
	require.Equal(t, AuthoritySeed, a.Seed)
	require.Equal(t, [][]byte{[]byte("escrow"), {a.Bump}}, a.SignerSeeds())

	// Derivation is deterministic and the seeds reproduce the address.
	b, err := DeriveAuthority(programID)
	require.NoError(t, err)
	require.Equal(t, a, b)

	addr, err := common.CreateProgramAddress(a.SignerSeeds(), programID)
	require.NoError(t, err)
	require.Equal(t, a.Address, addr)

	// Another program gets another authority.
	other, err := DeriveAuthority(types.NewAccount().PublicKey)
	require.NoError(t, err)
	require.NotEqual(t, a.Address, other.Address)
}
