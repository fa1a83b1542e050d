package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/escrowtest/assert"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAuthority(t *testing.T) {
	programID := types.NewAccount().PublicKey
	want, err := escrow.DeriveAuthority(programID)
	require.NoError(t, err)

	out, err := run(t, "authority", "--program", programID.ToBase58())
	require.NoError(t, err)
	require.Contains(t, out, want.Address.ToBase58())
	require.Contains(t, out, "escrow")

	_, err = run(t, "authority", "--program", "not-base58!")
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = run(t, "authority", "--program", "3yZe7d")
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestEncode(t *testing.T) {
	cases := map[string]struct {
		Args    []string
		WantHex string
	}{
		"init": {
			Args:    []string{"encode", "init", "--amount", "50"},
			WantHex: "003200000000000000",
		},
		"exchange": {
			Args:    []string{"encode", "exchange", "--amount", "100"},
			WantHex: "016400000000000000",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			out, err := run(t, tc.Args...)
			require.NoError(t, err)
			require.Contains(t, out, tc.WantHex)
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	rec := escrow.Escrow{
		IsInitialized:     true,
		InitializerPubkey: types.NewAccount().PublicKey,
		ExpectedAmount:    42,
	}
	buf := make([]byte, escrow.EscrowLen)
	require.NoError(t, escrow.Pack(rec, buf))

	out, err := run(t, "decode-record", hex.EncodeToString(buf))
	require.NoError(t, err)
	require.Contains(t, out, rec.InitializerPubkey.ToBase58())
	require.Contains(t, out, "42")

	empty := hex.EncodeToString(make([]byte, escrow.EscrowLen))
	_, err = run(t, "decode-record", empty)
	assert.IsErr(t, errors.ErrUninitializedAccount, err)

	out, err = run(t, "decode-record", "--permissive", empty)
	require.NoError(t, err)
	require.Contains(t, out, "false")

	_, err = run(t, "decode-record", "00ff")
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}

func TestDemo(t *testing.T) {
	out, err := run(t, "demo", "--offered", "100", "--expected", "50")
	require.NoError(t, err)

	after := out[strings.Index(out, "after Exchange"):]
	require.Contains(t, after, "lamports, 50 tokens")
	require.Contains(t, after, "lamports, 100 tokens")
	require.Contains(t, after, "closed")
}

func TestDemoWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: none\nmax_invoke_depth: 1\n"), 0o600))

	// Exchange and InitEscrow both need nested invocations.
	out, err := run(t, "demo", "--config", path)
	require.Error(t, err)
	assert.IsErr(t, errors.ErrCallDepth, err)
	require.Contains(t, out, fmt.Sprintf("swap failed with code %d: ", errors.ErrCallDepth.Code()))
}
