package escrow

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/escrowtest/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowLayout(t *testing.T) {
	rec := Escrow{
		IsInitialized:                          true,
		InitializerPubkey:                      common.PublicKeyFromBytes(bytes.Repeat([]byte{1}, 32)),
		TempTokenAccountPubkey:                 common.PublicKeyFromBytes(bytes.Repeat([]byte{2}, 32)),
		InitializerTokenToReceiveAccountPubkey: common.PublicKeyFromBytes(bytes.Repeat([]byte{3}, 32)),
		ExpectedAmount:                         0x0102030405060708,
	}
	buf := make([]byte, EscrowLen)
	require.NoError(t, Pack(rec, buf))

	require.Equal(t, byte(1), buf[0])
	require.Equal(t, bytes.Repeat([]byte{1}, 32), buf[1:33])
	require.Equal(t, bytes.Repeat([]byte{2}, 32), buf[33:65])
	require.Equal(t, bytes.Repeat([]byte{3}, 32), buf[65:97])
	require.Equal(t, uint64(0x0102030405060708), binary.LittleEndian.Uint64(buf[97:]))

	got, err := Unpack(buf)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestUnpack(t *testing.T) {
	initialized := make([]byte, EscrowLen)
	require.NoError(t, Pack(Escrow{
		IsInitialized:     true,
		InitializerPubkey: types.NewAccount().PublicKey,
		ExpectedAmount:    1,
	}, initialized))

	badFlag := make([]byte, EscrowLen)
	badFlag[0] = 2

	cases := map[string]struct {
		Buf            []byte
		WantStrictErr  error
		WantUncheckErr error
	}{
		"initialized": {
			Buf: initialized,
		},
		"all zero": {
			Buf:           make([]byte, EscrowLen),
			WantStrictErr: errors.ErrUninitializedAccount,
		},
		"flag out of range": {
			Buf:            badFlag,
			WantStrictErr:  errors.ErrInvalidAccountData,
			WantUncheckErr: errors.ErrInvalidAccountData,
		},
		"too short": {
			Buf:            make([]byte, EscrowLen-1),
			WantStrictErr:  errors.ErrInvalidAccountData,
			WantUncheckErr: errors.ErrInvalidAccountData,
		},
		"too long": {
			Buf:            make([]byte, EscrowLen+1),
			WantStrictErr:  errors.ErrInvalidAccountData,
			WantUncheckErr: errors.ErrInvalidAccountData,
		},
		"empty": {
			Buf:            nil,
			WantStrictErr:  errors.ErrInvalidAccountData,
			WantUncheckErr: errors.ErrInvalidAccountData,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := Unpack(tc.Buf)
			assert.IsErr(t, tc.WantStrictErr, err)
			_, err = UnpackUnchecked(tc.Buf)
			assert.IsErr(t, tc.WantUncheckErr, err)
		})
	}
}

func TestUnpackUncheckedZero(t *testing.T) {
	got, err := UnpackUnchecked(make([]byte, EscrowLen))
	require.NoError(t, err)
	require.Equal(t, Escrow{}, got)
}

func TestPackWrongBuffer(t *testing.T) {
	err := Pack(Escrow{IsInitialized: true}, make([]byte, EscrowLen-1))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}
