package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/iov-one/tokenswap/errors"
	"github.com/mr-tron/base58"
)

// parseKey decodes a base58 encoded 32 byte key.
func parseKey(s string) (common.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, errors.Wrapf(errors.ErrInvalidInput, "key %q: %s", s, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, errors.Wrapf(errors.ErrInvalidInput, "key %q is %d bytes long", s, len(raw))
	}
	return common.PublicKeyFromBytes(raw), nil
}

// parseBytes decodes hex, optionally 0x prefixed, falling back to base58.
func parseBytes(s string) ([]byte, error) {
	if raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil {
		return raw, nil
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%q is neither hex nor base58", s)
	}
	return raw, nil
}

// printTable writes key value rows aligned in two columns.
func printTable(w io.Writer, rows ...[2]interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%v\t%v\n", r[0], r[1])
	}
	return tw.Flush()
}
