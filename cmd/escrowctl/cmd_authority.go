package main

import (
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/spf13/cobra"
)

func newAuthorityCmd() *cobra.Command {
	var program string
	cmd := &cobra.Command{
		Use:   "authority",
		Short: "Print the authority address derived for an escrow program",
		Long: `Print the address that owns the temporary token accounts of the escrow
program deployed at the given address. Nobody holds a private key for it, the
address can be recomputed by anyone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			programID, err := parseKey(program)
			if err != nil {
				return err
			}
			a, err := escrow.DeriveAuthority(programID)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(),
				[2]interface{}{"address", a.Address.ToBase58()},
				[2]interface{}{"seed", string(a.Seed)},
				[2]interface{}{"bump", a.Bump},
			)
		},
	}
	cmd.Flags().StringVar(&program, "program", "", "base58 address of the escrow program (required)")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}
