package main

import (
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/spf13/cobra"
)

func newDecodeRecordCmd() *cobra.Command {
	var permissive bool
	cmd := &cobra.Command{
		Use:   "decode-record <hex|base58>",
		Short: "Decode the data of an escrow record account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := parseBytes(args[0])
			if err != nil {
				return err
			}
			decode := escrow.Unpack
			if permissive {
				decode = escrow.UnpackUnchecked
			}
			rec, err := decode(raw)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(),
				[2]interface{}{"initialized", rec.IsInitialized},
				[2]interface{}{"initializer", rec.InitializerPubkey.ToBase58()},
				[2]interface{}{"temp token account", rec.TempTokenAccountPubkey.ToBase58()},
				[2]interface{}{"token to receive account", rec.InitializerTokenToReceiveAccountPubkey.ToBase58()},
				[2]interface{}{"expected amount", rec.ExpectedAmount},
			)
		},
	}
	cmd.Flags().BoolVar(&permissive, "permissive", false, "decode records that are not initialized")
	return cmd
}
