/*
Command escrowctl inspects and exercises the token escrow program.

It derives the program authority address, encodes instructions, decodes
escrow records and runs a complete swap on an in-memory ledger.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "escrowctl",
		Short:         "Inspect and exercise the token escrow program",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}
	root.AddCommand(
		newAuthorityCmd(),
		newEncodeCmd(),
		newDecodeRecordCmd(),
		newDemoCmd(),
	)
	return root
}
