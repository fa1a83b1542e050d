package main

import (
	"encoding/hex"

	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode escrow instruction data",
	}
	cmd.AddCommand(
		newEncodeInstructionCmd("init", "InitEscrow, amount is the number of tokens expected in return", escrow.TagInitEscrow),
		newEncodeInstructionCmd("exchange", "Exchange, amount is the number of tokens the taker expects to receive", escrow.TagExchange),
	)
	return cmd
}

func newEncodeInstructionCmd(use, short string, tag uint8) *cobra.Command {
	var amount uint64
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := escrow.Instruction{Tag: tag, Amount: amount}.Pack()
			return printTable(cmd.OutOrStdout(),
				[2]interface{}{"hex", hex.EncodeToString(raw)},
				[2]interface{}{"base58", base58.Encode(raw)},
			)
		},
	}
	cmd.Flags().Uint64Var(&amount, "amount", 0, "token amount carried by the instruction")
	return cmd
}
