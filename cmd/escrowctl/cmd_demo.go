package main

import (
	"context"
	"fmt"
	"io"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/ledger"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var (
		configPath string
		offered    uint64
		expected   uint64
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a complete swap on an in-memory ledger",
		Long: `Run a complete swap on an in-memory ledger: the initializer escrows
tokens of mint A expecting tokens of mint B, the taker completes the exchange.
Balances are printed before and after the exchange.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ledger.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = ledger.LoadConfig(configPath); err != nil {
					return err
				}
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d := &demo{
				out:       cmd.OutOrStdout(),
				programID: types.NewAccount().PublicKey,
			}
			d.ledger = ledger.New(cfg, store.MemStore(),
				ledger.WithLogger(logger),
				ledger.WithProgram(token.ProgramID, token.Processor{}),
				ledger.WithProgram(d.programID, escrow.Processor{}),
			)
			if err := d.run(cmd.Context(), offered, expected); err != nil {
				code, log := errors.Info(err, cfg.Debug)
				fmt.Fprintf(d.out, "swap failed with code %d: %s\n", code, log)
				return errors.Redact(err, cfg.Debug)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "ledger configuration file (YAML)")
	cmd.Flags().Uint64Var(&offered, "offered", 100, "tokens of mint A the initializer offers")
	cmd.Flags().Uint64Var(&expected, "expected", 50, "tokens of mint B the initializer expects")
	return cmd
}

const demoAirdrop = 10_000_000_000

type demo struct {
	out       io.Writer
	ledger    *ledger.Ledger
	programID common.PublicKey
}

func (d *demo) run(ctx context.Context, offered, expected uint64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	initializer, taker := types.NewAccount(), types.NewAccount()
	mintA, mintB := types.NewAccount(), types.NewAccount()
	for _, w := range []types.Account{initializer, taker} {
		if err := d.ledger.Airdrop(w.PublicKey, demoAirdrop); err != nil {
			return err
		}
	}

	initializerA, err := d.tokenAccount(ctx, initializer, mintA.PublicKey)
	if err != nil {
		return errors.Wrap(err, "initializer A")
	}
	initializerB, err := d.tokenAccount(ctx, initializer, mintB.PublicKey)
	if err != nil {
		return errors.Wrap(err, "initializer B")
	}
	takerA, err := d.tokenAccount(ctx, taker, mintA.PublicKey)
	if err != nil {
		return errors.Wrap(err, "taker A")
	}
	takerB, err := d.tokenAccount(ctx, taker, mintB.PublicKey)
	if err != nil {
		return errors.Wrap(err, "taker B")
	}
	if err := d.send(ctx, []types.Account{initializer, mintA, mintB},
		sdktoken.MintTo(sdktoken.MintToParam{Mint: mintA.PublicKey, To: initializerA.PublicKey, Auth: mintA.PublicKey, Amount: offered}),
		sdktoken.MintTo(sdktoken.MintToParam{Mint: mintB.PublicKey, To: takerB.PublicKey, Auth: mintB.PublicKey, Amount: expected}),
	); err != nil {
		return errors.Wrap(err, "mint")
	}

	// The initializer funds a fresh temporary account, creates the record
	// account and opens the escrow in one transaction.
	temp, record := types.NewAccount(), types.NewAccount()
	rent := d.ledger.Rent()
	if err := d.send(ctx, []types.Account{initializer, temp, record},
		system.CreateAccount(system.CreateAccountParam{
			From:     initializer.PublicKey,
			New:      temp.PublicKey,
			Owner:    token.ProgramID,
			Lamports: rent.MinimumBalance(token.AccountLen),
			Space:    token.AccountLen,
		}),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: temp.PublicKey,
			Mint:    mintA.PublicKey,
			Owner:   initializer.PublicKey,
		}),
		sdktoken.Transfer(sdktoken.TransferParam{
			From:   initializerA.PublicKey,
			To:     temp.PublicKey,
			Auth:   initializer.PublicKey,
			Amount: offered,
		}),
		system.CreateAccount(system.CreateAccountParam{
			From:     initializer.PublicKey,
			New:      record.PublicKey,
			Owner:    d.programID,
			Lamports: rent.MinimumBalance(escrow.EscrowLen),
			Space:    escrow.EscrowLen,
		}),
		escrow.NewInitEscrowInstruction(d.programID, escrow.InitEscrowParam{
			Initializer:    initializer.PublicKey,
			TempToken:      temp.PublicKey,
			TokenToReceive: initializerB.PublicKey,
			Escrow:         record.PublicKey,
			ExpectedAmount: expected,
		}),
	); err != nil {
		return errors.Wrap(err, "init escrow")
	}

	watched := []struct {
		name string
		key  common.PublicKey
	}{
		{"initializer", initializer.PublicKey},
		{"initializer A", initializerA.PublicKey},
		{"initializer B", initializerB.PublicKey},
		{"taker A", takerA.PublicKey},
		{"taker B", takerB.PublicKey},
		{"temp token account", temp.PublicKey},
		{"escrow record", record.PublicKey},
	}
	report := func(title string) error {
		fmt.Fprintf(d.out, "%s\n", title)
		rows := make([][2]interface{}, 0, len(watched))
		for _, w := range watched {
			desc, err := d.describe(w.key)
			if err != nil {
				return err
			}
			rows = append(rows, [2]interface{}{"  " + w.name, desc})
		}
		return printTable(d.out, rows...)
	}

	if err := report("after InitEscrow"); err != nil {
		return err
	}

	exchange, err := escrow.NewExchangeInstruction(d.programID, escrow.ExchangeParam{
		Taker:                     taker.PublicKey,
		TakerSendingToken:         takerB.PublicKey,
		TakerTokenToReceive:       takerA.PublicKey,
		TempToken:                 temp.PublicKey,
		InitializerMain:           initializer.PublicKey,
		InitializerTokenToReceive: initializerB.PublicKey,
		Escrow:                    record.PublicKey,
		Amount:                    offered,
	})
	if err != nil {
		return err
	}
	if err := d.send(ctx, []types.Account{taker}, exchange); err != nil {
		return errors.Wrap(err, "exchange")
	}
	return report("after Exchange")
}

// tokenAccount creates a token account of the mint owned by the wallet.
func (d *demo) tokenAccount(ctx context.Context, owner types.Account, mint common.PublicKey) (types.Account, error) {
	acc := types.NewAccount()
	err := d.send(ctx, []types.Account{owner, acc},
		system.CreateAccount(system.CreateAccountParam{
			From:     owner.PublicKey,
			New:      acc.PublicKey,
			Owner:    token.ProgramID,
			Lamports: d.ledger.Rent().MinimumBalance(token.AccountLen),
			Space:    token.AccountLen,
		}),
		sdktoken.InitializeAccount(sdktoken.InitializeAccountParam{
			Account: acc.PublicKey,
			Mint:    mint,
			Owner:   owner.PublicKey,
		}),
	)
	return acc, err
}

func (d *demo) send(ctx context.Context, signers []types.Account, ixs ...types.Instruction) error {
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signers[0].PublicKey,
			RecentBlockhash: common.SystemProgramID.ToBase58(),
			Instructions:    ixs,
		}),
		Signers: signers,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "build transaction: %s", err)
	}
	return d.ledger.Execute(ctx, tx)
}

// describe returns the lamports and, for token accounts, the token amount
// of an account.
func (d *demo) describe(key common.PublicKey) (string, error) {
	ok, err := d.ledger.Exists(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "closed", nil
	}
	acc, err := d.ledger.Account(key)
	if err != nil {
		return "", err
	}
	if acc.Owner == token.ProgramID {
		if t, err := token.DecodeAccount(acc.Data); err == nil {
			return fmt.Sprintf("%d lamports, %d tokens", acc.Lamports, t.Amount), nil
		}
	}
	return fmt.Sprintf("%d lamports", acc.Lamports), nil
}
