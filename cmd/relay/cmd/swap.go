package cmd

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/spf13/cobra"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/relay"
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Relay a slippage-bounded swap",
	Long: `Relay a swap through the CLMM engine, bounded by your stored
slippage tolerance.

--amount fixes one side of the trade; --expected declares the counter-side
amount from which the protective threshold is derived. With --base-input the
threshold is a minimum output, otherwise a maximum input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		svc, err := rt.relayService()
		if err != nil {
			return err
		}
		owner, err := rt.owner()
		if err != nil {
			return err
		}

		accounts := clmm.SwapAccounts{Payer: owner}
		if accounts.PoolState, err = pubkeyFlag(cmd, "pool"); err != nil {
			return err
		}
		if accounts.AmmConfig, err = pubkeyFlag(cmd, "amm-config"); err != nil {
			return err
		}
		if accounts.InputTokenAccount, err = pubkeyFlag(cmd, "input-account"); err != nil {
			return err
		}
		if accounts.OutputTokenAccount, err = pubkeyFlag(cmd, "output-account"); err != nil {
			return err
		}
		if accounts.InputVault, err = pubkeyFlag(cmd, "input-vault"); err != nil {
			return err
		}
		if accounts.OutputVault, err = pubkeyFlag(cmd, "output-vault"); err != nil {
			return err
		}
		if accounts.ObservationState, err = pubkeyFlag(cmd, "observation"); err != nil {
			return err
		}
		if accounts.TickArray, err = pubkeyFlag(cmd, "tick-array"); err != nil {
			return err
		}

		amount, err := cmd.Flags().GetUint64("amount")
		if err != nil {
			return err
		}
		expected, err := cmd.Flags().GetUint64("expected")
		if err != nil {
			return err
		}
		isBaseInput, err := cmd.Flags().GetBool("base-input")
		if err != nil {
			return err
		}

		limitStr, err := cmd.Flags().GetString("sqrt-price-limit")
		if err != nil {
			return err
		}
		limit := bin.Uint128{}
		if limitStr != "" {
			if limit, err = parseUint128(limitStr); err != nil {
				return err
			}
		}

		req := relay.SwapRequest{
			Owner:               owner,
			Accounts:            accounts,
			Amount:              amount,
			ExpectedOtherAmount: expected,
			SqrtPriceLimitX64:   limit,
			IsBaseInput:         isBaseInput,
		}
		if err := svc.ProxySwap(ctx, req); err != nil {
			return err
		}

		fmt.Println("Swap relayed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().String("pool", "", "pool state account")
	swapCmd.Flags().String("amm-config", "", "AMM config account")
	swapCmd.Flags().String("input-account", "", "input token account")
	swapCmd.Flags().String("output-account", "", "output token account")
	swapCmd.Flags().String("input-vault", "", "pool input vault")
	swapCmd.Flags().String("output-vault", "", "pool output vault")
	swapCmd.Flags().String("observation", "", "pool observation account")
	swapCmd.Flags().String("tick-array", "", "tick array account")
	swapCmd.Flags().Uint64("amount", 0, "fixed-side amount")
	swapCmd.Flags().Uint64("expected", 0, "expected counter-side amount")
	swapCmd.Flags().String("sqrt-price-limit", "", "sqrt price limit (X64, decimal)")
	swapCmd.Flags().Bool("base-input", true, "amount fixes the input side")

	for _, name := range []string{
		"pool", "amm-config", "input-account", "output-account",
		"input-vault", "output-vault", "observation", "tick-array",
		"amount", "expected",
	} {
		cobra.CheckErr(swapCmd.MarkFlagRequired(name))
	}
}
