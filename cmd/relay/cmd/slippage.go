package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lugondev/clmm-relay/pkg/types"
)

var setSlippageCmd = &cobra.Command{
	Use:   "set-slippage [bps]",
	Short: "Set your slippage tolerance",
	Long: `Store a slippage tolerance in basis points for the payer keypair.

The tolerance must be between 1 and 500 (0.01% to 5%). Every relayed swap
is bounded by it. Owners who never set one trade with the 500 bps default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bps, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid basis points %q: %w", args[0], err)
		}

		ctx := cmd.Context()
		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		owner, err := rt.owner()
		if err != nil {
			return err
		}
		if err := rt.slippage.SetSlippage(ctx, owner, uint16(bps)); err != nil {
			return err
		}

		fmt.Printf("Slippage for %s set to %d bps\n", owner.String(), bps)
		return nil
	},
}

var getSlippageCmd = &cobra.Command{
	Use:   "get-slippage [owner]",
	Short: "Show the effective slippage tolerance",
	Long: `Show the slippage tolerance a swap would be bounded by.

With no argument the payer keypair's tolerance is shown. Owners without a
stored setting resolve to the 500 bps default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		var owner types.Pubkey
		if len(args) == 1 {
			owner, err = parsePubkey(args[0])
		} else {
			owner, err = rt.owner()
		}
		if err != nil {
			return err
		}

		bps, err := rt.slippage.ResolveFor(ctx, owner)
		if err != nil {
			return err
		}

		fmt.Printf("Effective slippage for %s: %d bps\n", owner.String(), bps)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setSlippageCmd)
	rootCmd.AddCommand(getSlippageCmd)
}
