package cmd

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/relay"
	"github.com/lugondev/clmm-relay/pkg/types"
)

var increaseLiquidityCmd = &cobra.Command{
	Use:   "increase-liquidity",
	Short: "Add liquidity to an existing position",
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

		accounts, liquidity, err := liquidityChangeInputs(cmd, rt, owner)
		if err != nil {
			return err
		}
		amount0Max, err := cmd.Flags().GetUint64("amount0-max")
		if err != nil {
			return err
		}
		amount1Max, err := cmd.Flags().GetUint64("amount1-max")
		if err != nil {
			return err
		}

		req := relay.IncreaseLiquidityRequest{
			Owner:      owner,
			Accounts:   accounts,
			Liquidity:  liquidity,
			Amount0Max: amount0Max,
			Amount1Max: amount1Max,
		}
		if err := svc.IncreaseLiquidity(ctx, req); err != nil {
			return err
		}

		fmt.Println("Liquidity increased")
		return nil
	},
}

var decreaseLiquidityCmd = &cobra.Command{
	Use:   "decrease-liquidity",
	Short: "Remove liquidity from an existing position",
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

		accounts, liquidity, err := liquidityChangeInputs(cmd, rt, owner)
		if err != nil {
			return err
		}
		amount0Min, err := cmd.Flags().GetUint64("amount0-min")
		if err != nil {
			return err
		}
		amount1Min, err := cmd.Flags().GetUint64("amount1-min")
		if err != nil {
			return err
		}

		req := relay.DecreaseLiquidityRequest{
			Owner:      owner,
			Accounts:   accounts,
			Liquidity:  liquidity,
			Amount0Min: amount0Min,
			Amount1Min: amount1Min,
		}
		if err := svc.DecreaseLiquidity(ctx, req); err != nil {
			return err
		}

		fmt.Println("Liquidity decreased")
		return nil
	},
}

// liquidityChangeInputs parses the accounts shared by the two liquidity
// commands, deriving position and tick array addresses and reading vaults
// and mints from the pool.
func liquidityChangeInputs(cmd *cobra.Command, rt *runtime, owner types.Pubkey) (clmm.LiquidityChangeAccounts, bin.Uint128, error) {
	var accounts clmm.LiquidityChangeAccounts
	var liquidity bin.Uint128

	pool, err := pubkeyFlag(cmd, "pool")
	if err != nil {
		return accounts, liquidity, err
	}
	nftMint, err := pubkeyFlag(cmd, "nft-mint")
	if err != nil {
		return accounts, liquidity, err
	}
	tokenAccount0, err := pubkeyFlag(cmd, "token-account0")
	if err != nil {
		return accounts, liquidity, err
	}
	tokenAccount1, err := pubkeyFlag(cmd, "token-account1")
	if err != nil {
		return accounts, liquidity, err
	}

	tickLower, err := cmd.Flags().GetInt32("tick-lower")
	if err != nil {
		return accounts, liquidity, err
	}
	tickUpper, err := cmd.Flags().GetInt32("tick-upper")
	if err != nil {
		return accounts, liquidity, err
	}
	lowerStart, err := cmd.Flags().GetInt32("tick-array-lower-start")
	if err != nil {
		return accounts, liquidity, err
	}
	upperStart, err := cmd.Flags().GetInt32("tick-array-upper-start")
	if err != nil {
		return accounts, liquidity, err
	}

	liquidityStr, err := cmd.Flags().GetString("liquidity")
	if err != nil {
		return accounts, liquidity, err
	}
	if liquidity, err = parseUint128(liquidityStr); err != nil {
		return accounts, liquidity, err
	}

	programID, err := rt.programID()
	if err != nil {
		return accounts, liquidity, err
	}

	poolState, err := rt.state.PoolState(cmd.Context(), pool)
	if err != nil {
		return accounts, liquidity, err
	}

	nftAccount, _, err := solana.FindAssociatedTokenAddress(owner, nftMint)
	if err != nil {
		return accounts, liquidity, err
	}
	personalPosition, err := clmm.DerivePersonalPosition(programID, nftMint)
	if err != nil {
		return accounts, liquidity, err
	}
	protocolPosition, err := clmm.DeriveProtocolPosition(programID, pool, tickLower, tickUpper)
	if err != nil {
		return accounts, liquidity, err
	}
	tickArrayLower, err := clmm.DeriveTickArray(programID, pool, lowerStart)
	if err != nil {
		return accounts, liquidity, err
	}
	tickArrayUpper, err := clmm.DeriveTickArray(programID, pool, upperStart)
	if err != nil {
		return accounts, liquidity, err
	}

	accounts = clmm.LiquidityChangeAccounts{
		NFTOwner:         owner,
		NFTAccount:       nftAccount,
		PoolState:        pool,
		ProtocolPosition: protocolPosition,
		PersonalPosition: personalPosition,
		TickArrayLower:   tickArrayLower,
		TickArrayUpper:   tickArrayUpper,
		TokenAccount0:    tokenAccount0,
		TokenAccount1:    tokenAccount1,
		TokenVault0:      poolState.TokenVault0,
		TokenVault1:      poolState.TokenVault1,
		Vault0Mint:       poolState.TokenMint0,
		Vault1Mint:       poolState.TokenMint1,
	}
	return accounts, liquidity, nil
}

func init() {
	rootCmd.AddCommand(increaseLiquidityCmd)
	rootCmd.AddCommand(decreaseLiquidityCmd)

	for _, c := range []*cobra.Command{increaseLiquidityCmd, decreaseLiquidityCmd} {
		c.Flags().String("pool", "", "pool state account")
		c.Flags().String("nft-mint", "", "position NFT mint")
		c.Flags().String("token-account0", "", "token 0 account")
		c.Flags().String("token-account1", "", "token 1 account")
		c.Flags().Int32("tick-lower", 0, "lower tick index")
		c.Flags().Int32("tick-upper", 0, "upper tick index")
		c.Flags().Int32("tick-array-lower-start", 0, "start index of the lower tick array")
		c.Flags().Int32("tick-array-upper-start", 0, "start index of the upper tick array")
		c.Flags().String("liquidity", "0", "liquidity delta (decimal, 128-bit)")

		for _, name := range []string{
			"pool", "nft-mint", "token-account0", "token-account1",
			"tick-lower", "tick-upper",
			"tick-array-lower-start", "tick-array-upper-start",
			"liquidity",
		} {
			cobra.CheckErr(c.MarkFlagRequired(name))
		}
	}

	increaseLiquidityCmd.Flags().Uint64("amount0-max", 0, "max token 0 deposit")
	increaseLiquidityCmd.Flags().Uint64("amount1-max", 0, "max token 1 deposit")
	decreaseLiquidityCmd.Flags().Uint64("amount0-min", 0, "min token 0 withdrawal")
	decreaseLiquidityCmd.Flags().Uint64("amount1-min", 0, "min token 1 withdrawal")
}
