package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/relay"
)

var openPositionCmd = &cobra.Command{
	Use:   "open-position",
	Short: "Open a position through the engine",
	Long: `Open a concentrated liquidity position.

A fresh position NFT mint is generated and signed locally. The protocol
position, tick arrays, and personal position addresses are derived from the
engine's deterministic scheme; vaults and mints are read from the pool.`,
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
		programID, err := rt.programID()
		if err != nil {
			return err
		}

		pool, err := pubkeyFlag(cmd, "pool")
		if err != nil {
			return err
		}
		tokenAccount0, err := pubkeyFlag(cmd, "token-account0")
		if err != nil {
			return err
		}
		tokenAccount1, err := pubkeyFlag(cmd, "token-account1")
		if err != nil {
			return err
		}

		tickLower, err := cmd.Flags().GetInt32("tick-lower")
		if err != nil {
			return err
		}
		tickUpper, err := cmd.Flags().GetInt32("tick-upper")
		if err != nil {
			return err
		}
		lowerStart, err := cmd.Flags().GetInt32("tick-array-lower-start")
		if err != nil {
			return err
		}
		upperStart, err := cmd.Flags().GetInt32("tick-array-upper-start")
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
		withMetadata, err := cmd.Flags().GetBool("with-metadata")
		if err != nil {
			return err
		}

		liquidityStr, err := cmd.Flags().GetString("liquidity")
		if err != nil {
			return err
		}
		liquidity, err := parseUint128(liquidityStr)
		if err != nil {
			return err
		}

		poolState, err := rt.state.PoolState(ctx, pool)
		if err != nil {
			return err
		}

		nftMint := solana.NewWallet()
		rt.engine.WithExtraSigners(nftMint.PrivateKey)

		nftAccount, _, err := solana.FindAssociatedTokenAddress(owner, nftMint.PublicKey())
		if err != nil {
			return err
		}
		metadata, err := clmm.DeriveMetadataAccount(nftMint.PublicKey())
		if err != nil {
			return err
		}
		protocolPosition, err := clmm.DeriveProtocolPosition(programID, pool, tickLower, tickUpper)
		if err != nil {
			return err
		}
		tickArrayLower, err := clmm.DeriveTickArray(programID, pool, lowerStart)
		if err != nil {
			return err
		}
		tickArrayUpper, err := clmm.DeriveTickArray(programID, pool, upperStart)
		if err != nil {
			return err
		}
		personalPosition, err := clmm.DerivePersonalPosition(programID, nftMint.PublicKey())
		if err != nil {
			return err
		}

		req := relay.OpenPositionRequest{
			Owner: owner,
			Accounts: clmm.OpenPositionV2Accounts{
				Payer:              owner,
				PositionNFTOwner:   owner,
				PositionNFTMint:    nftMint.PublicKey(),
				PositionNFTAccount: nftAccount,
				MetadataAccount:    metadata,
				PoolState:          pool,
				ProtocolPosition:   protocolPosition,
				TickArrayLower:     tickArrayLower,
				TickArrayUpper:     tickArrayUpper,
				PersonalPosition:   personalPosition,
				TokenAccount0:      tokenAccount0,
				TokenAccount1:      tokenAccount1,
				TokenVault0:        poolState.TokenVault0,
				TokenVault1:        poolState.TokenVault1,
				Vault0Mint:         poolState.TokenMint0,
				Vault1Mint:         poolState.TokenMint1,
			},
			TickLowerIndex:           tickLower,
			TickUpperIndex:           tickUpper,
			TickArrayLowerStartIndex: lowerStart,
			TickArrayUpperStartIndex: upperStart,
			Liquidity:                liquidity,
			Amount0Max:               amount0Max,
			Amount1Max:               amount1Max,
			WithMetadata:             withMetadata,
		}
		if err := svc.ProxyOpenPosition(ctx, req); err != nil {
			return err
		}

		fmt.Printf("Position opened\n")
		fmt.Printf("  NFT Mint: %s\n", nftMint.PublicKey().String())
		fmt.Printf("  Position: %s\n", personalPosition.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openPositionCmd)

	openPositionCmd.Flags().String("pool", "", "pool state account")
	openPositionCmd.Flags().String("token-account0", "", "deposit account for token 0")
	openPositionCmd.Flags().String("token-account1", "", "deposit account for token 1")
	openPositionCmd.Flags().Int32("tick-lower", 0, "lower tick index")
	openPositionCmd.Flags().Int32("tick-upper", 0, "upper tick index")
	openPositionCmd.Flags().Int32("tick-array-lower-start", 0, "start index of the lower tick array")
	openPositionCmd.Flags().Int32("tick-array-upper-start", 0, "start index of the upper tick array")
	openPositionCmd.Flags().String("liquidity", "0", "liquidity to mint (decimal, 128-bit)")
	openPositionCmd.Flags().Uint64("amount0-max", 0, "max token 0 deposit")
	openPositionCmd.Flags().Uint64("amount1-max", 0, "max token 1 deposit")
	openPositionCmd.Flags().Bool("with-metadata", false, "attach NFT metadata")

	for _, name := range []string{
		"pool", "token-account0", "token-account1",
		"tick-lower", "tick-upper",
		"tick-array-lower-start", "tick-array-upper-start",
		"liquidity",
	} {
		cobra.CheckErr(openPositionCmd.MarkFlagRequired(name))
	}
}
