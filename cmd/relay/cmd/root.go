package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// Storage backends register themselves with the connection manager.
	_ "github.com/lugondev/clmm-relay/internal/storage/mongo"
	_ "github.com/lugondev/clmm-relay/internal/storage/postgres"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Slippage-protection relay for the Raydium CLMM",
	Long: `clmm-relay sits between a user and the Raydium CLMM execution engine.

It provides commands for:
- Setting a per-owner slippage tolerance
- Relaying bounded swaps
- Opening positions and changing liquidity through the engine`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clmm-relay.yaml)")
	rootCmd.PersistentFlags().String("rpc", "", "Solana RPC endpoint")
	rootCmd.PersistentFlags().String("network", "devnet", "Solana network (mainnet, devnet, testnet)")
	rootCmd.PersistentFlags().String("keypair", "", "path to the payer keypair file")
	rootCmd.PersistentFlags().String("program", "", "CLMM program id override")

	bindings := map[string]string{
		"solana.rpc":         "rpc",
		"solana.network":     "network",
		"relay.keypair":      "keypair",
		"relay.clmm_program": "program",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
		}
	}
}
