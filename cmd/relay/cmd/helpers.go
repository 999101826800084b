package cmd

import (
	"encoding/binary"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/lugondev/clmm-relay/pkg/types"
)

func parsePubkey(s string) (types.Pubkey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("invalid pubkey %q: %w", s, err)
	}
	return key, nil
}

// pubkeyFlag reads a flag and parses it as a base58 pubkey.
func pubkeyFlag(cmd *cobra.Command, name string) (types.Pubkey, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return types.Pubkey{}, err
	}
	key, err := parsePubkey(value)
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("--%s: %w", name, err)
	}
	return key, nil
}

// parseUint128 parses a non-negative decimal string into a 128-bit value.
func parseUint128(s string) (bin.Uint128, error) {
	value, ok := new(big.Int).SetString(s, 10)
	if !ok || value.Sign() < 0 || value.BitLen() > 128 {
		return bin.Uint128{}, fmt.Errorf("invalid 128-bit value %q", s)
	}

	var buf [16]byte
	value.FillBytes(buf[:])
	return bin.Uint128{
		Hi: binary.BigEndian.Uint64(buf[0:8]),
		Lo: binary.BigEndian.Uint64(buf[8:16]),
	}, nil
}
