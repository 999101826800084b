package clmm

import (
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/lugondev/clmm-relay/pkg/types"
)

// Account discriminators for the engine state the relay reads.
var (
	PoolStateDiscriminator      = AccountDiscriminator("PoolState")
	TickArrayStateDiscriminator = AccountDiscriminator("TickArrayState")
)

// PoolState is the prefix of the engine's pool account that the relay needs
// for cross-entity validation. The full account carries fee and reward
// bookkeeping the relay never reads; decoding stops after TickCurrent.
type PoolState struct {
	Bump           uint8        `json:"bump"`
	AmmConfig      types.Pubkey `json:"amm_config"`
	Owner          types.Pubkey `json:"owner"`
	TokenMint0     types.Pubkey `json:"token_mint_0"`
	TokenMint1     types.Pubkey `json:"token_mint_1"`
	TokenVault0    types.Pubkey `json:"token_vault_0"`
	TokenVault1    types.Pubkey `json:"token_vault_1"`
	ObservationKey types.Pubkey `json:"observation_key"`
	MintDecimals0  uint8        `json:"mint_decimals_0"`
	MintDecimals1  uint8        `json:"mint_decimals_1"`
	TickSpacing    uint16       `json:"tick_spacing"`
	Liquidity      bin.Uint128  `json:"liquidity"`
	SqrtPriceX64   bin.Uint128  `json:"sqrt_price_x64"`
	TickCurrent    int32        `json:"tick_current"`

	// Address is the account's own pubkey, set by the reader.
	Address types.Pubkey `json:"-"`
}

// DecodePoolState decodes the validated prefix of a pool account.
func DecodePoolState(address types.Pubkey, data []byte) (*PoolState, error) {
	if err := checkDiscriminator(data, PoolStateDiscriminator, "PoolState"); err != nil {
		return nil, err
	}

	dec := bin.NewBorshDecoder(data[8:])
	pool := &PoolState{Address: address}
	fields := []interface{}{
		&pool.Bump, &pool.AmmConfig, &pool.Owner,
		&pool.TokenMint0, &pool.TokenMint1,
		&pool.TokenVault0, &pool.TokenVault1,
		&pool.ObservationKey,
		&pool.MintDecimals0, &pool.MintDecimals1,
		&pool.TickSpacing,
		&pool.Liquidity, &pool.SqrtPriceX64,
		&pool.TickCurrent,
	}
	for _, field := range fields {
		if err := dec.Decode(field); err != nil {
			return nil, fmt.Errorf("failed to decode PoolState: %w", err)
		}
	}
	return pool, nil
}

// TickArrayState is the header of the engine's tick array account. The tick
// entries themselves are engine-internal.
type TickArrayState struct {
	PoolID         types.Pubkey `json:"pool_id"`
	StartTickIndex int32        `json:"start_tick_index"`

	// Address is the account's own pubkey, set by the reader.
	Address types.Pubkey `json:"-"`
}

// DecodeTickArrayState decodes the header of a tick array account.
func DecodeTickArrayState(address types.Pubkey, data []byte) (*TickArrayState, error) {
	if err := checkDiscriminator(data, TickArrayStateDiscriminator, "TickArrayState"); err != nil {
		return nil, err
	}

	dec := bin.NewBorshDecoder(data[8:])
	arr := &TickArrayState{Address: address}
	if err := dec.Decode(&arr.PoolID); err != nil {
		return nil, fmt.Errorf("failed to decode TickArrayState: %w", err)
	}
	if err := dec.Decode(&arr.StartTickIndex); err != nil {
		return nil, fmt.Errorf("failed to decode TickArrayState: %w", err)
	}
	return arr, nil
}

// TokenAccount is the prefix of an SPL token account. Token accounts carry
// no Anchor discriminator; the layout is fixed by the token program.
type TokenAccount struct {
	Mint   types.Pubkey `json:"mint"`
	Owner  types.Pubkey `json:"owner"`
	Amount uint64       `json:"amount"`

	// Address is the account's own pubkey, set by the reader.
	Address types.Pubkey `json:"-"`
}

// DecodeTokenAccount decodes the mint, owner, and amount of an SPL token
// account. Works for both the legacy token program and token-2022, whose
// base layouts agree on these fields.
func DecodeTokenAccount(address types.Pubkey, data []byte) (*TokenAccount, error) {
	if len(data) < 72 {
		return nil, fmt.Errorf("token account data too short: %d bytes", len(data))
	}

	dec := bin.NewBorshDecoder(data)
	acc := &TokenAccount{Address: address}
	if err := dec.Decode(&acc.Mint); err != nil {
		return nil, fmt.Errorf("failed to decode token account: %w", err)
	}
	if err := dec.Decode(&acc.Owner); err != nil {
		return nil, fmt.Errorf("failed to decode token account: %w", err)
	}
	if err := dec.Decode(&acc.Amount); err != nil {
		return nil, fmt.Errorf("failed to decode token account: %w", err)
	}
	return acc, nil
}

func checkDiscriminator(data []byte, want [8]byte, name string) error {
	if len(data) < 8 {
		return fmt.Errorf("data too short for %s account", name)
	}
	var disc [8]byte
	copy(disc[:], data[:8])
	if disc != want {
		return fmt.Errorf("invalid discriminator for %s", name)
	}
	return nil
}
