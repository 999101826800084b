package clmm

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/clmm-relay/pkg/types"
)

// Well-known program ids referenced by engine instructions.
var (
	Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	MemoProgramID      = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

// Instruction discriminators for the engine entry points the relay forwards to.
var (
	SwapDiscriminator                = InstructionDiscriminator("swap")
	OpenPositionV2Discriminator      = InstructionDiscriminator("open_position_v2")
	IncreaseLiquidityV2Discriminator = InstructionDiscriminator("increase_liquidity_v2")
	DecreaseLiquidityV2Discriminator = InstructionDiscriminator("decrease_liquidity_v2")
)

// SwapArgs are the wire arguments of the engine's swap entry point.
type SwapArgs struct {
	Amount               uint64      `json:"amount" borsh:"amount"`
	OtherAmountThreshold uint64      `json:"other_amount_threshold" borsh:"other_amount_threshold"`
	SqrtPriceLimitX64    bin.Uint128 `json:"sqrt_price_limit_x64" borsh:"sqrt_price_limit_x64"`
	IsBaseInput          bool        `json:"is_base_input" borsh:"is_base_input"`
}

// SwapAccounts are the accounts of the engine's swap entry point, in wire order.
type SwapAccounts struct {
	Payer              types.Pubkey
	AmmConfig          types.Pubkey
	PoolState          types.Pubkey
	InputTokenAccount  types.Pubkey
	OutputTokenAccount types.Pubkey
	InputVault         types.Pubkey
	OutputVault        types.Pubkey
	ObservationState   types.Pubkey
	TokenProgram       types.Pubkey
	TickArray          types.Pubkey
}

// BuildSwapInstruction builds the engine swap instruction.
func BuildSwapInstruction(programID types.Pubkey, accounts SwapAccounts, args SwapArgs) (*types.Instruction, error) {
	data, err := encodeInstructionData(SwapDiscriminator, args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap args: %w", err)
	}

	tokenProgram := accounts.TokenProgram
	if tokenProgram.IsZero() {
		tokenProgram = solana.TokenProgramID
	}

	return &types.Instruction{
		ProgramID: programID,
		Accounts: []types.AccountMeta{
			{Pubkey: accounts.Payer, IsSigner: true},
			types.Meta(accounts.AmmConfig),
			types.WritableMeta(accounts.PoolState),
			types.WritableMeta(accounts.InputTokenAccount),
			types.WritableMeta(accounts.OutputTokenAccount),
			types.WritableMeta(accounts.InputVault),
			types.WritableMeta(accounts.OutputVault),
			types.WritableMeta(accounts.ObservationState),
			types.Meta(tokenProgram),
			types.WritableMeta(accounts.TickArray),
		},
		Data: data,
	}, nil
}

// OpenPositionV2Args are the wire arguments of the engine's open_position_v2
// entry point. BaseFlag is a Borsh option.
type OpenPositionV2Args struct {
	TickLowerIndex           int32       `json:"tick_lower_index" borsh:"tick_lower_index"`
	TickUpperIndex           int32       `json:"tick_upper_index" borsh:"tick_upper_index"`
	TickArrayLowerStartIndex int32       `json:"tick_array_lower_start_index" borsh:"tick_array_lower_start_index"`
	TickArrayUpperStartIndex int32       `json:"tick_array_upper_start_index" borsh:"tick_array_upper_start_index"`
	Liquidity                bin.Uint128 `json:"liquidity" borsh:"liquidity"`
	Amount0Max               uint64      `json:"amount_0_max" borsh:"amount_0_max"`
	Amount1Max               uint64      `json:"amount_1_max" borsh:"amount_1_max"`
	WithMetadata             bool        `json:"with_metadata" borsh:"with_metadata"`
	BaseFlag                 *bool       `json:"base_flag,omitempty" borsh:"base_flag" bin:"optional"`
}

// OpenPositionV2Accounts are the accounts of the engine's open_position_v2
// entry point, in wire order.
type OpenPositionV2Accounts struct {
	Payer              types.Pubkey
	PositionNFTOwner   types.Pubkey
	PositionNFTMint    types.Pubkey
	PositionNFTAccount types.Pubkey
	MetadataAccount    types.Pubkey
	PoolState          types.Pubkey
	ProtocolPosition   types.Pubkey
	TickArrayLower     types.Pubkey
	TickArrayUpper     types.Pubkey
	PersonalPosition   types.Pubkey
	TokenAccount0      types.Pubkey
	TokenAccount1      types.Pubkey
	TokenVault0        types.Pubkey
	TokenVault1        types.Pubkey
	Vault0Mint         types.Pubkey
	Vault1Mint         types.Pubkey

	// RemainingAccounts are engine-side metadata-issuance extras, passed
	// through opaquely.
	RemainingAccounts []types.AccountMeta
}

// BuildOpenPositionV2Instruction builds the engine open_position_v2 instruction.
func BuildOpenPositionV2Instruction(programID types.Pubkey, accounts OpenPositionV2Accounts, args OpenPositionV2Args) (*types.Instruction, error) {
	data, err := encodeInstructionData(OpenPositionV2Discriminator, args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode open_position_v2 args: %w", err)
	}

	metas := []types.AccountMeta{
		types.SignerMeta(accounts.Payer),
		types.Meta(accounts.PositionNFTOwner),
		types.SignerMeta(accounts.PositionNFTMint),
		types.WritableMeta(accounts.PositionNFTAccount),
		types.WritableMeta(accounts.MetadataAccount),
		types.WritableMeta(accounts.PoolState),
		types.WritableMeta(accounts.ProtocolPosition),
		types.WritableMeta(accounts.TickArrayLower),
		types.WritableMeta(accounts.TickArrayUpper),
		types.WritableMeta(accounts.PersonalPosition),
		types.WritableMeta(accounts.TokenAccount0),
		types.WritableMeta(accounts.TokenAccount1),
		types.WritableMeta(accounts.TokenVault0),
		types.WritableMeta(accounts.TokenVault1),
		types.Meta(solana.SysVarRentPubkey),
		types.Meta(solana.SystemProgramID),
		types.Meta(solana.TokenProgramID),
		types.Meta(solana.SPLAssociatedTokenAccountProgramID),
		types.Meta(MetadataProgramID),
		types.Meta(Token2022ProgramID),
		types.Meta(accounts.Vault0Mint),
		types.Meta(accounts.Vault1Mint),
	}
	metas = append(metas, accounts.RemainingAccounts...)

	return &types.Instruction{
		ProgramID: programID,
		Accounts:  metas,
		Data:      data,
	}, nil
}

// IncreaseLiquidityV2Args are the wire arguments of increase_liquidity_v2.
type IncreaseLiquidityV2Args struct {
	Liquidity  bin.Uint128 `json:"liquidity" borsh:"liquidity"`
	Amount0Max uint64      `json:"amount_0_max" borsh:"amount_0_max"`
	Amount1Max uint64      `json:"amount_1_max" borsh:"amount_1_max"`
	BaseFlag   *bool       `json:"base_flag,omitempty" borsh:"base_flag" bin:"optional"`
}

// LiquidityChangeAccounts are the accounts shared by the engine's
// increase_liquidity_v2 and decrease_liquidity_v2 entry points.
type LiquidityChangeAccounts struct {
	NFTOwner         types.Pubkey
	NFTAccount       types.Pubkey
	PoolState        types.Pubkey
	ProtocolPosition types.Pubkey
	PersonalPosition types.Pubkey
	TickArrayLower   types.Pubkey
	TickArrayUpper   types.Pubkey
	TokenAccount0    types.Pubkey
	TokenAccount1    types.Pubkey
	TokenVault0      types.Pubkey
	TokenVault1      types.Pubkey
	Vault0Mint       types.Pubkey
	Vault1Mint       types.Pubkey
}

// BuildIncreaseLiquidityV2Instruction builds the engine increase_liquidity_v2 instruction.
func BuildIncreaseLiquidityV2Instruction(programID types.Pubkey, accounts LiquidityChangeAccounts, args IncreaseLiquidityV2Args) (*types.Instruction, error) {
	data, err := encodeInstructionData(IncreaseLiquidityV2Discriminator, args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode increase_liquidity_v2 args: %w", err)
	}

	return &types.Instruction{
		ProgramID: programID,
		Accounts: []types.AccountMeta{
			{Pubkey: accounts.NFTOwner, IsSigner: true},
			types.Meta(accounts.NFTAccount),
			types.WritableMeta(accounts.PoolState),
			types.WritableMeta(accounts.ProtocolPosition),
			types.WritableMeta(accounts.PersonalPosition),
			types.WritableMeta(accounts.TickArrayLower),
			types.WritableMeta(accounts.TickArrayUpper),
			types.WritableMeta(accounts.TokenAccount0),
			types.WritableMeta(accounts.TokenAccount1),
			types.WritableMeta(accounts.TokenVault0),
			types.WritableMeta(accounts.TokenVault1),
			types.Meta(solana.TokenProgramID),
			types.Meta(Token2022ProgramID),
			types.Meta(accounts.Vault0Mint),
			types.Meta(accounts.Vault1Mint),
		},
		Data: data,
	}, nil
}

// DecreaseLiquidityV2Args are the wire arguments of decrease_liquidity_v2.
// Amount0Min and Amount1Min are withdrawal floors; zero is allowed.
type DecreaseLiquidityV2Args struct {
	Liquidity  bin.Uint128 `json:"liquidity" borsh:"liquidity"`
	Amount0Min uint64      `json:"amount_0_min" borsh:"amount_0_min"`
	Amount1Min uint64      `json:"amount_1_min" borsh:"amount_1_min"`
}

// BuildDecreaseLiquidityV2Instruction builds the engine decrease_liquidity_v2 instruction.
func BuildDecreaseLiquidityV2Instruction(programID types.Pubkey, accounts LiquidityChangeAccounts, args DecreaseLiquidityV2Args) (*types.Instruction, error) {
	data, err := encodeInstructionData(DecreaseLiquidityV2Discriminator, args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode decrease_liquidity_v2 args: %w", err)
	}

	return &types.Instruction{
		ProgramID: programID,
		Accounts: []types.AccountMeta{
			{Pubkey: accounts.NFTOwner, IsSigner: true},
			types.Meta(accounts.NFTAccount),
			types.WritableMeta(accounts.PersonalPosition),
			types.WritableMeta(accounts.PoolState),
			types.WritableMeta(accounts.ProtocolPosition),
			types.WritableMeta(accounts.TokenVault0),
			types.WritableMeta(accounts.TokenVault1),
			types.WritableMeta(accounts.TickArrayLower),
			types.WritableMeta(accounts.TickArrayUpper),
			types.WritableMeta(accounts.TokenAccount0),
			types.WritableMeta(accounts.TokenAccount1),
			types.Meta(solana.TokenProgramID),
			types.Meta(Token2022ProgramID),
			types.Meta(MemoProgramID),
			types.Meta(accounts.Vault0Mint),
			types.Meta(accounts.Vault1Mint),
		},
		Data: data,
	}, nil
}

func encodeInstructionData(discriminator [8]byte, args interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(discriminator[:])
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
