package clmm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	relaysol "github.com/lugondev/clmm-relay/internal/solana"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// Engine is the execution-engine boundary. Implementations are assumed to
// validate their own pricing, tick, and fee invariants, move value exactly
// once on success, and leave all state unchanged on failure.
type Engine interface {
	// Swap forwards a bounded swap call.
	Swap(ctx context.Context, accounts SwapAccounts, args SwapArgs) error

	// OpenPosition forwards an open-position call.
	OpenPosition(ctx context.Context, accounts OpenPositionV2Accounts, args OpenPositionV2Args) error

	// IncreaseLiquidity forwards an increase-liquidity call.
	IncreaseLiquidity(ctx context.Context, accounts LiquidityChangeAccounts, args IncreaseLiquidityV2Args) error

	// DecreaseLiquidity forwards a decrease-liquidity call.
	DecreaseLiquidity(ctx context.Context, accounts LiquidityChangeAccounts, args DecreaseLiquidityV2Args) error
}

// StateReader reads engine-owned account state. The relay treats everything
// it returns as the authoritative side of its trust boundary.
type StateReader interface {
	// PoolState reads and decodes a pool account.
	PoolState(ctx context.Context, pool types.Pubkey) (*PoolState, error)

	// TickArray reads and decodes a tick array header.
	TickArray(ctx context.Context, tickArray types.Pubkey) (*TickArrayState, error)

	// TokenAccount reads and decodes an SPL token account.
	TokenAccount(ctx context.Context, account types.Pubkey) (*TokenAccount, error)
}

// accountGetter is the slice of the RPC client the reader needs.
type accountGetter interface {
	GetAccount(ctx context.Context, pubkey solana.PublicKey) (*types.Account, error)
}

// RPCStateReader reads engine state over Solana RPC.
type RPCStateReader struct {
	client accountGetter
}

// NewRPCStateReader creates a state reader backed by the given RPC client.
func NewRPCStateReader(client accountGetter) *RPCStateReader {
	return &RPCStateReader{client: client}
}

// PoolState implements StateReader.
func (r *RPCStateReader) PoolState(ctx context.Context, pool types.Pubkey) (*PoolState, error) {
	data, err := r.fetch(ctx, pool)
	if err != nil {
		return nil, err
	}
	return DecodePoolState(pool, data)
}

// TickArray implements StateReader.
func (r *RPCStateReader) TickArray(ctx context.Context, tickArray types.Pubkey) (*TickArrayState, error) {
	data, err := r.fetch(ctx, tickArray)
	if err != nil {
		return nil, err
	}
	return DecodeTickArrayState(tickArray, data)
}

// TokenAccount implements StateReader.
func (r *RPCStateReader) TokenAccount(ctx context.Context, account types.Pubkey) (*TokenAccount, error) {
	data, err := r.fetch(ctx, account)
	if err != nil {
		return nil, err
	}
	return DecodeTokenAccount(account, data)
}

func (r *RPCStateReader) fetch(ctx context.Context, pubkey types.Pubkey) ([]byte, error) {
	account, err := r.client.GetAccount(ctx, pubkey)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account %s not found", pubkey.String())
	}
	return account.Data, nil
}

// TransactionEngine submits engine calls as single Solana transactions.
// The enclosing runtime guarantees each call either completes or leaves all
// state unchanged.
type TransactionEngine struct {
	programID types.Pubkey
	client    *relaysol.Client
	wallet    *relaysol.Wallet
	logger    *slog.Logger

	// extraSigners hold keypairs beyond the payer that the next call must
	// be signed with, such as a fresh position NFT mint.
	extraSigners []solana.PrivateKey
}

// NewTransactionEngine creates an engine that forwards calls to the given
// CLMM program over RPC.
func NewTransactionEngine(programID types.Pubkey, client *relaysol.Client, wallet *relaysol.Wallet) *TransactionEngine {
	return &TransactionEngine{
		programID: programID,
		client:    client,
		wallet:    wallet,
		logger:    slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (e *TransactionEngine) WithLogger(logger *slog.Logger) *TransactionEngine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithExtraSigners registers additional signing keys for subsequent calls.
func (e *TransactionEngine) WithExtraSigners(keys ...solana.PrivateKey) *TransactionEngine {
	e.extraSigners = append(e.extraSigners, keys...)
	return e
}

// Swap implements Engine.
func (e *TransactionEngine) Swap(ctx context.Context, accounts SwapAccounts, args SwapArgs) error {
	ix, err := BuildSwapInstruction(e.programID, accounts, args)
	if err != nil {
		return err
	}
	return e.submit(ctx, ix, "swap")
}

// OpenPosition implements Engine.
func (e *TransactionEngine) OpenPosition(ctx context.Context, accounts OpenPositionV2Accounts, args OpenPositionV2Args) error {
	ix, err := BuildOpenPositionV2Instruction(e.programID, accounts, args)
	if err != nil {
		return err
	}
	return e.submit(ctx, ix, "open_position_v2")
}

// IncreaseLiquidity implements Engine.
func (e *TransactionEngine) IncreaseLiquidity(ctx context.Context, accounts LiquidityChangeAccounts, args IncreaseLiquidityV2Args) error {
	ix, err := BuildIncreaseLiquidityV2Instruction(e.programID, accounts, args)
	if err != nil {
		return err
	}
	return e.submit(ctx, ix, "increase_liquidity_v2")
}

// DecreaseLiquidity implements Engine.
func (e *TransactionEngine) DecreaseLiquidity(ctx context.Context, accounts LiquidityChangeAccounts, args DecreaseLiquidityV2Args) error {
	ix, err := BuildDecreaseLiquidityV2Instruction(e.programID, accounts, args)
	if err != nil {
		return err
	}
	return e.submit(ctx, ix, "decrease_liquidity_v2")
}

func (e *TransactionEngine) submit(ctx context.Context, ix *types.Instruction, name string) error {
	blockhash, err := e.client.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix.ToSolanaInstruction()},
		blockhash,
		solana.TransactionPayer(e.wallet.PublicKey()),
	)
	if err != nil {
		return fmt.Errorf("failed to build transaction: %w", err)
	}

	if err := e.wallet.Sign(tx, e.extraSigners...); err != nil {
		return err
	}

	sig, err := e.client.SendTransaction(ctx, tx)
	if err != nil {
		return err
	}

	e.logger.Info("engine call submitted",
		"instruction", name,
		"signature", sig.String(),
	)
	return nil
}
