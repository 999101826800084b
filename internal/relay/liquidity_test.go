package relay

import (
	"context"
	"testing"

	bin "github.com/gagliardetto/binary"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/errors"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// liquidityFixture builds a pool and a matching liquidity-change account set.
type liquidityFixture struct {
	owner    types.Pubkey
	accounts clmm.LiquidityChangeAccounts
}

func newLiquidityFixture(h *testHarness) *liquidityFixture {
	owner := key()
	pool := key()
	mint0, mint1 := key(), key()
	vault0, vault1 := key(), key()

	h.state.pools[pool] = &clmm.PoolState{
		TokenMint0:  mint0,
		TokenMint1:  mint1,
		TokenVault0: vault0,
		TokenVault1: vault1,
		Address:     pool,
	}

	tokenAccount0, tokenAccount1 := key(), key()
	h.state.tokenAccounts[tokenAccount0] = &clmm.TokenAccount{Mint: mint0, Owner: owner}
	h.state.tokenAccounts[tokenAccount1] = &clmm.TokenAccount{Mint: mint1, Owner: owner}

	return &liquidityFixture{
		owner: owner,
		accounts: clmm.LiquidityChangeAccounts{
			NFTOwner:         owner,
			NFTAccount:       key(),
			PoolState:        pool,
			ProtocolPosition: key(),
			PersonalPosition: key(),
			TickArrayLower:   key(),
			TickArrayUpper:   key(),
			TokenAccount0:    tokenAccount0,
			TokenAccount1:    tokenAccount1,
			TokenVault0:      vault0,
			TokenVault1:      vault1,
			Vault0Mint:       mint0,
			Vault1Mint:       mint1,
		},
	}
}

func TestIncreaseLiquidity(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards a valid request and emits an event", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		req := IncreaseLiquidityRequest{
			Owner:      f.owner,
			Accounts:   f.accounts,
			Liquidity:  bin.Uint128{Lo: 2_500},
			Amount0Max: 1_000,
			Amount1Max: 1_000,
		}
		if err := h.svc.IncreaseLiquidity(ctx, req); err != nil {
			t.Fatalf("IncreaseLiquidity: %v", err)
		}

		if len(h.engine.increases) != 1 {
			t.Fatalf("engine received %d increase calls, want 1", len(h.engine.increases))
		}
		if len(h.emitter.events) != 1 {
			t.Fatalf("emitted %d events, want 1", len(h.emitter.events))
		}
		increased, ok := h.emitter.events[0].(*event.LiquidityIncreased)
		if !ok {
			t.Fatalf("emitted %T, want *event.LiquidityIncreased", h.emitter.events[0])
		}
		if increased.Liquidity != "2500" {
			t.Errorf("event liquidity = %s, want 2500", increased.Liquidity)
		}
	})

	t.Run("rejects zero liquidity", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		req := IncreaseLiquidityRequest{
			Owner:      f.owner,
			Accounts:   f.accounts,
			Amount0Max: 1_000,
		}
		if err := h.svc.IncreaseLiquidity(ctx, req); !errors.Is(err, errors.ErrZeroLiquidity) {
			t.Fatalf("IncreaseLiquidity = %v, want ErrZeroLiquidity", err)
		}

		base := true
		req.BaseFlag = &base
		if err := h.svc.IncreaseLiquidity(ctx, req); !errors.Is(err, errors.ErrZeroLiquidity) {
			t.Fatalf("IncreaseLiquidity with base flag = %v, want ErrZeroLiquidity", err)
		}
		if h.engine.calls() != 0 {
			t.Error("engine was called despite a validation failure")
		}
	})

	t.Run("rejects zero deposit caps", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		req := IncreaseLiquidityRequest{
			Owner:     f.owner,
			Accounts:  f.accounts,
			Liquidity: bin.Uint128{Lo: 1},
		}
		if err := h.svc.IncreaseLiquidity(ctx, req); !errors.Is(err, errors.ErrZeroDeposit) {
			t.Fatalf("IncreaseLiquidity = %v, want ErrZeroDeposit", err)
		}
	})

	t.Run("rejects a foreign vault", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		accounts := f.accounts
		accounts.TokenVault1 = key()
		req := IncreaseLiquidityRequest{
			Owner:      f.owner,
			Accounts:   accounts,
			Liquidity:  bin.Uint128{Lo: 1},
			Amount0Max: 1_000,
		}
		if err := h.svc.IncreaseLiquidity(ctx, req); !errors.Is(err, errors.ErrInvalidVault) {
			t.Fatalf("IncreaseLiquidity = %v, want ErrInvalidVault", err)
		}
	})
}

func TestDecreaseLiquidity(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards a valid request with zero floors", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		req := DecreaseLiquidityRequest{
			Owner:     f.owner,
			Accounts:  f.accounts,
			Liquidity: bin.Uint128{Lo: 7_000},
		}
		if err := h.svc.DecreaseLiquidity(ctx, req); err != nil {
			t.Fatalf("DecreaseLiquidity: %v", err)
		}

		if len(h.engine.decreases) != 1 {
			t.Fatalf("engine received %d decrease calls, want 1", len(h.engine.decreases))
		}
		got := h.engine.decreases[0]
		if got.Amount0Min != 0 || got.Amount1Min != 0 {
			t.Errorf("floors = %d/%d, want 0/0", got.Amount0Min, got.Amount1Min)
		}

		decreased, ok := h.emitter.events[0].(*event.LiquidityDecreased)
		if !ok {
			t.Fatalf("emitted %T, want *event.LiquidityDecreased", h.emitter.events[0])
		}
		if decreased.Liquidity != "7000" {
			t.Errorf("event liquidity = %s, want 7000", decreased.Liquidity)
		}
	})

	t.Run("forwards withdrawal floors", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		req := DecreaseLiquidityRequest{
			Owner:      f.owner,
			Accounts:   f.accounts,
			Liquidity:  bin.Uint128{Lo: 7_000},
			Amount0Min: 300,
			Amount1Min: 400,
		}
		if err := h.svc.DecreaseLiquidity(ctx, req); err != nil {
			t.Fatalf("DecreaseLiquidity: %v", err)
		}
		got := h.engine.decreases[0]
		if got.Amount0Min != 300 || got.Amount1Min != 400 {
			t.Errorf("floors = %d/%d, want 300/400", got.Amount0Min, got.Amount1Min)
		}
	})

	t.Run("rejects zero liquidity", func(t *testing.T) {
		h := newTestHarness(t)
		f := newLiquidityFixture(h)

		req := DecreaseLiquidityRequest{
			Owner:    f.owner,
			Accounts: f.accounts,
		}
		if err := h.svc.DecreaseLiquidity(ctx, req); !errors.Is(err, errors.ErrZeroLiquidity) {
			t.Fatalf("DecreaseLiquidity = %v, want ErrZeroLiquidity", err)
		}
		if h.engine.calls() != 0 {
			t.Error("engine was called despite a validation failure")
		}
	})
}
