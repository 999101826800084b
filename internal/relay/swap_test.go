package relay

import (
	"context"
	"testing"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/errors"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// swapFixture builds a consistent pool, tick array, and account set.
type swapFixture struct {
	owner    types.Pubkey
	accounts clmm.SwapAccounts
}

func newSwapFixture(h *testHarness) *swapFixture {
	pool := key()
	ammConfig := key()
	observation := key()
	tickArray := key()

	h.state.pools[pool] = &clmm.PoolState{
		AmmConfig:      ammConfig,
		ObservationKey: observation,
		Address:        pool,
	}
	h.state.tickArrays[tickArray] = &clmm.TickArrayState{
		PoolID:  pool,
		Address: tickArray,
	}

	owner := key()
	return &swapFixture{
		owner: owner,
		accounts: clmm.SwapAccounts{
			Payer:              owner,
			AmmConfig:          ammConfig,
			PoolState:          pool,
			InputTokenAccount:  key(),
			OutputTokenAccount: key(),
			InputVault:         key(),
			OutputVault:        key(),
			ObservationState:   observation,
			TickArray:          tickArray,
		},
	}
}

func (f *swapFixture) request() SwapRequest {
	return SwapRequest{
		Owner:               f.owner,
		Accounts:            f.accounts,
		Amount:              1_000_000,
		ExpectedOtherAmount: 1_000_000,
		IsBaseInput:         true,
	}
}

func TestProxySwap(t *testing.T) {
	ctx := context.Background()

	t.Run("bounds the swap with the stored tolerance", func(t *testing.T) {
		h := newTestHarness(t)
		f := newSwapFixture(h)

		if err := h.slippage.SetSlippage(ctx, f.owner, 100); err != nil {
			t.Fatalf("SetSlippage: %v", err)
		}

		if err := h.svc.ProxySwap(ctx, f.request()); err != nil {
			t.Fatalf("ProxySwap: %v", err)
		}

		if len(h.engine.swaps) != 1 {
			t.Fatalf("engine received %d swaps, want 1", len(h.engine.swaps))
		}
		got := h.engine.swaps[0]
		if got.OtherAmountThreshold != 990_000 {
			t.Errorf("threshold = %d, want 990000 (100 bps below expected)", got.OtherAmountThreshold)
		}
		if got.Amount != 1_000_000 || !got.IsBaseInput {
			t.Errorf("forwarded args = %+v", got)
		}
	})

	t.Run("falls back to the default tolerance", func(t *testing.T) {
		h := newTestHarness(t)
		f := newSwapFixture(h)

		if err := h.svc.ProxySwap(ctx, f.request()); err != nil {
			t.Fatalf("ProxySwap: %v", err)
		}

		if h.engine.swaps[0].OtherAmountThreshold != 950_000 {
			t.Errorf("threshold = %d, want 950000 (500 bps default)", h.engine.swaps[0].OtherAmountThreshold)
		}
	})

	t.Run("widens the bound for output-fixed swaps", func(t *testing.T) {
		h := newTestHarness(t)
		f := newSwapFixture(h)

		req := f.request()
		req.IsBaseInput = false
		if err := h.svc.ProxySwap(ctx, req); err != nil {
			t.Fatalf("ProxySwap: %v", err)
		}

		if h.engine.swaps[0].OtherAmountThreshold != 1_050_000 {
			t.Errorf("threshold = %d, want 1050000 (500 bps above expected)", h.engine.swaps[0].OtherAmountThreshold)
		}
	})

	t.Run("emits a swap event on success", func(t *testing.T) {
		h := newTestHarness(t)
		f := newSwapFixture(h)

		req := f.request()
		req.Amount = 5_000
		req.ExpectedOtherAmount = 4_800
		if err := h.svc.ProxySwap(ctx, req); err != nil {
			t.Fatalf("ProxySwap: %v", err)
		}

		if len(h.emitter.events) != 1 {
			t.Fatalf("emitted %d events, want 1", len(h.emitter.events))
		}
		executed, ok := h.emitter.events[0].(*event.SwapExecuted)
		if !ok {
			t.Fatalf("emitted %T, want *event.SwapExecuted", h.emitter.events[0])
		}
		if executed.AmountIn != 5_000 || executed.AmountOut != 4_800 {
			t.Errorf("event amounts = %d/%d, want 5000/4800", executed.AmountIn, executed.AmountOut)
		}
		if executed.ExpectedAmount != 4_800 {
			t.Errorf("event expected amount = %d, want 4800", executed.ExpectedAmount)
		}
		if executed.SlippageBps != 500 || !executed.IsBaseInput {
			t.Errorf("event tolerance/direction = %d/%t, want 500/true", executed.SlippageBps, executed.IsBaseInput)
		}
		if !executed.User.Equals(f.owner) {
			t.Errorf("event user = %s, want %s", executed.User, f.owner)
		}
	})

	t.Run("event amounts stay caller-declared for output-fixed swaps", func(t *testing.T) {
		h := newTestHarness(t)
		f := newSwapFixture(h)

		req := f.request()
		req.Amount = 5_000
		req.ExpectedOtherAmount = 4_800
		req.IsBaseInput = false
		if err := h.svc.ProxySwap(ctx, req); err != nil {
			t.Fatalf("ProxySwap: %v", err)
		}

		executed := h.emitter.events[0].(*event.SwapExecuted)
		if executed.AmountIn != 5_000 || executed.AmountOut != 4_800 {
			t.Errorf("event amounts = %d/%d, want 5000/4800", executed.AmountIn, executed.AmountOut)
		}
		if executed.IsBaseInput {
			t.Error("event direction = base input, want output-fixed")
		}
	})

	t.Run("rejections never reach the engine and emit nothing", func(t *testing.T) {
		foreignTickArray := key()

		tests := []struct {
			name    string
			mutate  func(h *testHarness, req *SwapRequest)
			wantErr error
		}{
			{
				name:    "zero amount",
				mutate:  func(h *testHarness, req *SwapRequest) { req.Amount = 0 },
				wantErr: errors.ErrZeroSwapAmount,
			},
			{
				name:    "zero expected amount",
				mutate:  func(h *testHarness, req *SwapRequest) { req.ExpectedOtherAmount = 0 },
				wantErr: errors.ErrInvalidExpectedAmount,
			},
			{
				name:    "mismatched amm config",
				mutate:  func(h *testHarness, req *SwapRequest) { req.Accounts.AmmConfig = key() },
				wantErr: errors.ErrInvalidAmmConfig,
			},
			{
				name:    "mismatched observation account",
				mutate:  func(h *testHarness, req *SwapRequest) { req.Accounts.ObservationState = key() },
				wantErr: errors.ErrInvalidObservation,
			},
			{
				name: "tick array of another pool",
				mutate: func(h *testHarness, req *SwapRequest) {
					h.state.tickArrays[foreignTickArray] = &clmm.TickArrayState{
						PoolID:  key(),
						Address: foreignTickArray,
					}
					req.Accounts.TickArray = foreignTickArray
				},
				wantErr: errors.ErrInvalidTickArray,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newTestHarness(t)
				f := newSwapFixture(h)

				req := f.request()
				tt.mutate(h, &req)

				if err := h.svc.ProxySwap(ctx, req); !errors.Is(err, tt.wantErr) {
					t.Fatalf("ProxySwap = %v, want %v", err, tt.wantErr)
				}
				if h.engine.calls() != 0 {
					t.Error("engine was called despite a validation failure")
				}
				if len(h.emitter.events) != 0 {
					t.Error("events were emitted despite a validation failure")
				}
			})
		}
	})

	t.Run("engine failures propagate and emit nothing", func(t *testing.T) {
		h := newTestHarness(t)
		f := newSwapFixture(h)

		wantErr := errors.NewError("ENGINE_TEST", "engine unavailable")
		h.engine.err = wantErr

		if err := h.svc.ProxySwap(ctx, f.request()); !errors.Is(err, wantErr) {
			t.Fatalf("ProxySwap = %v, want engine error", err)
		}
		if len(h.emitter.events) != 0 {
			t.Error("events were emitted despite an engine failure")
		}
	})
}
