package relay

import (
	"context"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/slippage"
	"github.com/lugondev/clmm-relay/internal/storage"
	"github.com/lugondev/clmm-relay/pkg/types"
)

type fakeState struct {
	pools         map[types.Pubkey]*clmm.PoolState
	tickArrays    map[types.Pubkey]*clmm.TickArrayState
	tokenAccounts map[types.Pubkey]*clmm.TokenAccount
}

func newFakeState() *fakeState {
	return &fakeState{
		pools:         make(map[types.Pubkey]*clmm.PoolState),
		tickArrays:    make(map[types.Pubkey]*clmm.TickArrayState),
		tokenAccounts: make(map[types.Pubkey]*clmm.TokenAccount),
	}
}

func (f *fakeState) PoolState(ctx context.Context, pool types.Pubkey) (*clmm.PoolState, error) {
	if p, ok := f.pools[pool]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("pool %s not found", pool)
}

func (f *fakeState) TickArray(ctx context.Context, tickArray types.Pubkey) (*clmm.TickArrayState, error) {
	if a, ok := f.tickArrays[tickArray]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("tick array %s not found", tickArray)
}

func (f *fakeState) TokenAccount(ctx context.Context, account types.Pubkey) (*clmm.TokenAccount, error) {
	if a, ok := f.tokenAccounts[account]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("token account %s not found", account)
}

type fakeEngine struct {
	swaps     []clmm.SwapArgs
	opens     []clmm.OpenPositionV2Args
	increases []clmm.IncreaseLiquidityV2Args
	decreases []clmm.DecreaseLiquidityV2Args
	err       error
}

func (f *fakeEngine) Swap(ctx context.Context, accounts clmm.SwapAccounts, args clmm.SwapArgs) error {
	if f.err != nil {
		return f.err
	}
	f.swaps = append(f.swaps, args)
	return nil
}

func (f *fakeEngine) OpenPosition(ctx context.Context, accounts clmm.OpenPositionV2Accounts, args clmm.OpenPositionV2Args) error {
	if f.err != nil {
		return f.err
	}
	f.opens = append(f.opens, args)
	return nil
}

func (f *fakeEngine) IncreaseLiquidity(ctx context.Context, accounts clmm.LiquidityChangeAccounts, args clmm.IncreaseLiquidityV2Args) error {
	if f.err != nil {
		return f.err
	}
	f.increases = append(f.increases, args)
	return nil
}

func (f *fakeEngine) DecreaseLiquidity(ctx context.Context, accounts clmm.LiquidityChangeAccounts, args clmm.DecreaseLiquidityV2Args) error {
	if f.err != nil {
		return f.err
	}
	f.decreases = append(f.decreases, args)
	return nil
}

func (f *fakeEngine) calls() int {
	return len(f.swaps) + len(f.opens) + len(f.increases) + len(f.decreases)
}

type captureEmitter struct {
	events []event.Event
}

func (c *captureEmitter) Emit(ctx context.Context, e event.Event) error {
	c.events = append(c.events, e)
	return nil
}

type testHarness struct {
	svc      *Service
	state    *fakeState
	engine   *fakeEngine
	emitter  *captureEmitter
	slippage *slippage.Service
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	state := newFakeState()
	engine := &fakeEngine{}
	emitter := &captureEmitter{}
	repo := storage.NewMemoryRepository()
	slippageSvc := slippage.NewService(repo.SlippageConfigs(), event.NoopEmitter{}, nil)

	svc := NewService(clmm.DefaultProgramID, state, engine, slippageSvc).
		WithEmitter(emitter)

	return &testHarness{
		svc:      svc,
		state:    state,
		engine:   engine,
		emitter:  emitter,
		slippage: slippageSvc,
	}
}

func key() types.Pubkey {
	return solana.NewWallet().PublicKey()
}
