package relay

import (
	"context"

	bin "github.com/gagliardetto/binary"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/errors"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/metrics"
	"github.com/lugondev/clmm-relay/internal/slippage"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// SwapRequest is a caller's swap submission. Amount is the side the caller
// fixes; ExpectedOtherAmount is the caller's expectation for the opposite
// side, from which the protective threshold is derived.
type SwapRequest struct {
	Owner               types.Pubkey
	Accounts            clmm.SwapAccounts
	Amount              uint64
	ExpectedOtherAmount uint64
	SqrtPriceLimitX64   bin.Uint128
	IsBaseInput         bool
}

// ProxySwap validates a swap request against pool state, derives the
// slippage threshold from the owner's tolerance, and forwards the bounded
// swap to the engine.
func (s *Service) ProxySwap(ctx context.Context, req SwapRequest) error {
	started := s.now()

	if req.Amount == 0 {
		s.recordRejection(ctx, metrics.MetricSwapsRejected)
		return errors.ErrZeroSwapAmount
	}
	if req.ExpectedOtherAmount == 0 {
		s.recordRejection(ctx, metrics.MetricSwapsRejected)
		return errors.ErrInvalidExpectedAmount
	}

	pool, err := s.state.PoolState(ctx, req.Accounts.PoolState)
	if err != nil {
		return err
	}
	if !req.Accounts.AmmConfig.Equals(pool.AmmConfig) {
		s.recordRejection(ctx, metrics.MetricSwapsRejected)
		return errors.ErrInvalidAmmConfig
	}
	if !req.Accounts.ObservationState.Equals(pool.ObservationKey) {
		s.recordRejection(ctx, metrics.MetricSwapsRejected)
		return errors.ErrInvalidObservation
	}

	tickArray, err := s.state.TickArray(ctx, req.Accounts.TickArray)
	if err != nil {
		return err
	}
	if !tickArray.PoolID.Equals(req.Accounts.PoolState) {
		s.recordRejection(ctx, metrics.MetricSwapsRejected)
		return errors.ErrInvalidTickArray
	}

	bps, err := s.slippage.ResolveFor(ctx, req.Owner)
	if err != nil {
		return err
	}
	_ = s.metrics.UpdateGauge(ctx, metrics.MetricResolvedSlippageBasis, float64(bps))

	threshold := slippage.Threshold(req.ExpectedOtherAmount, bps, req.IsBaseInput)

	args := clmm.SwapArgs{
		Amount:               req.Amount,
		OtherAmountThreshold: threshold,
		SqrtPriceLimitX64:    req.SqrtPriceLimitX64,
		IsBaseInput:          req.IsBaseInput,
	}
	if err := s.engine.Swap(ctx, req.Accounts, args); err != nil {
		_ = s.metrics.IncrementCounter(ctx, metrics.MetricEngineFailures, 1)
		return err
	}

	_ = s.metrics.IncrementCounter(ctx, metrics.MetricSwapsRelayed, 1)
	s.recordLatency(ctx, started)

	s.logger.InfoContext(ctx, "swap relayed",
		"owner", req.Owner.String(),
		"pool", req.Accounts.PoolState.String(),
		"amount", req.Amount,
		"threshold", threshold,
		"slippage_bps", bps,
		"is_base_input", req.IsBaseInput,
	)

	s.emit(ctx, &event.SwapExecuted{
		User:           req.Owner,
		Pool:           req.Accounts.PoolState,
		AmountIn:       req.Amount,
		AmountOut:      req.ExpectedOtherAmount,
		ExpectedAmount: req.ExpectedOtherAmount,
		SlippageBps:    bps,
		IsBaseInput:    req.IsBaseInput,
		Timestamp:      s.now().Unix(),
	})
	return nil
}
