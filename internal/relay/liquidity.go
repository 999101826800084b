package relay

import (
	"context"

	bin "github.com/gagliardetto/binary"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/errors"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/metrics"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// IncreaseLiquidityRequest adds liquidity to an existing position.
type IncreaseLiquidityRequest struct {
	Owner      types.Pubkey
	Accounts   clmm.LiquidityChangeAccounts
	Liquidity  bin.Uint128
	Amount0Max uint64
	Amount1Max uint64
	BaseFlag   *bool
}

// DecreaseLiquidityRequest removes liquidity from an existing position.
// Amount0Min and Amount1Min are withdrawal floors; zero disables the floor.
type DecreaseLiquidityRequest struct {
	Owner      types.Pubkey
	Accounts   clmm.LiquidityChangeAccounts
	Liquidity  bin.Uint128
	Amount0Min uint64
	Amount1Min uint64
}

// IncreaseLiquidity validates and forwards an increase-liquidity call.
func (s *Service) IncreaseLiquidity(ctx context.Context, req IncreaseLiquidityRequest) error {
	started := s.now()

	if isZeroUint128(req.Liquidity) {
		s.recordRejection(ctx, metrics.MetricLiquidityRejected)
		return errors.ErrZeroLiquidity
	}
	if req.Amount0Max == 0 && req.Amount1Max == 0 {
		s.recordRejection(ctx, metrics.MetricLiquidityRejected)
		return errors.ErrZeroDeposit
	}

	pool, err := s.state.PoolState(ctx, req.Accounts.PoolState)
	if err != nil {
		return err
	}
	if err := s.checkLiquidityAccounts(ctx, pool, req.Accounts); err != nil {
		s.recordRejection(ctx, metrics.MetricLiquidityRejected)
		return err
	}

	args := clmm.IncreaseLiquidityV2Args{
		Liquidity:  req.Liquidity,
		Amount0Max: req.Amount0Max,
		Amount1Max: req.Amount1Max,
		BaseFlag:   req.BaseFlag,
	}
	if err := s.engine.IncreaseLiquidity(ctx, req.Accounts, args); err != nil {
		_ = s.metrics.IncrementCounter(ctx, metrics.MetricEngineFailures, 1)
		return err
	}

	_ = s.metrics.IncrementCounter(ctx, metrics.MetricLiquidityChanges, 1)
	s.recordLatency(ctx, started)

	s.logger.InfoContext(ctx, "liquidity increased",
		"owner", req.Owner.String(),
		"pool", req.Accounts.PoolState.String(),
		"liquidity", req.Liquidity.String(),
	)

	s.emit(ctx, &event.LiquidityIncreased{
		User:       req.Owner,
		Pool:       req.Accounts.PoolState,
		Liquidity:  req.Liquidity.String(),
		Amount0Max: req.Amount0Max,
		Amount1Max: req.Amount1Max,
		Timestamp:  s.now().Unix(),
	})
	return nil
}

// DecreaseLiquidity validates and forwards a decrease-liquidity call.
func (s *Service) DecreaseLiquidity(ctx context.Context, req DecreaseLiquidityRequest) error {
	started := s.now()

	if isZeroUint128(req.Liquidity) {
		s.recordRejection(ctx, metrics.MetricLiquidityRejected)
		return errors.ErrZeroLiquidity
	}

	pool, err := s.state.PoolState(ctx, req.Accounts.PoolState)
	if err != nil {
		return err
	}
	if err := s.checkLiquidityAccounts(ctx, pool, req.Accounts); err != nil {
		s.recordRejection(ctx, metrics.MetricLiquidityRejected)
		return err
	}

	args := clmm.DecreaseLiquidityV2Args{
		Liquidity:  req.Liquidity,
		Amount0Min: req.Amount0Min,
		Amount1Min: req.Amount1Min,
	}
	if err := s.engine.DecreaseLiquidity(ctx, req.Accounts, args); err != nil {
		_ = s.metrics.IncrementCounter(ctx, metrics.MetricEngineFailures, 1)
		return err
	}

	_ = s.metrics.IncrementCounter(ctx, metrics.MetricLiquidityChanges, 1)
	s.recordLatency(ctx, started)

	s.logger.InfoContext(ctx, "liquidity decreased",
		"owner", req.Owner.String(),
		"pool", req.Accounts.PoolState.String(),
		"liquidity", req.Liquidity.String(),
	)

	s.emit(ctx, &event.LiquidityDecreased{
		User:       req.Owner,
		Pool:       req.Accounts.PoolState,
		Liquidity:  req.Liquidity.String(),
		Amount0Min: req.Amount0Min,
		Amount1Min: req.Amount1Min,
		Timestamp:  s.now().Unix(),
	})
	return nil
}

// checkLiquidityAccounts verifies the vault and deposit accounts of a
// liquidity change against the pool's recorded state.
func (s *Service) checkLiquidityAccounts(ctx context.Context, pool *clmm.PoolState, accounts clmm.LiquidityChangeAccounts) error {
	if !accounts.TokenVault0.Equals(pool.TokenVault0) || !accounts.TokenVault1.Equals(pool.TokenVault1) {
		return errors.ErrInvalidVault
	}
	if err := s.checkDepositAccount(ctx, accounts.TokenAccount0, pool.TokenMint0); err != nil {
		return err
	}
	return s.checkDepositAccount(ctx, accounts.TokenAccount1, pool.TokenMint1)
}
