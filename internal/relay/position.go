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

// OpenPositionRequest is a caller's open-position submission. Amount0Max and
// Amount1Max cap what the engine may draw from each deposit account.
type OpenPositionRequest struct {
	Owner                    types.Pubkey
	Accounts                 clmm.OpenPositionV2Accounts
	TickLowerIndex           int32
	TickUpperIndex           int32
	TickArrayLowerStartIndex int32
	TickArrayUpperStartIndex int32
	Liquidity                bin.Uint128
	Amount0Max               uint64
	Amount1Max               uint64
	WithMetadata             bool
	BaseFlag                 *bool
}

// ProxyOpenPosition validates an open-position request against pool state
// and the engine's derived addresses, then forwards it to the engine.
func (s *Service) ProxyOpenPosition(ctx context.Context, req OpenPositionRequest) error {
	started := s.now()

	if req.TickLowerIndex >= req.TickUpperIndex {
		s.recordRejection(ctx, metrics.MetricPositionsRejected)
		return errors.ErrInvalidTickRange
	}
	if isZeroUint128(req.Liquidity) {
		s.recordRejection(ctx, metrics.MetricPositionsRejected)
		return errors.ErrZeroLiquidity
	}
	if req.Amount0Max == 0 && req.Amount1Max == 0 {
		s.recordRejection(ctx, metrics.MetricPositionsRejected)
		return errors.ErrZeroDeposit
	}

	pool, err := s.state.PoolState(ctx, req.Accounts.PoolState)
	if err != nil {
		return err
	}
	if err := s.checkPositionAccounts(ctx, pool, req); err != nil {
		s.recordRejection(ctx, metrics.MetricPositionsRejected)
		return err
	}

	args := clmm.OpenPositionV2Args{
		TickLowerIndex:           req.TickLowerIndex,
		TickUpperIndex:           req.TickUpperIndex,
		TickArrayLowerStartIndex: req.TickArrayLowerStartIndex,
		TickArrayUpperStartIndex: req.TickArrayUpperStartIndex,
		Liquidity:                req.Liquidity,
		Amount0Max:               req.Amount0Max,
		Amount1Max:               req.Amount1Max,
		WithMetadata:             req.WithMetadata,
		BaseFlag:                 req.BaseFlag,
	}
	if err := s.engine.OpenPosition(ctx, req.Accounts, args); err != nil {
		_ = s.metrics.IncrementCounter(ctx, metrics.MetricEngineFailures, 1)
		return err
	}

	_ = s.metrics.IncrementCounter(ctx, metrics.MetricPositionsOpened, 1)
	s.recordLatency(ctx, started)

	s.logger.InfoContext(ctx, "position opened",
		"owner", req.Owner.String(),
		"pool", req.Accounts.PoolState.String(),
		"tick_lower", req.TickLowerIndex,
		"tick_upper", req.TickUpperIndex,
		"liquidity", req.Liquidity.String(),
	)

	s.emit(ctx, &event.PositionOpened{
		User:        req.Owner,
		Pool:        req.Accounts.PoolState,
		PositionNFT: req.Accounts.PositionNFTMint,
		TickLower:   req.TickLowerIndex,
		TickUpper:   req.TickUpperIndex,
		Liquidity:   req.Liquidity.String(),
		Amount0:     req.Amount0Max,
		Amount1:     req.Amount1Max,
		Timestamp:   s.now().Unix(),
	})
	return nil
}

// checkPositionAccounts verifies that every engine-owned account in the
// request matches either the pool's recorded state or the engine's
// deterministic address derivation.
func (s *Service) checkPositionAccounts(ctx context.Context, pool *clmm.PoolState, req OpenPositionRequest) error {
	if !req.Accounts.TokenVault0.Equals(pool.TokenVault0) || !req.Accounts.TokenVault1.Equals(pool.TokenVault1) {
		return errors.ErrInvalidVault
	}

	if err := s.checkDepositAccount(ctx, req.Accounts.TokenAccount0, pool.TokenMint0); err != nil {
		return err
	}
	if err := s.checkDepositAccount(ctx, req.Accounts.TokenAccount1, pool.TokenMint1); err != nil {
		return err
	}

	protocolPosition, err := clmm.DeriveProtocolPosition(s.programID, req.Accounts.PoolState, req.TickLowerIndex, req.TickUpperIndex)
	if err != nil {
		return err
	}
	if !req.Accounts.ProtocolPosition.Equals(protocolPosition) {
		return errors.ErrInvalidPositionAddress
	}

	tickArrayLower, err := clmm.DeriveTickArray(s.programID, req.Accounts.PoolState, req.TickArrayLowerStartIndex)
	if err != nil {
		return err
	}
	tickArrayUpper, err := clmm.DeriveTickArray(s.programID, req.Accounts.PoolState, req.TickArrayUpperStartIndex)
	if err != nil {
		return err
	}
	if !req.Accounts.TickArrayLower.Equals(tickArrayLower) || !req.Accounts.TickArrayUpper.Equals(tickArrayUpper) {
		return errors.ErrInvalidTickArray
	}

	personalPosition, err := clmm.DerivePersonalPosition(s.programID, req.Accounts.PositionNFTMint)
	if err != nil {
		return err
	}
	if !req.Accounts.PersonalPosition.Equals(personalPosition) {
		return errors.ErrInvalidPositionAddress
	}
	return nil
}

// checkDepositAccount verifies a deposit token account carries the mint the
// pool expects on that side.
func (s *Service) checkDepositAccount(ctx context.Context, account, mint types.Pubkey) error {
	tokenAccount, err := s.state.TokenAccount(ctx, account)
	if err != nil {
		return err
	}
	if !tokenAccount.Mint.Equals(mint) {
		return errors.ErrInvalidTokenAccount
	}
	return nil
}

func isZeroUint128(v bin.Uint128) bool {
	return v.Lo == 0 && v.Hi == 0
}
