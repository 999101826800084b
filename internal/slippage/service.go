package slippage

import (
	"context"
	"log/slog"
	"time"

	"github.com/lugondev/clmm-relay/internal/errors"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/metrics"
	"github.com/lugondev/clmm-relay/internal/storage"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// Service manages per-user slippage tolerance records.
type Service struct {
	configs storage.SlippageConfigRepository
	emitter event.Emitter
	metrics metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a slippage service backed by the given repository.
func NewService(configs storage.SlippageConfigRepository, emitter event.Emitter, logger *slog.Logger) *Service {
	if emitter == nil {
		emitter = event.NoopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		configs: configs,
		emitter: emitter,
		metrics: metrics.NewNoopMetrics(),
		logger:  logger,
		now:     time.Now,
	}
}

// WithMetrics sets the metrics sink.
func (s *Service) WithMetrics(m metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// SetSlippage validates and stores the user's slippage tolerance,
// creating the record on first use and overwriting it afterwards.
func (s *Service) SetSlippage(ctx context.Context, owner types.Pubkey, bps uint16) error {
	if err := ValidateBps(bps); err != nil {
		return err
	}

	model := storage.NewSlippageConfigModel(owner.String(), bps)
	if err := s.configs.Save(ctx, model); err != nil {
		return errors.StorageFailed("save slippage config", err)
	}

	_ = s.metrics.IncrementCounter(ctx, metrics.MetricSlippageUpdates, 1)
	s.logger.InfoContext(ctx, "slippage updated",
		"owner", owner.String(),
		"slippage_bps", bps,
	)

	evt := &event.SlippageSet{
		User:        owner,
		SlippageBps: bps,
		Timestamp:   s.now().Unix(),
	}
	if err := s.emitter.Emit(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "failed to emit slippage event",
			"owner", owner.String(),
			"error", err,
		)
	}
	return nil
}

// ResolveFor returns the effective slippage tolerance for the owner.
// Users without a stored record fall back to the protocol default.
func (s *Service) ResolveFor(ctx context.Context, owner types.Pubkey) (uint16, error) {
	model, err := s.configs.FindByOwner(ctx, owner.String())
	if err != nil {
		return 0, errors.StorageFailed("load slippage config", err)
	}
	if model == nil {
		return DefaultBps, nil
	}
	return Resolve(model.SlippageBps)
}
