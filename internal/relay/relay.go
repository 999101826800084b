// Package relay implements the slippage-protection layer in front of the
// CLMM execution engine.
//
// Each operation validates the caller's request against on-chain pool state,
// resolves the caller's slippage tolerance, forwards a bounded call to the
// engine, and emits a notification event once the engine has succeeded.
// Validation failures abort before any engine call and emit nothing.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/lugondev/clmm-relay/internal/clmm"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/metrics"
	"github.com/lugondev/clmm-relay/internal/slippage"
	"github.com/lugondev/clmm-relay/pkg/types"
)

// Service relays user operations to the execution engine.
type Service struct {
	programID types.Pubkey
	state     clmm.StateReader
	engine    clmm.Engine
	slippage  *slippage.Service
	emitter   event.Emitter
	metrics   metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a relay service for the given engine program.
func NewService(programID types.Pubkey, state clmm.StateReader, engine clmm.Engine, slippageSvc *slippage.Service) *Service {
	return &Service{
		programID: programID,
		state:     state,
		engine:    engine,
		slippage:  slippageSvc,
		emitter:   event.NoopEmitter{},
		metrics:   metrics.NewNoopMetrics(),
		logger:    slog.Default(),
		now:       time.Now,
	}
}

// WithEmitter sets the event sink.
func (s *Service) WithEmitter(emitter event.Emitter) *Service {
	if emitter != nil {
		s.emitter = emitter
	}
	return s
}

// WithMetrics sets the metrics backend.
func (s *Service) WithMetrics(m metrics.Metrics) *Service {
	if m != nil {
		s.metrics = m
	}
	return s
}

// WithLogger sets a custom logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// emit delivers an event after a completed operation. Delivery failures are
// logged and swallowed; the operation itself has already succeeded.
func (s *Service) emit(ctx context.Context, e event.Event) {
	if err := s.emitter.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to emit event",
			"kind", e.Kind(),
			"actor", e.Actor().String(),
			"error", err,
		)
	}
}

func (s *Service) recordRejection(ctx context.Context, counter string) {
	_ = s.metrics.IncrementCounter(ctx, counter, 1)
	_ = s.metrics.IncrementCounter(ctx, metrics.MetricValidationFailuresByOp, 1)
}

func (s *Service) recordLatency(ctx context.Context, started time.Time) {
	_ = s.metrics.RecordHistogram(ctx, metrics.MetricRelayLatencyMillis, float64(s.now().Sub(started).Milliseconds()))
}
