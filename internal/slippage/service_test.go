package slippage

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/clmm-relay/internal/errors"
	"github.com/lugondev/clmm-relay/internal/event"
	"github.com/lugondev/clmm-relay/internal/metrics"
	"github.com/lugondev/clmm-relay/internal/storage"
)

type captureEmitter struct {
	events []event.Event
}

func (c *captureEmitter) Emit(ctx context.Context, e event.Event) error {
	c.events = append(c.events, e)
	return nil
}

type captureMetrics struct {
	metrics.NoopMetrics
	counters map[string]uint64
}

func (c *captureMetrics) IncrementCounter(ctx context.Context, name string, value uint64) error {
	if c.counters == nil {
		c.counters = make(map[string]uint64)
	}
	c.counters[name] += value
	return nil
}

func newTestService() (*Service, *storage.MemoryRepository, *captureEmitter) {
	repo := storage.NewMemoryRepository()
	emitter := &captureEmitter{}
	svc := NewService(repo.SlippageConfigs(), emitter, nil)
	return svc, repo, emitter
}

func TestSetSlippage(t *testing.T) {
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	t.Run("stores a valid tolerance", func(t *testing.T) {
		svc, repo, emitter := newTestService()

		if err := svc.SetSlippage(ctx, owner, 300); err != nil {
			t.Fatalf("SetSlippage: %v", err)
		}

		stored, err := repo.SlippageConfigs().FindByOwner(ctx, owner.String())
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if stored == nil || stored.SlippageBps != 300 {
			t.Fatalf("stored = %+v, want 300 bps", stored)
		}

		if len(emitter.events) != 1 {
			t.Fatalf("emitted %d events, want 1", len(emitter.events))
		}
		set, ok := emitter.events[0].(*event.SlippageSet)
		if !ok {
			t.Fatalf("emitted %T, want *event.SlippageSet", emitter.events[0])
		}
		if set.SlippageBps != 300 || !set.User.Equals(owner) {
			t.Errorf("event = %+v, want 300 bps for %s", set, owner)
		}
	})

	t.Run("overwrites an existing tolerance", func(t *testing.T) {
		svc, _, _ := newTestService()

		if err := svc.SetSlippage(ctx, owner, 100); err != nil {
			t.Fatalf("SetSlippage: %v", err)
		}
		if err := svc.SetSlippage(ctx, owner, 200); err != nil {
			t.Fatalf("SetSlippage overwrite: %v", err)
		}

		bps, err := svc.ResolveFor(ctx, owner)
		if err != nil {
			t.Fatalf("ResolveFor: %v", err)
		}
		if bps != 200 {
			t.Errorf("ResolveFor = %d, want 200", bps)
		}
	})

	t.Run("counts successful updates only", func(t *testing.T) {
		svc, _, _ := newTestService()
		recorded := &captureMetrics{}
		svc.WithMetrics(recorded)

		if err := svc.SetSlippage(ctx, owner, 100); err != nil {
			t.Fatalf("SetSlippage: %v", err)
		}
		if err := svc.SetSlippage(ctx, owner, 200); err != nil {
			t.Fatalf("SetSlippage: %v", err)
		}
		if err := svc.SetSlippage(ctx, owner, 10_000); err == nil {
			t.Fatal("SetSlippage(10000) succeeded, want rejection")
		}

		if got := recorded.counters[metrics.MetricSlippageUpdates]; got != 2 {
			t.Errorf("slippage update counter = %d, want 2", got)
		}
	})

	t.Run("rejects invalid tolerances and keeps the prior value", func(t *testing.T) {
		svc, _, emitter := newTestService()

		if err := svc.SetSlippage(ctx, owner, 250); err != nil {
			t.Fatalf("SetSlippage: %v", err)
		}

		for _, bps := range []uint16{0, 501, 10_000} {
			if err := svc.SetSlippage(ctx, owner, bps); !errors.Is(err, errors.ErrInvalidSlippage) {
				t.Errorf("SetSlippage(%d) = %v, want ErrInvalidSlippage", bps, err)
			}
		}

		got, err := svc.ResolveFor(ctx, owner)
		if err != nil {
			t.Fatalf("ResolveFor: %v", err)
		}
		if got != 250 {
			t.Errorf("ResolveFor = %d, want prior value 250", got)
		}
		if len(emitter.events) != 1 {
			t.Errorf("emitted %d events, want 1 (rejections emit nothing)", len(emitter.events))
		}
	})
}

func TestResolveFor(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown owner gets the default", func(t *testing.T) {
		svc, _, _ := newTestService()

		bps, err := svc.ResolveFor(ctx, solana.NewWallet().PublicKey())
		if err != nil {
			t.Fatalf("ResolveFor: %v", err)
		}
		if bps != DefaultBps {
			t.Errorf("ResolveFor = %d, want %d", bps, DefaultBps)
		}
	})

	t.Run("zero record resolves to the default", func(t *testing.T) {
		svc, repo, _ := newTestService()
		owner := solana.NewWallet().PublicKey()

		// A zero record can only exist through the storage layer directly;
		// the setter rejects it.
		model := storage.NewSlippageConfigModel(owner.String(), 0)
		if err := repo.SlippageConfigs().Save(ctx, model); err != nil {
			t.Fatalf("Save: %v", err)
		}

		bps, err := svc.ResolveFor(ctx, owner)
		if err != nil {
			t.Fatalf("ResolveFor: %v", err)
		}
		if bps != DefaultBps {
			t.Errorf("ResolveFor = %d, want %d", bps, DefaultBps)
		}
	})

	t.Run("corrupted record is rejected", func(t *testing.T) {
		svc, repo, _ := newTestService()
		owner := solana.NewWallet().PublicKey()

		model := storage.NewSlippageConfigModel(owner.String(), 9_999)
		if err := repo.SlippageConfigs().Save(ctx, model); err != nil {
			t.Fatalf("Save: %v", err)
		}

		if _, err := svc.ResolveFor(ctx, owner); !errors.Is(err, errors.ErrInvalidSlippage) {
			t.Errorf("ResolveFor = %v, want ErrInvalidSlippage", err)
		}
	})
}
