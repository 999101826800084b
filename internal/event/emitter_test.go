package event

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/lugondev/clmm-relay/internal/storage"
)

func TestRepositoryEmitter(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMemoryRepository()
	emitter := NewRepositoryEmitter(repo.Events())

	user := solana.NewWallet().PublicKey()
	err := emitter.Emit(ctx, &SwapExecuted{
		User:      user,
		Pool:      solana.NewWallet().PublicKey(),
		AmountIn:  1_000,
		AmountOut: 950,
		Timestamp: 1_700_000_000,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	stored, err := repo.Events().FindByKind(ctx, KindSwapExecuted, 10, 0)
	if err != nil {
		t.Fatalf("FindByKind: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d events, want 1", len(stored))
	}

	got := stored[0]
	if got.Actor != user.String() {
		t.Errorf("actor = %s, want %s", got.Actor, user)
	}
	if got.Timestamp != 1_700_000_000 {
		t.Errorf("timestamp = %d, want 1700000000", got.Timestamp)
	}
	if got.ID == "" {
		t.Error("event id not assigned")
	}
	// Numbers decode as float64 after the JSON round trip.
	if amount, ok := got.Data["amount_in"].(float64); !ok || amount != 1_000 {
		t.Errorf("data amount_in = %v, want 1000", got.Data["amount_in"])
	}
}

type failingEmitter struct{}

func (failingEmitter) Emit(ctx context.Context, e Event) error {
	return errors.New("sink unavailable")
}

type countingEmitter struct {
	n int
}

func (c *countingEmitter) Emit(ctx context.Context, e Event) error {
	c.n++
	return nil
}

func TestMultiEmitter(t *testing.T) {
	ctx := context.Background()
	evt := &SlippageSet{User: solana.NewWallet().PublicKey(), SlippageBps: 100, Timestamp: 1}

	t.Run("fans out to every sink", func(t *testing.T) {
		a, b := &countingEmitter{}, &countingEmitter{}
		if err := NewMultiEmitter(a, b).Emit(ctx, evt); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if a.n != 1 || b.n != 1 {
			t.Errorf("sink calls = %d/%d, want 1/1", a.n, b.n)
		}
	})

	t.Run("stops at the first failing sink", func(t *testing.T) {
		tail := &countingEmitter{}
		if err := NewMultiEmitter(failingEmitter{}, tail).Emit(ctx, evt); err == nil {
			t.Fatal("expected an error from the failing sink")
		}
		if tail.n != 0 {
			t.Errorf("later sink was called %d times, want 0", tail.n)
		}
	})
}

func TestEventKinds(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	tests := []struct {
		event Event
		want  string
	}{
		{&SlippageSet{User: user}, KindSlippageSet},
		{&SwapExecuted{User: user}, KindSwapExecuted},
		{&PositionOpened{User: user}, KindPositionOpened},
		{&LiquidityIncreased{User: user}, KindLiquidityIncreased},
		{&LiquidityDecreased{User: user}, KindLiquidityDecreased},
	}
	for _, tt := range tests {
		if got := tt.event.Kind(); got != tt.want {
			t.Errorf("Kind() = %s, want %s", got, tt.want)
		}
		if !tt.event.Actor().Equals(user) {
			t.Errorf("%s actor mismatch", tt.want)
		}
	}
}
