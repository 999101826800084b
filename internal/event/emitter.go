package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lugondev/clmm-relay/internal/storage"
)

// Emitter receives events after an operation succeeds. Implementations
// must not mutate the event.
type Emitter interface {
	Emit(ctx context.Context, e Event) error
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(ctx context.Context, e Event) error { return nil }

// LogEmitter writes events to a structured logger.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

func (l *LogEmitter) Emit(ctx context.Context, e Event) error {
	l.logger.InfoContext(ctx, "event emitted",
		"kind", e.Kind(),
		"actor", e.Actor().String(),
		"timestamp", e.UnixTimestamp(),
	)
	return nil
}

// RepositoryEmitter persists events through an event repository.
type RepositoryEmitter struct {
	events storage.EventRepository
}

func NewRepositoryEmitter(events storage.EventRepository) *RepositoryEmitter {
	return &RepositoryEmitter{events: events}
}

func (r *RepositoryEmitter) Emit(ctx context.Context, e Event) error {
	data, err := encodeEventData(e)
	if err != nil {
		return err
	}

	model := &storage.EventModel{
		ID:        uuid.New().String(),
		Kind:      e.Kind(),
		Actor:     e.Actor().String(),
		Data:      data,
		Timestamp: e.UnixTimestamp(),
		CreatedAt: time.Now().UTC(),
	}
	return r.events.Save(ctx, model)
}

func encodeEventData(e Event) (map[string]interface{}, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// MultiEmitter fans an event out to several sinks. The first error
// stops the fan-out and is returned.
type MultiEmitter struct {
	emitters []Emitter
}

func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

func (m *MultiEmitter) Emit(ctx context.Context, e Event) error {
	for _, emitter := range m.emitters {
		if err := emitter.Emit(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
