package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository used when no database is
// configured and as the substrate in tests. Per-key write exclusivity is
// provided by a single mutex, which also gives the serialization the
// slippage record lifecycle relies on.
type MemoryRepository struct {
	mu      sync.RWMutex
	configs map[string]*SlippageConfigModel
	events  []*EventModel
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		configs: make(map[string]*SlippageConfigModel),
	}
}

func (r *MemoryRepository) SlippageConfigs() SlippageConfigRepository { return &memoryConfigRepo{r} }
func (r *MemoryRepository) Events() EventRepository                   { return &memoryEventRepo{r} }
func (r *MemoryRepository) Close() error                              { return nil }
func (r *MemoryRepository) Ping(ctx context.Context) error            { return nil }

type memoryConfigRepo struct {
	parent *MemoryRepository
}

func (m *memoryConfigRepo) Save(ctx context.Context, cfg *SlippageConfigModel) error {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()

	if existing, ok := m.parent.configs[cfg.Owner]; ok {
		updated := *cfg
		updated.CreatedAt = existing.CreatedAt
		m.parent.configs[cfg.Owner] = &updated
		return nil
	}
	copied := *cfg
	m.parent.configs[cfg.Owner] = &copied
	return nil
}

func (m *memoryConfigRepo) FindByOwner(ctx context.Context, owner string) (*SlippageConfigModel, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()

	cfg, ok := m.parent.configs[owner]
	if !ok {
		return nil, nil
	}
	copied := *cfg
	return &copied, nil
}

type memoryEventRepo struct {
	parent *MemoryRepository
}

func (m *memoryEventRepo) Save(ctx context.Context, event *EventModel) error {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()

	copied := *event
	m.parent.events = append(m.parent.events, &copied)
	return nil
}

func (m *memoryEventRepo) SaveBatch(ctx context.Context, events []*EventModel) error {
	for _, event := range events {
		if err := m.Save(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryEventRepo) FindByKind(ctx context.Context, kind string, limit int, offset int) ([]*EventModel, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()

	var matched []*EventModel
	for _, event := range m.parent.events {
		if event.Kind == kind {
			matched = append(matched, event)
		}
	}
	return paginate(matched, limit, offset), nil
}

func (m *memoryEventRepo) FindByActor(ctx context.Context, actor string, limit int, offset int) ([]*EventModel, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()

	var matched []*EventModel
	for _, event := range m.parent.events {
		if event.Actor == actor {
			matched = append(matched, event)
		}
	}
	return paginate(matched, limit, offset), nil
}

func (m *memoryEventRepo) FindRecent(ctx context.Context, limit int) ([]*EventModel, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()

	matched := make([]*EventModel, len(m.parent.events))
	copy(matched, m.parent.events)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})
	return paginate(matched, limit, 0), nil
}

func paginate(events []*EventModel, limit int, offset int) []*EventModel {
	if offset >= len(events) {
		return nil
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	out := make([]*EventModel, len(events))
	for i, event := range events {
		copied := *event
		out[i] = &copied
	}
	return out
}
