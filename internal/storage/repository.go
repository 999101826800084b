package storage

import (
	"context"
)

type SlippageConfigRepository interface {
	// Save upserts a record keyed by owner.
	Save(ctx context.Context, cfg *SlippageConfigModel) error
	// FindByOwner returns nil, nil when no record exists for the owner.
	FindByOwner(ctx context.Context, owner string) (*SlippageConfigModel, error)
}

type EventRepository interface {
	Save(ctx context.Context, event *EventModel) error
	SaveBatch(ctx context.Context, events []*EventModel) error
	FindByKind(ctx context.Context, kind string, limit int, offset int) ([]*EventModel, error)
	FindByActor(ctx context.Context, actor string, limit int, offset int) ([]*EventModel, error)
	FindRecent(ctx context.Context, limit int) ([]*EventModel, error)
}

type Repository interface {
	SlippageConfigs() SlippageConfigRepository
	Events() EventRepository
	Close() error
	Ping(ctx context.Context) error
}
