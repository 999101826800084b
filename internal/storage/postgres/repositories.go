package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lugondev/clmm-relay/internal/storage"
)

type postgresSlippageConfigRepository struct {
	pool *pgxpool.Pool
}

func (r *postgresSlippageConfigRepository) Save(ctx context.Context, cfg *storage.SlippageConfigModel) error {
	query := `
		INSERT INTO slippage_configs (id, owner, slippage_bps, updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner) DO UPDATE SET
			slippage_bps = $3, updated_at = $4
	`
	_, err := r.pool.Exec(ctx, query,
		cfg.ID, cfg.Owner, int32(cfg.SlippageBps), cfg.UpdatedAt, cfg.CreatedAt,
	)
	return err
}

func (r *postgresSlippageConfigRepository) FindByOwner(ctx context.Context, owner string) (*storage.SlippageConfigModel, error) {
	query := `SELECT id, owner, slippage_bps, updated_at, created_at
		FROM slippage_configs WHERE owner = $1`

	var cfg storage.SlippageConfigModel
	var bps int32
	err := r.pool.QueryRow(ctx, query, owner).Scan(
		&cfg.ID, &cfg.Owner, &bps, &cfg.UpdatedAt, &cfg.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	cfg.SlippageBps = uint16(bps)
	return &cfg, nil
}

type postgresEventRepository struct {
	pool *pgxpool.Pool
}

func (r *postgresEventRepository) Save(ctx context.Context, event *storage.EventModel) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (id, kind, actor, data, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		event.ID, event.Kind, event.Actor, data, event.Timestamp, event.CreatedAt,
	)
	return err
}

func (r *postgresEventRepository) SaveBatch(ctx context.Context, events []*storage.EventModel) error {
	if len(events) == 0 {
		return nil
	}

	helper := storage.NewPostgresBatchHelper(r.pool)
	query := `
		INSERT INTO events (id, kind, actor, data, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	encoded := make([][]byte, len(events))
	for i, event := range events {
		data, err := json.Marshal(event.Data)
		if err != nil {
			return err
		}
		encoded[i] = data
	}

	return helper.BatchInsert(ctx, query, len(events), func(batch *pgx.Batch, i int) {
		event := events[i]
		batch.Queue(query,
			event.ID, event.Kind, event.Actor, encoded[i], event.Timestamp, event.CreatedAt,
		)
	})
}

func (r *postgresEventRepository) FindByKind(ctx context.Context, kind string, limit int, offset int) ([]*storage.EventModel, error) {
	query := `SELECT id, kind, actor, data, timestamp, created_at
		FROM events WHERE kind = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *postgresEventRepository) FindByActor(ctx context.Context, actor string, limit int, offset int) ([]*storage.EventModel, error) {
	query := `SELECT id, kind, actor, data, timestamp, created_at
		FROM events WHERE actor = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, actor, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *postgresEventRepository) FindRecent(ctx context.Context, limit int) ([]*storage.EventModel, error) {
	query := `SELECT id, kind, actor, data, timestamp, created_at
		FROM events ORDER BY timestamp DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]*storage.EventModel, error) {
	var events []*storage.EventModel
	for rows.Next() {
		var event storage.EventModel
		var data []byte
		if err := rows.Scan(
			&event.ID, &event.Kind, &event.Actor, &data, &event.Timestamp, &event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &event.Data); err != nil {
				return nil, err
			}
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
