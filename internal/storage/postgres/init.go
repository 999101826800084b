package postgres

import (
	"context"
	"fmt"

	"github.com/lugondev/clmm-relay/internal/config"
	"github.com/lugondev/clmm-relay/internal/storage"
)

func init() {
	storage.RegisterPostgresFactory(func(ctx context.Context, cfg *config.PostgresConfig) (storage.Repository, error) {
		repo, err := NewPostgresRepository(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres repository: %w", err)
		}
		return repo, nil
	})
}
