package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lugondev/clmm-relay/internal/config"
	"github.com/lugondev/clmm-relay/internal/storage"
)

type MongoRepository struct {
	client     *mongo.Client
	database   *mongo.Database
	configs    *mongo.Collection
	events     *mongo.Collection
	configRepo storage.SlippageConfigRepository
	eventRepo  storage.EventRepository
}

func NewMongoRepository(ctx context.Context, cfg *config.MongoDBConfig) (*MongoRepository, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)

	repo := &MongoRepository{
		client:   client,
		database: database,
		configs:  database.Collection("slippage_configs"),
		events:   database.Collection("events"),
	}

	repo.configRepo = &mongoSlippageConfigRepository{collection: repo.configs}
	repo.eventRepo = &mongoEventRepository{collection: repo.events}

	if err := repo.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return repo, nil
}

func (r *MongoRepository) createIndexes(ctx context.Context) error {
	indexes := []struct {
		collection *mongo.Collection
		models     []mongo.IndexModel
	}{
		{
			collection: r.configs,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetUnique(true)},
			},
		},
		{
			collection: r.events,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "kind", Value: 1}}},
				{Keys: bson.D{{Key: "actor", Value: 1}}},
				{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			},
		},
	}

	for _, idx := range indexes {
		if _, err := idx.collection.Indexes().CreateMany(ctx, idx.models); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoRepository) SlippageConfigs() storage.SlippageConfigRepository {
	return r.configRepo
}

func (r *MongoRepository) Events() storage.EventRepository {
	return r.eventRepo
}

func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}
