package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lugondev/clmm-relay/internal/storage"
)

type mongoSlippageConfigRepository struct {
	collection *mongo.Collection
}

func (r *mongoSlippageConfigRepository) Save(ctx context.Context, cfg *storage.SlippageConfigModel) error {
	filter := bson.M{"owner": cfg.Owner}
	update := bson.M{
		"$set": bson.M{
			"slippage_bps": cfg.SlippageBps,
			"updated_at":   cfg.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        cfg.ID,
			"owner":      cfg.Owner,
			"created_at": cfg.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *mongoSlippageConfigRepository) FindByOwner(ctx context.Context, owner string) (*storage.SlippageConfigModel, error) {
	var cfg storage.SlippageConfigModel
	err := r.collection.FindOne(ctx, bson.M{"owner": owner}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

type mongoEventRepository struct {
	collection *mongo.Collection
}

func (r *mongoEventRepository) Save(ctx context.Context, event *storage.EventModel) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *mongoEventRepository) SaveBatch(ctx context.Context, events []*storage.EventModel) error {
	helper := storage.NewMongoBatchHelper[*storage.EventModel](r.collection)
	return helper.InsertMany(ctx, events)
}

func (r *mongoEventRepository) FindByKind(ctx context.Context, kind string, limit int, offset int) ([]*storage.EventModel, error) {
	opts := options.Find().SetLimit(int64(limit)).SetSkip(int64(offset)).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*storage.EventModel
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *mongoEventRepository) FindByActor(ctx context.Context, actor string, limit int, offset int) ([]*storage.EventModel, error) {
	opts := options.Find().SetLimit(int64(limit)).SetSkip(int64(offset)).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"actor": actor}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*storage.EventModel
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *mongoEventRepository) FindRecent(ctx context.Context, limit int) ([]*storage.EventModel, error) {
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*storage.EventModel
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
