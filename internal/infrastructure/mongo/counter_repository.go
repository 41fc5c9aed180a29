package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterRepository は名前付きカウンタで整数 ID を採番する。
type CounterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepository(db *mongo.Database, collectionName string) *CounterRepository {
	return &CounterRepository{collection: db.Collection(collectionName)}
}

// Next increments the named counter and returns the new value, starting at 1.
func (r *CounterRepository) Next(ctx context.Context, name string) (int, error) {
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc CounterDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, update, opts).Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// EnsureAtLeast raises the counter to value when it is lower. Used after seeding explicit IDs.
func (r *CounterRepository) EnsureAtLeast(ctx context.Context, name string, value int) error {
	update := bson.M{"$max": bson.M{"seq": value}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": name}, update, options.Update().SetUpsert(true))
	return err
}
