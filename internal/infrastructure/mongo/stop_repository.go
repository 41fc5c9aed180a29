package mongo

import (
	"context"
	"errors"
	"strings"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StopRepository implements application.StopResolver using MongoDB.
type StopRepository struct {
	collection *mongo.Collection
}

// NewStopRepository creates a new Mongo-backed stop resolver.
func NewStopRepository(db *mongo.Database, collectionName string) *StopRepository {
	return &StopRepository{collection: db.Collection(collectionName)}
}

// FindStop resolves a stop and its serving routes.
func (r *StopRepository) FindStop(ctx context.Context, id string) (*domain.Stop, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, application.ErrStopNotFound
	}

	var doc StopDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrStopNotFound
		}
		return nil, err
	}

	return &domain.Stop{
		ID:       doc.ID,
		Name:     doc.Name,
		RouteIDs: append([]string{}, doc.RouteIDs...),
	}, nil
}
