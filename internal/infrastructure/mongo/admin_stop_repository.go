package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminStopRepository は管理者向け Stop 集約の Mongo 実装。
type AdminStopRepository struct {
	collection *mongo.Collection
}

// NewAdminStopRepository は MongoDB コレクションを束縛した AdminStopRepository を生成する。
func NewAdminStopRepository(db *mongo.Database, collection string) *AdminStopRepository {
	return &AdminStopRepository{collection: db.Collection(collection)}
}

// Find は曖昧検索と路線絞り込みをサポートした停留所一覧を返す。
func (r *AdminStopRepository) Find(ctx context.Context, filter adminapp.StopFilter, paging adminapp.Paging) ([]admindomain.Stop, error) {
	clauses := make([]bson.M, 0)
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"_id": regex},
			bson.M{"name": regex},
		}})
	}
	if routeID := strings.TrimSpace(filter.RouteID); routeID != "" {
		clauses = append(clauses, bson.M{"routeIds": routeID})
	}
	mongoFilter := bson.M{}
	if len(clauses) == 1 {
		mongoFilter = clauses[0]
	} else if len(clauses) > 1 {
		mongoFilter["$and"] = clauses
	}

	limit := paging.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit))
	if paging.Page > 1 {
		opts.SetSkip(int64((paging.Page - 1) * limit))
	}

	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stops := make([]admindomain.Stop, 0)
	for cursor.Next(ctx) {
		var doc StopDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		stops = append(stops, mapAdminStop(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return stops, nil
}

// FindByID は停留所 ID から単一停留所を返す。
func (r *AdminStopRepository) FindByID(ctx context.Context, id string) (*admindomain.Stop, error) {
	var doc StopDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": strings.TrimSpace(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, adminapp.ErrNotFound
		}
		return nil, err
	}
	stop := mapAdminStop(doc)
	return &stop, nil
}

// Upsert は停留所を ID 単位で置き換え (存在しなければ作成) する。
func (r *AdminStopRepository) Upsert(ctx context.Context, stop *admindomain.Stop) error {
	if stop == nil {
		return errors.New("stop payload is nil")
	}
	routes := stop.RouteIDs.Strings()
	if routes == nil {
		routes = []string{}
	}
	doc := StopDocument{
		ID:        stop.ID.String(),
		Name:      strings.TrimSpace(stop.Name),
		RouteIDs:  routes,
		UpdatedAt: stop.UpdatedAt,
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func mapAdminStop(doc StopDocument) admindomain.Stop {
	routes := admindomain.NewIDList(doc.RouteIDs)
	if routes == nil {
		routes = admindomain.IDList{}
	}
	return admindomain.Stop{
		ID:        admindomain.StopID(doc.ID),
		Name:      doc.Name,
		RouteIDs:  routes,
		UpdatedAt: doc.UpdatedAt,
	}
}
