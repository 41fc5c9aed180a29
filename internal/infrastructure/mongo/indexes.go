package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections はインデックス作成対象のコレクション名。
type Collections struct {
	Surveys   string
	Stops     string
	Responses string
}

// EnsureIndexes creates the lookup indexes used by the admin filters and response stats.
func EnsureIndexes(ctx context.Context, db *mongo.Database, cols Collections) error {
	surveyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "visibleStopIds", Value: 1}},
			Options: options.Index().SetName("idx_survey_visible_stops"),
		},
		{
			Keys:    bson.D{{Key: "visibleRouteIds", Value: 1}},
			Options: options.Index().SetName("idx_survey_visible_routes"),
		},
	}
	if _, err := db.Collection(cols.Surveys).Indexes().CreateMany(ctx, surveyIndexes); err != nil {
		return err
	}

	if _, err := db.Collection(cols.Stops).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "routeIds", Value: 1}},
		Options: options.Index().SetName("idx_stop_routes"),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cols.Responses).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "submittedAt", Value: -1}},
			Options: options.Index().SetName("idx_response_survey_submitted"),
		},
		{
			Keys:    bson.D{{Key: "deviceId", Value: 1}},
			Options: options.Index().SetName("idx_response_device"),
		},
	}); err != nil {
		return err
	}

	return nil
}
