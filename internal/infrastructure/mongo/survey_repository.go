package mongo

import (
	"context"
	"errors"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyRepository はライダー向けのアンケートカタログを MongoDB から供給する。
type SurveyRepository struct {
	collection *mongo.Collection
}

// NewSurveyRepository はアンケート定義コレクションを束縛したリポジトリを構築する。
func NewSurveyRepository(db *mongo.Database, collectionName string) *SurveyRepository {
	return &SurveyRepository{collection: db.Collection(collectionName)}
}

// ActiveSurveys は全アンケートを ID 昇順で返す。表示期間による絞り込みは行わない。
func (r *SurveyRepository) ActiveSurveys(ctx context.Context) ([]domain.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]domain.Survey, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		surveys = append(surveys, mapSurveyDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return surveys, nil
}

// FindByID は単一アンケートを取得する。存在しなければ ErrSurveyNotFound。
func (r *SurveyRepository) FindByID(ctx context.Context, id int) (*domain.Survey, error) {
	var doc SurveyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrSurveyNotFound
		}
		return nil, err
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// mapSurveyDocument は Mongo ドキュメントをエンゲージメントドメインの Survey に変換する。
func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		questions = append(questions, domain.Question{
			ID:       q.ID,
			Position: q.Position,
			Type:     domain.QuestionType(q.Type),
			Required: q.Required,
			Label:    q.Label,
			Options:  append([]string{}, q.Options...),
			URL:      q.URL,
		})
	}

	survey := domain.Survey{
		ID:                      doc.ID,
		Name:                    doc.Name,
		ShowOnMap:               doc.ShowOnMap,
		ShowOnStops:             doc.ShowOnStops,
		VisibleStopIDs:          copyIDs(doc.VisibleStopIDs),
		VisibleRouteIDs:         copyIDs(doc.VisibleRouteIDs),
		AllowsVisible:           doc.AllowsVisible,
		AllowsMultipleResponses: doc.AllowsMultipleResponses,
		Questions:               questions,
	}
	if doc.StartDate != nil {
		survey.StartDate = doc.StartDate.UTC()
	}
	if doc.EndDate != nil {
		survey.EndDate = doc.EndDate.UTC()
	}
	return survey
}

// copyIDs は nil と空配列の区別を保ったままスライスを複製する。
func copyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	return append(make([]string, 0, len(ids)), ids...)
}
