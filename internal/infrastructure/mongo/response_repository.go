package mongo

import (
	"context"
	"errors"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// ResponseRepository は回答送信を追記専用で保存する。
type ResponseRepository struct {
	collection *mongo.Collection
}

func NewResponseRepository(db *mongo.Database, collectionName string) *ResponseRepository {
	return &ResponseRepository{collection: db.Collection(collectionName)}
}

func (r *ResponseRepository) Create(ctx context.Context, response *domain.SurveyResponse) error {
	if response == nil {
		return errors.New("response payload is nil")
	}
	answers := make([]AnswerDocument, 0, len(response.Answers))
	for _, a := range response.Answers {
		answers = append(answers, AnswerDocument{QuestionID: a.QuestionID, Values: append([]string{}, a.Values...)})
	}
	doc := ResponseDocument{
		ID:          response.ID,
		DeviceID:    response.DeviceID,
		SurveyID:    response.SurveyID,
		StopID:      response.StopID,
		Answers:     answers,
		SubmittedAt: response.SubmittedAt.UTC(),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
