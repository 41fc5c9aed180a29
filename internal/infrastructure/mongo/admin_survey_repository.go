package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyCounterName はアンケート ID 採番用カウンタのキー。
const SurveyCounterName = "surveys"

// AdminSurveyRepository は管理者向けアンケート定義を MongoDB 経由で扱うリポジトリ。
type AdminSurveyRepository struct {
	surveys   *mongo.Collection
	responses *mongo.Collection
	counters  *CounterRepository
}

// NewAdminSurveyRepository はアンケート・回答・カウンタの 3 コレクションを束縛したリポジトリを生成する。
func NewAdminSurveyRepository(db *mongo.Database, surveyCollection, responseCollection, counterCollection string) *AdminSurveyRepository {
	return &AdminSurveyRepository{
		surveys:   db.Collection(surveyCollection),
		responses: db.Collection(responseCollection),
		counters:  NewCounterRepository(db, counterCollection),
	}
}

// Find はキーワード・停留所・路線条件を Mongo クエリへ変換し、管理画面一覧を返す。
func (r *AdminSurveyRepository) Find(ctx context.Context, filter adminapp.SurveyFilter, paging adminapp.Paging) ([]admindomain.SurveyDefinition, error) {
	mongoFilter := bson.M{}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		mongoFilter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	}
	if stopID := strings.TrimSpace(filter.StopID); stopID != "" {
		mongoFilter["visibleStopIds"] = stopID
	}
	if routeID := strings.TrimSpace(filter.RouteID); routeID != "" {
		mongoFilter["visibleRouteIds"] = routeID
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if paging.Page > 1 {
			skip := int64((paging.Page - 1) * paging.Limit)
			findOpts.SetSkip(skip)
		}
	}

	cursor, err := r.surveys.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]admindomain.SurveyDefinition, 0)
	ids := make([]int, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		survey, err := mapAdminSurveyDocument(doc)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	stats, err := r.responseStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range surveys {
		surveys[i].Stats = stats[surveys[i].ID]
	}
	return surveys, nil
}

// FindByID は単一のアンケート定義と回答統計を復元する。
func (r *AdminSurveyRepository) FindByID(ctx context.Context, id int) (*admindomain.SurveyDefinition, error) {
	var doc SurveyDocument
	if err := r.surveys.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, adminapp.ErrNotFound
		}
		return nil, err
	}
	survey, err := mapAdminSurveyDocument(doc)
	if err != nil {
		return nil, err
	}
	stats, err := r.responseStats(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	survey.Stats = stats[id]
	return &survey, nil
}

// Create はカウンタから ID を採番し、新規アンケートを登録する。
func (r *AdminSurveyRepository) Create(ctx context.Context, survey *admindomain.SurveyDefinition) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	id, err := r.counters.Next(ctx, SurveyCounterName)
	if err != nil {
		return fmt.Errorf("allocate survey id: %w", err)
	}
	survey.ID = id
	doc := mapDomainSurveyToDocument(survey)
	_, err = r.surveys.InsertOne(ctx, doc)
	return err
}

// Update はアンケート定義を差し替える。createdAt は保持する。
func (r *AdminSurveyRepository) Update(ctx context.Context, survey *admindomain.SurveyDefinition) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	doc := mapDomainSurveyToDocument(survey)
	result, err := r.surveys.UpdateByID(ctx, survey.ID, bson.M{"$set": buildSurveyUpdatePayload(doc)})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return adminapp.ErrNotFound
	}
	return nil
}

// responseStats は回答コレクションを集計し、アンケート ID ごとの件数と最終回答日時を返す。
func (r *AdminSurveyRepository) responseStats(ctx context.Context, ids []int) (map[int]admindomain.ResponseStats, error) {
	result := make(map[int]admindomain.ResponseStats, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"surveyId": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$surveyId",
			"count":           bson.M{"$sum": 1},
			"lastSubmittedAt": bson.M{"$max": "$submittedAt"},
		}}},
	}

	cursor, err := r.responses.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var agg struct {
			SurveyID        int        `bson:"_id"`
			Count           int        `bson:"count"`
			LastSubmittedAt *time.Time `bson:"lastSubmittedAt"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return nil, err
		}
		result[agg.SurveyID] = admindomain.ResponseStats{Count: agg.Count, LastSubmittedAt: agg.LastSubmittedAt}
	}
	return result, cursor.Err()
}

// mapAdminSurveyDocument は Mongo 文書を Admin ドメインへ変換し、保存値の妥当性も合わせて確認する。
func mapAdminSurveyDocument(doc SurveyDocument) (admindomain.SurveyDefinition, error) {
	name, err := admindomain.NewSurveyName(doc.Name)
	if err != nil {
		return admindomain.SurveyDefinition{}, err
	}
	var start, end time.Time
	if doc.StartDate != nil {
		start = *doc.StartDate
	}
	if doc.EndDate != nil {
		end = *doc.EndDate
	}
	window, err := admindomain.NewDateRange(start, end)
	if err != nil {
		return admindomain.SurveyDefinition{}, err
	}

	questions := make([]admindomain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		question, err := admindomain.NewQuestion(q.ID, q.Position, q.Type, q.Required, q.Label, q.Options, q.URL)
		if err != nil {
			return admindomain.SurveyDefinition{}, fmt.Errorf("survey %d: %w", doc.ID, err)
		}
		questions = append(questions, question)
	}

	return admindomain.SurveyDefinition{
		ID:                      doc.ID,
		Name:                    name,
		ShowOnMap:               doc.ShowOnMap,
		ShowOnStops:             doc.ShowOnStops,
		VisibleStopIDs:          admindomain.NewIDList(doc.VisibleStopIDs),
		VisibleRouteIDs:         admindomain.NewIDList(doc.VisibleRouteIDs),
		AllowsVisible:           doc.AllowsVisible,
		AllowsMultipleResponses: doc.AllowsMultipleResponses,
		Questions:               questions,
		Window:                  window,
		CreatedAt:               doc.CreatedAt,
		UpdatedAt:               doc.UpdatedAt,
	}, nil
}

// mapDomainSurveyToDocument はドメインのアンケート定義を Mongo 保存形式に射影する。
func mapDomainSurveyToDocument(survey *admindomain.SurveyDefinition) SurveyDocument {
	questions := make([]QuestionDocument, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		var opts []string
		if len(q.Options) > 0 {
			opts = append([]string{}, q.Options...)
		}
		questions = append(questions, QuestionDocument{
			ID:       q.ID,
			Position: q.Position,
			Type:     string(q.Type),
			Required: q.Required,
			Label:    q.Label,
			Options:  opts,
			URL:      q.URL.String(),
		})
	}

	createdAt := survey.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := survey.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return SurveyDocument{
		ID:                      survey.ID,
		Name:                    survey.Name.String(),
		ShowOnMap:               survey.ShowOnMap,
		ShowOnStops:             survey.ShowOnStops,
		VisibleStopIDs:          survey.VisibleStopIDs.Strings(),
		VisibleRouteIDs:         survey.VisibleRouteIDs.Strings(),
		AllowsVisible:           survey.AllowsVisible,
		AllowsMultipleResponses: survey.AllowsMultipleResponses,
		Questions:               questions,
		StartDate:               timePtr(survey.Window.Start),
		EndDate:                 timePtr(survey.Window.End),
		CreatedAt:               createdAt,
		UpdatedAt:               updatedAt,
	}
}

// buildSurveyUpdatePayload は SurveyDocument を $set 用の BSON マップに変換する。
func buildSurveyUpdatePayload(doc SurveyDocument) bson.M {
	return bson.M{
		"name":                    doc.Name,
		"showOnMap":               doc.ShowOnMap,
		"showOnStops":             doc.ShowOnStops,
		"visibleStopIds":          doc.VisibleStopIDs,
		"visibleRouteIds":         doc.VisibleRouteIDs,
		"allowsVisible":           doc.AllowsVisible,
		"allowsMultipleResponses": doc.AllowsMultipleResponses,
		"questions":               doc.Questions,
		"startDate":               doc.StartDate,
		"endDate":                 doc.EndDate,
		"updatedAt":               doc.UpdatedAt,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
