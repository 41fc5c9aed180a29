package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/sngm3741/transit-survey-services/api/internal/infrastructure/mongo"
	"github.com/sngm3741/transit-survey-services/api/internal/logger"
)

type seedOptions struct {
	envName         string
	stopCount       int
	routeCount      int
	surveyCount     int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	surveys     string
	stops       string
	preferences string
	responses   string
	counters    string
}

func main() {
	opts := parseFlags()
	logger.Init()
	log := logger.Logger

	loadEnvFiles(log, opts.envName)

	cfg := collections{
		surveys:     envOrDefault("SURVEY_COLLECTION", "surveys"),
		stops:       envOrDefault("STOP_COLLECTION", "stops"),
		preferences: envOrDefault("PREFERENCE_COLLECTION", "survey_preferences"),
		responses:   envOrDefault("RESPONSE_COLLECTION", "survey_responses"),
		counters:    envOrDefault("COUNTER_COLLECTION", "counters"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "transit-survey")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("MongoDB 接続に失敗しました")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropCollections(ctx, log, db, cfg)
		log.Info().Msg("既存コレクションを削除しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, mongodoc.Collections{
		Surveys:   cfg.surveys,
		Stops:     cfg.stops,
		Responses: cfg.responses,
	}); err != nil {
		log.Fatal().Err(err).Msg("インデックス作成に失敗しました")
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()

	routes := generateRoutes(opts.routeCount)
	stopDocs := generateStops(rng, routes, opts.stopCount, now)
	if len(stopDocs) == 0 {
		log.Fatal().Msg("stop docs が生成されませんでした")
	}
	if err := insertMany(ctx, db.Collection(cfg.stops), toAnySlice(stopDocs)); err != nil {
		log.Fatal().Err(err).Msg("停留所データの挿入に失敗しました")
	}

	surveyDocs := generateSurveys(rng, stopDocs, routes, opts.surveyCount, now)
	if err := insertMany(ctx, db.Collection(cfg.surveys), toAnySlice(surveyDocs)); err != nil {
		log.Fatal().Err(err).Msg("アンケートデータの挿入に失敗しました")
	}

	// 明示 ID で投入したので、管理画面からの新規作成と衝突しないよう採番を進めておく
	counters := mongodoc.NewCounterRepository(db, cfg.counters)
	if err := counters.EnsureAtLeast(ctx, mongodoc.SurveyCounterName, len(surveyDocs)); err != nil {
		log.Fatal().Err(err).Msg("カウンタの更新に失敗しました")
	}

	log.Info().
		Int("stops", len(stopDocs)).
		Int("routes", len(routes)).
		Int("surveys", len(surveyDocs)).
		Msg("Seed 完了")
	log.Info().Str("mongo", mongoURI).Str("db", dbName).Str("env", opts.envName).Msg("投入先")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.stopCount, "stops", 40, "生成する停留所数")
	flag.IntVar(&opts.routeCount, "routes", 6, "生成する路線数")
	flag.IntVar(&opts.surveyCount, "surveys", 8, "生成するアンケート数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()
	return opts
}

func loadEnvFiles(log zerolog.Logger, envName string) {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := godotenv.Overload(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("env ファイルを読み込めませんでした")
		}
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, log zerolog.Logger, db *mongo.Database, cfg collections) {
	for _, name := range []string{cfg.surveys, cfg.stops, cfg.preferences, cfg.responses, cfg.counters} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("コレクションの削除に失敗")
		}
	}
}

func generateRoutes(count int) []string {
	routes := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		routes = append(routes, fmt.Sprintf("R%02d", i))
	}
	return routes
}

func generateStops(rng *rand.Rand, routes []string, count int, now time.Time) []mongodoc.StopDocument {
	docs := make([]mongodoc.StopDocument, 0, count)
	for i := 1; i <= count; i++ {
		picked := pickUnique(rng, routes, 1+rng.Intn(3))
		docs = append(docs, mongodoc.StopDocument{
			ID:        fmt.Sprintf("S%04d", i),
			Name:      fmt.Sprintf("%s%d丁目", stopNames[rng.Intn(len(stopNames))], 1+rng.Intn(9)),
			RouteIDs:  picked,
			UpdatedAt: now,
		})
	}
	return docs
}

// generateSurveys は 3 種類の回答方針と全体・停留所限定・路線限定のターゲティングを巡回して生成する。
func generateSurveys(rng *rand.Rand, stops []mongodoc.StopDocument, routes []string, count int, now time.Time) []mongodoc.SurveyDocument {
	docs := make([]mongodoc.SurveyDocument, 0, count)
	for i := 1; i <= count; i++ {
		doc := mongodoc.SurveyDocument{
			ID:          i,
			Name:        fmt.Sprintf("%s #%d", surveyTitles[(i-1)%len(surveyTitles)], i),
			ShowOnMap:   rng.Intn(3) != 0,
			ShowOnStops: rng.Intn(4) != 0,
			Questions:   sampleQuestions(i),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		switch i % 3 {
		case 0:
			doc.AllowsMultipleResponses = true
		case 1:
			doc.AllowsVisible = true
		}

		switch i % 4 {
		case 1:
			stopIDs := make([]string, 0, 3)
			for _, s := range pickStops(rng, stops, 3) {
				stopIDs = append(stopIDs, s.ID)
			}
			doc.VisibleStopIDs = stopIDs
		case 2:
			doc.VisibleRouteIDs = pickUnique(rng, routes, 1)
		}

		if i%5 == 0 {
			start := now.AddDate(0, 0, -7)
			end := now.AddDate(0, 1, 0)
			doc.StartDate = &start
			doc.EndDate = &end
		}

		docs = append(docs, doc)
	}
	return docs
}

func sampleQuestions(surveyID int) []mongodoc.QuestionDocument {
	questions := []mongodoc.QuestionDocument{
		{ID: 1, Position: 1, Type: "label", Label: "ご利用ありがとうございます。"},
		{ID: 2, Position: 2, Type: "radio", Required: true, Label: "本日のご利用目的", Options: []string{"通勤", "通学", "買い物", "その他"}},
		{ID: 3, Position: 3, Type: "checkbox", Label: "改善してほしい点", Options: []string{"運行本数", "定時性", "車内の混雑", "案内表示"}},
		{ID: 4, Position: 4, Type: "text", Label: "ご意見・ご要望"},
	}
	if surveyID%4 == 0 {
		questions = append(questions, mongodoc.QuestionDocument{
			ID: 5, Position: 5, Type: "external_survey", Label: "詳細アンケート", URL: "https://forms.example.com/transit",
		})
	}
	return questions
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func pickUnique(rng *rand.Rand, source []string, count int) []string {
	if count >= len(source) {
		cp := make([]string, len(source))
		copy(cp, source)
		return cp
	}
	seen := make(map[int]struct{}, count)
	result := make([]string, 0, count)
	for len(result) < count {
		idx := rng.Intn(len(source))
		if _, ok := seen[idx]; ok {
			continue
		}
		seen[idx] = struct{}{}
		result = append(result, source[idx])
	}
	return result
}

func pickStops(rng *rand.Rand, stops []mongodoc.StopDocument, count int) []mongodoc.StopDocument {
	if count > len(stops) {
		count = len(stops)
	}
	perm := rng.Perm(len(stops))[:count]
	out := make([]mongodoc.StopDocument, 0, count)
	for _, idx := range perm {
		out = append(out, stops[idx])
	}
	return out
}

var stopNames = []string{"中央", "駅前", "市役所前", "本町", "緑ヶ丘", "港町", "大学前", "病院前", "旭町", "栄町"}

var surveyTitles = []string{
	"バス利用満足度調査",
	"停留所環境アンケート",
	"路線再編に関する意見募集",
	"ダイヤ改正アンケート",
	"車内サービス調査",
}
