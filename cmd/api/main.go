package main

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/transit-survey-services/api/internal/config"
	mongodoc "github.com/sngm3741/transit-survey-services/api/internal/infrastructure/mongo"
	"github.com/sngm3741/transit-survey-services/api/internal/logger"
	"github.com/sngm3741/transit-survey-services/api/internal/server"
)

func main() {
	logger.Init()
	log := logger.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗しました")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("MongoDB 接続に失敗しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase), mongodoc.Collections{
		Surveys:   cfg.SurveyCollection,
		Stops:     cfg.StopCollection,
		Responses: cfg.ResponseCollection,
	}); err != nil {
		log.Warn().Err(err).Msg("インデックス作成に失敗しました")
	}

	app := server.New(cfg, client, log)
	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("サーバー起動に失敗")
	}
}
