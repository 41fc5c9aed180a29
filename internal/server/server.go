package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	"github.com/sngm3741/transit-survey-services/api/internal/config"
	engagementapp "github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	mongodoc "github.com/sngm3741/transit-survey-services/api/internal/infrastructure/mongo"
	redisstore "github.com/sngm3741/transit-survey-services/api/internal/infrastructure/redis"
	adminhttp "github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/transit-survey-services/api/internal/interfaces/http/public"
	"github.com/sngm3741/transit-survey-services/api/internal/metrics"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger             zerolog.Logger
	client             *mongo.Client
	redis              *goredis.Client
	engagementService  engagementapp.EngagementService
	responseService    engagementapp.ResponseService
	adminSurveyService adminapp.SurveyService
	adminStopService   adminapp.StopService
	recorder           *metrics.Recorder
	jwtConfigs         []config.JWTConfig
	jwtAudience        string
	addr               string
	allowedOrigins     []string
	rateLimit          rateLimitConfig
}

type rateLimitConfig struct {
	enabled bool
	limit   int
	window  time.Duration
}

// Run はHTTPサーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("HTTP サーバー起動")
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// Router は Public/Admin のルーティングとミドルウェアを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Handle("/metrics", s.recorder.Handler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:     s.logger,
		Engagement: s.engagementService,
		Responses:  s.responseService,
	})
	router.Group(func(r chi.Router) {
		if s.rateLimit.enabled {
			r.Use(httprate.LimitByIP(s.rateLimit.limit, s.rateLimit.window))
		}
		publicHandler.Register(r)
	})

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:        s.logger,
		SurveyService: s.adminSurveyService,
		StopService:   s.adminStopService,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	return router
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB (と設定時は Redis) への疎通確認を行う。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		if s.redis != nil {
			if err := s.redis.Ping(ctx).Err(); err != nil {
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// shutdown は MongoDB/Redis クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("MongoDB 切断時にエラー")
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Redis 切断時にエラー")
		}
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer srv.shutdown(context.Background())

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-sigChan:
		srv.logger.Info().Str("signal", sig.String()).Msg("シグナルを受信。サーバー停止処理を開始します。")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Error().Err(err).Msg("サーバー停止時にエラー")
		}
	}
	return nil
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client, logger zerolog.Logger) *Server {
	db := client.Database(cfg.MongoDatabase)

	srv := &Server{
		logger:         logger,
		client:         client,
		recorder:       metrics.NewRecorder(),
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		rateLimit: rateLimitConfig{
			enabled: cfg.RLEnabled,
			limit:   cfg.RLLimit,
			window:  cfg.RLWindow,
		},
	}

	var prefRepo engagementapp.PreferenceRepository
	switch cfg.PreferenceBackend {
	case config.BackendRedis:
		srv.redis = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		prefRepo = redisstore.NewPreferenceRepository(srv.redis, cfg.RedisKeyPrefix)
	default:
		prefRepo = mongodoc.NewPreferenceRepository(db, cfg.PreferenceCollection)
	}
	logger.Info().Str("backend", cfg.PreferenceBackend).Msg("preference backend selected")

	catalog := mongodoc.NewSurveyRepository(db, cfg.SurveyCollection)
	srv.engagementService = engagementapp.NewEngagementService(engagementapp.EngagementConfig{
		Stores:   engagementapp.NewPreferenceStores(prefRepo, logger),
		Catalog:  catalog,
		Stops:    mongodoc.NewStopRepository(db, cfg.StopCollection),
		Recorder: srv.recorder,
		Logger:   logger,
	})
	srv.responseService = engagementapp.NewResponseService(
		catalog,
		mongodoc.NewResponseRepository(db, cfg.ResponseCollection),
		srv.engagementService,
		nil,
	)

	adminSurveyRepo := mongodoc.NewAdminSurveyRepository(db, cfg.SurveyCollection, cfg.ResponseCollection, cfg.CounterCollection)
	srv.adminSurveyService = adminapp.NewSurveyService(adminSurveyRepo, nil)
	srv.adminStopService = adminapp.NewStopService(mongodoc.NewAdminStopRepository(db, cfg.StopCollection), nil)

	return srv
}
