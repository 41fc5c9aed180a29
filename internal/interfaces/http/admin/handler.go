package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        zerolog.Logger
	surveyService adminapp.SurveyService
	stopService   adminapp.StopService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        zerolog.Logger
	SurveyService adminapp.SurveyService
	StopService   adminapp.StopService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger.With().Str("component", "admin_http").Logger(),
		surveyService: cfg.SurveyService,
		stopService:   cfg.StopService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys", h.surveyListHandler())
	r.Post("/surveys", h.surveyCreateHandler())
	r.Get("/surveys/{id}", h.surveyDetailHandler())
	r.Patch("/surveys/{id}", h.surveyUpdateHandler())
	r.Get("/stops", h.stopSearchHandler())
	r.Get("/stops/{id}", h.stopDetailHandler())
	r.Put("/stops/{id}", h.stopUpsertHandler())
}
