package public

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	engagementapp "github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
)

// Handler wires rider-facing HTTP endpoints to engagement services.
type Handler struct {
	logger     zerolog.Logger
	engagement engagementapp.EngagementService
	responses  engagementapp.ResponseService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger     zerolog.Logger
	Engagement engagementapp.EngagementService
	Responses  engagementapp.ResponseService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger.With().Str("component", "public_http").Logger(),
		engagement: cfg.Engagement,
		responses:  cfg.Responses,
	}
}

// Register mounts all device routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/devices/{deviceID}", func(r chi.Router) {
		r.Post("/launches", h.launchHandler())
		r.Get("/preferences", h.preferencesHandler())
		r.Patch("/preferences", h.preferencesUpdateHandler())
		r.Get("/survey-prompt", h.promptHandler())
		r.Post("/surveys/{surveyID}/complete", h.completeHandler())
		r.Post("/surveys/{surveyID}/skip", h.skipHandler())
		r.Post("/surveys/{surveyID}/remind-later", h.remindLaterHandler())
		r.Post("/surveys/{surveyID}/responses", h.responseCreateHandler())
	})
}
