package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

// EngagementConfig provides dependencies for NewEngagementService.
type EngagementConfig struct {
	Stores   *PreferenceStores
	Catalog  SurveyCatalog
	Stops    StopResolver
	Recorder DecisionRecorder
	Clock    Clock
	Logger   zerolog.Logger
}

type engagementService struct {
	stores   *PreferenceStores
	catalog  SurveyCatalog
	stops    StopResolver
	recorder DecisionRecorder
	now      Clock
	logger   zerolog.Logger
}

// NewEngagementService wires the gate and selector to the catalog and stop lookups.
func NewEngagementService(cfg EngagementConfig) EngagementService {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &engagementService{
		stores:   cfg.Stores,
		catalog:  cfg.Catalog,
		stops:    cfg.Stops,
		recorder: recorder,
		now:      now,
		logger:   cfg.Logger.With().Str("component", "engagement").Logger(),
	}
}

func (s *engagementService) RecordLaunch(ctx context.Context, deviceID string) (domain.Preferences, error) {
	store, err := s.stores.Open(ctx, deviceID)
	if err != nil {
		return domain.Preferences{}, err
	}
	return store.Update(ctx, func(p *domain.Preferences) {
		p.AppLaunchCount++
	})
}

func (s *engagementService) Preferences(ctx context.Context, deviceID string) (domain.Preferences, error) {
	store, err := s.stores.Open(ctx, deviceID)
	if err != nil {
		return domain.Preferences{}, err
	}
	return store.Preferences(), nil
}

func (s *engagementService) SetSurveyEnabled(ctx context.Context, deviceID string, enabled bool) (domain.Preferences, error) {
	store, err := s.stores.Open(ctx, deviceID)
	if err != nil {
		return domain.Preferences{}, err
	}
	return store.Update(ctx, func(p *domain.Preferences) {
		p.SurveyEnabled = enabled
	})
}

func (s *engagementService) NextPrompt(ctx context.Context, deviceID string, req PromptRequest) (*domain.Survey, error) {
	store, err := s.stores.Open(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	pc := domain.MapOverview()
	if req.StopID != "" {
		pc = domain.StopDetail(nil)
	}

	if !NewGate(store, s.now).ShouldShowSurvey() {
		s.recorder.PromptDecided(pc.Kind, OutcomeGated)
		return nil, nil
	}

	if req.StopID != "" {
		stop, err := s.stops.FindStop(ctx, req.StopID)
		switch {
		case err == nil:
			pc = domain.StopDetail(stop)
		case errors.Is(err, ErrStopNotFound):
			s.logger.Debug().Str("stop_id", req.StopID).Msg("unknown stop, no survey selected")
		default:
			return nil, fmt.Errorf("resolve stop %q: %w", req.StopID, err)
		}
	}

	surveys, err := s.catalog.ActiveSurveys(ctx)
	if err != nil {
		return nil, fmt.Errorf("load survey catalog: %w", err)
	}

	idx, ok := NewSelector(store).NextSurveyIndex(surveys, pc)
	if !ok {
		s.recorder.PromptDecided(pc.Kind, OutcomeNone)
		return nil, nil
	}

	selected := surveys[idx]
	s.recorder.PromptDecided(pc.Kind, OutcomeSelected)
	s.logger.Info().
		Str("device_id", deviceID).
		Int("survey_id", selected.ID).
		Str("class", selected.Class().String()).
		Str("context", pc.Kind.String()).
		Msg("survey selected")
	return &selected, nil
}

func (s *engagementService) Complete(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error) {
	return s.act(ctx, deviceID, surveyID, "complete", (*PreferenceStore).MarkCompleted)
}

func (s *engagementService) Skip(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error) {
	return s.act(ctx, deviceID, surveyID, "skip", (*PreferenceStore).MarkSkipped)
}

func (s *engagementService) RemindLater(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error) {
	return s.act(ctx, deviceID, surveyID, "remind_later", nil)
}

// act marks surveyID via mark (when set) and pushes the reminder cooldown forward.
func (s *engagementService) act(ctx context.Context, deviceID string, surveyID int, action string, mark func(*PreferenceStore, context.Context, int) (domain.Preferences, error)) (domain.Preferences, error) {
	survey, err := s.catalog.FindByID(ctx, surveyID)
	if err != nil {
		return domain.Preferences{}, err
	}
	store, err := s.stores.Open(ctx, deviceID)
	if err != nil {
		return domain.Preferences{}, err
	}
	if mark != nil {
		if _, err := mark(store, ctx, surveyID); err != nil {
			return domain.Preferences{}, err
		}
	}
	if _, err := NewGate(store, s.now).SetNextReminderDate(ctx); err != nil {
		return domain.Preferences{}, err
	}
	s.recorder.SurveyAction(action, survey.Class())
	return store.Preferences(), nil
}
