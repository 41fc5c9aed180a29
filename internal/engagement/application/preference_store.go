package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

// PreferenceStore is one device's view of its Preferences. The repository is
// the source of truth; the snapshot only advances after a successful write.
type PreferenceStore struct {
	mu       sync.RWMutex
	deviceID string
	prefs    domain.Preferences
	repo     PreferenceRepository
	logger   zerolog.Logger
}

// NewPreferenceStore creates a store seeded with prefs. repo may be nil for a
// purely in-memory store.
func NewPreferenceStore(deviceID string, prefs domain.Preferences, repo PreferenceRepository, logger zerolog.Logger) *PreferenceStore {
	return &PreferenceStore{
		deviceID: deviceID,
		prefs:    normalize(prefs),
		repo:     repo,
		logger:   logger,
	}
}

// Preferences returns a snapshot of the current state.
func (s *PreferenceStore) Preferences() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// SetPreferences replaces the stored record wholesale.
func (s *PreferenceStore) SetPreferences(ctx context.Context, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := normalize(prefs.Clone())
	if s.repo != nil {
		if err := s.repo.Save(ctx, s.deviceID, next.Clone()); err != nil {
			s.logger.Error().Err(err).Str("device_id", s.deviceID).Msg("preference save failed")
			return fmt.Errorf("save preferences: %w", err)
		}
	}
	s.prefs = next
	return nil
}

// Update applies fn as one read-modify-write against the repository. On
// failure the snapshot is left untouched.
func (s *PreferenceStore) Update(ctx context.Context, fn func(*domain.Preferences)) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply := func(p *domain.Preferences) {
		*p = normalize(*p)
		fn(p)
	}

	if s.repo == nil {
		next := s.prefs.Clone()
		apply(&next)
		s.prefs = normalize(next)
		return s.prefs.Clone(), nil
	}

	next, err := s.repo.Modify(ctx, s.deviceID, apply)
	if errors.Is(err, ErrCorruptPreferences) {
		s.logger.Warn().Err(err).Str("device_id", s.deviceID).Msg("resetting corrupt preferences before update")
		if err = s.repo.Save(ctx, s.deviceID, domain.DefaultPreferences()); err == nil {
			next, err = s.repo.Modify(ctx, s.deviceID, apply)
		}
	}
	if err != nil {
		s.logger.Error().Err(err).Str("device_id", s.deviceID).Msg("preference save failed")
		return s.prefs.Clone(), fmt.Errorf("save preferences: %w", err)
	}

	s.prefs = normalize(next)
	return s.prefs.Clone(), nil
}

// CompletedSurveys projects the completed survey IDs.
func (s *PreferenceStore) CompletedSurveys() domain.IDSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.CompletedSurveyIDs.Clone()
}

// SkippedSurveys projects the skipped survey IDs.
func (s *PreferenceStore) SkippedSurveys() domain.IDSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.SkippedSurveyIDs.Clone()
}

// MarkCompleted records that the rider finished surveyID.
func (s *PreferenceStore) MarkCompleted(ctx context.Context, surveyID int) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) {
		p.CompletedSurveyIDs.Add(surveyID)
	})
}

// MarkSkipped records that the rider dismissed surveyID.
func (s *PreferenceStore) MarkSkipped(ctx context.Context, surveyID int) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) {
		p.SkippedSurveyIDs.Add(surveyID)
	})
}

func normalize(p domain.Preferences) domain.Preferences {
	if p.CompletedSurveyIDs == nil {
		p.CompletedSurveyIDs = domain.IDSet{}
	}
	if p.SkippedSurveyIDs == nil {
		p.SkippedSurveyIDs = domain.IDSet{}
	}
	return p
}

// PreferenceStores opens PreferenceStores over a shared repository. Nothing is
// cached between calls, so several API instances can share one backend.
type PreferenceStores struct {
	repo   PreferenceRepository
	logger zerolog.Logger
}

// NewPreferenceStores creates a registry backed by repo.
func NewPreferenceStores(repo PreferenceRepository, logger zerolog.Logger) *PreferenceStores {
	return &PreferenceStores{
		repo:   repo,
		logger: logger.With().Str("component", "preference_store").Logger(),
	}
}

// Open loads the device's current record. A missing record starts from
// defaults; a corrupt one is replaced by defaults and logged.
func (r *PreferenceStores) Open(ctx context.Context, deviceID string) (*PreferenceStore, error) {
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}

	prefs := domain.DefaultPreferences()
	if r.repo != nil {
		loaded, err := r.repo.Load(ctx, deviceID)
		switch {
		case err == nil && loaded != nil:
			prefs = *loaded
		case err == nil, errors.Is(err, ErrPreferencesNotFound):
		case errors.Is(err, ErrCorruptPreferences):
			r.logger.Warn().Err(err).Str("device_id", deviceID).Msg("falling back to default preferences")
		default:
			return nil, fmt.Errorf("load preferences: %w", err)
		}
	}

	return NewPreferenceStore(deviceID, prefs, r.repo, r.logger), nil
}
