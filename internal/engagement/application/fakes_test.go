package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

type memoryPreferenceRepository struct {
	mu      sync.Mutex
	records map[string]domain.Preferences
	loadErr error
	saveErr error
	// failSaves makes the next N writes fail.
	failSaves int
	saves     int
}

func newMemoryPreferenceRepository() *memoryPreferenceRepository {
	return &memoryPreferenceRepository{records: make(map[string]domain.Preferences)}
}

func (r *memoryPreferenceRepository) Load(_ context.Context, deviceID string) (*domain.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	prefs, ok := r.records[deviceID]
	if !ok {
		return nil, application.ErrPreferencesNotFound
	}
	clone := prefs.Clone()
	return &clone, nil
}

func (r *memoryPreferenceRepository) Save(_ context.Context, deviceID string, prefs domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeErrLocked(); err != nil {
		return err
	}
	r.saves++
	r.records[deviceID] = prefs.Clone()
	return nil
}

func (r *memoryPreferenceRepository) Modify(_ context.Context, deviceID string, fn func(*domain.Preferences)) (domain.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return domain.Preferences{}, r.loadErr
	}
	current, ok := r.records[deviceID]
	if ok {
		current = current.Clone()
	} else {
		current = domain.DefaultPreferences()
	}
	fn(&current)
	if err := r.writeErrLocked(); err != nil {
		return domain.Preferences{}, err
	}
	r.saves++
	r.records[deviceID] = current.Clone()
	return current, nil
}

func (r *memoryPreferenceRepository) writeErrLocked() error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.failSaves > 0 {
		r.failSaves--
		return errors.New("transient write failure")
	}
	return nil
}

type staticCatalog struct {
	surveys []domain.Survey
	err     error
}

func (c *staticCatalog) ActiveSurveys(context.Context) ([]domain.Survey, error) {
	if c.err != nil {
		return nil, c.err
	}
	return append([]domain.Survey(nil), c.surveys...), nil
}

func (c *staticCatalog) FindByID(_ context.Context, id int) (*domain.Survey, error) {
	for _, s := range c.surveys {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, application.ErrSurveyNotFound
}

type staticStops map[string]domain.Stop

func (s staticStops) FindStop(_ context.Context, id string) (*domain.Stop, error) {
	found, ok := s[id]
	if !ok {
		return nil, application.ErrStopNotFound
	}
	return &found, nil
}

type recordedDecision struct {
	kind    domain.PresentationKind
	outcome string
}

type spyRecorder struct {
	mu        sync.Mutex
	decisions []recordedDecision
	actions   []string
}

func (r *spyRecorder) PromptDecided(kind domain.PresentationKind, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, recordedDecision{kind: kind, outcome: outcome})
}

func (r *spyRecorder) SurveyAction(action string, _ domain.SurveyClass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

type memoryResponses struct {
	created []domain.SurveyResponse
	err     error
}

func (r *memoryResponses) Create(_ context.Context, response *domain.SurveyResponse) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *response)
	return nil
}
