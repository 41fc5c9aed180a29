package application

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

var (
	// ErrPreferencesNotFound is returned by a PreferenceRepository for an unseen device.
	ErrPreferencesNotFound = errors.New("preferences not found")
	// ErrCorruptPreferences marks a stored record that could not be decoded.
	ErrCorruptPreferences = errors.New("stored preferences are corrupt")
	// ErrSurveyNotFound is returned when a survey ID is not in the catalog.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrStopNotFound is returned by a StopResolver for an unknown stop.
	ErrStopNotFound = errors.New("stop not found")
	// ErrInvalidDeviceID rejects empty device identifiers.
	ErrInvalidDeviceID = errors.New("invalid device id")
	// ErrPreferenceConflict is returned when Modify keeps losing to concurrent writers.
	ErrPreferenceConflict = errors.New("preferences modified concurrently")
)

// PreferenceRepository persists one Preferences record per device.
// Modify applies fn to the stored record (defaults when missing) as a single
// atomic read-modify-write and returns what was written.
type PreferenceRepository interface {
	Load(ctx context.Context, deviceID string) (*domain.Preferences, error)
	Save(ctx context.Context, deviceID string, prefs domain.Preferences) error
	Modify(ctx context.Context, deviceID string, fn func(*domain.Preferences)) (domain.Preferences, error)
}

// SurveyCatalog supplies the candidate surveys.
type SurveyCatalog interface {
	ActiveSurveys(ctx context.Context) ([]domain.Survey, error)
	FindByID(ctx context.Context, id int) (*domain.Survey, error)
}

// StopResolver resolves a stop ID to the stop and its serving routes.
type StopResolver interface {
	FindStop(ctx context.Context, id string) (*domain.Stop, error)
}

// ResponseRepository stores submitted answers.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.SurveyResponse) error
}

// DecisionRecorder observes prompt outcomes and rider actions.
type DecisionRecorder interface {
	PromptDecided(kind domain.PresentationKind, outcome string)
	SurveyAction(action string, class domain.SurveyClass)
}

// Clock returns the current time.
type Clock func() time.Time

// PromptRequest describes the screen asking for a prompt.
// An empty StopID means the map overview.
type PromptRequest struct {
	StopID string
}

// Prompt outcomes reported to the DecisionRecorder.
const (
	OutcomeGated    = "gated"
	OutcomeNone     = "none"
	OutcomeSelected = "selected"
)

// EngagementService describes the rider-facing use cases.
type EngagementService interface {
	RecordLaunch(ctx context.Context, deviceID string) (domain.Preferences, error)
	Preferences(ctx context.Context, deviceID string) (domain.Preferences, error)
	SetSurveyEnabled(ctx context.Context, deviceID string, enabled bool) (domain.Preferences, error)
	NextPrompt(ctx context.Context, deviceID string, req PromptRequest) (*domain.Survey, error)
	Complete(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error)
	Skip(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error)
	RemindLater(ctx context.Context, deviceID string, surveyID int) (domain.Preferences, error)
}

// ResponseService handles answer submission.
type ResponseService interface {
	Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.SurveyResponse, error)
}

// SubmitResponseCommand captures one rider submission.
type SubmitResponseCommand struct {
	DeviceID string
	SurveyID int
	StopID   string
	Answers  []domain.Answer
}

type noopRecorder struct{}

func (noopRecorder) PromptDecided(domain.PresentationKind, string) {}

func (noopRecorder) SurveyAction(string, domain.SurveyClass) {}
