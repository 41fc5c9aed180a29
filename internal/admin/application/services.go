package application

import (
	"context"
	"errors"
	"time"

	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

// ErrNotFound is returned when the requested survey or stop does not exist.
var ErrNotFound = errors.New("not found")

// SurveyRepository exposes CRUD for survey definitions.
type SurveyRepository interface {
	Find(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.SurveyDefinition, error)
	FindByID(ctx context.Context, id int) (*admindomain.SurveyDefinition, error)
	Create(ctx context.Context, survey *admindomain.SurveyDefinition) error
	Update(ctx context.Context, survey *admindomain.SurveyDefinition) error
}

// StopRepository exposes admin operations on stops.
type StopRepository interface {
	Find(ctx context.Context, filter StopFilter, paging Paging) ([]admindomain.Stop, error)
	FindByID(ctx context.Context, id string) (*admindomain.Stop, error)
	Upsert(ctx context.Context, stop *admindomain.Stop) error
}

// SurveyFilter expresses admin search criteria.
type SurveyFilter struct {
	Keyword string
	StopID  string
	RouteID string
}

// StopFilter expresses admin search criteria.
type StopFilter struct {
	Keyword string
	RouteID string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// SurveyService describes admin survey use-cases.
type SurveyService interface {
	List(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.SurveyDefinition, error)
	Detail(ctx context.Context, id int) (*admindomain.SurveyDefinition, error)
	Create(ctx context.Context, cmd UpsertSurveyCommand) (*admindomain.SurveyDefinition, error)
	Update(ctx context.Context, id int, cmd UpsertSurveyCommand) (*admindomain.SurveyDefinition, error)
}

// StopService describes admin stop use-cases.
type StopService interface {
	List(ctx context.Context, filter StopFilter, paging Paging) ([]admindomain.Stop, error)
	Detail(ctx context.Context, id string) (*admindomain.Stop, error)
	Upsert(ctx context.Context, id string, cmd UpsertStopCommand) (*admindomain.Stop, error)
}

// UpsertSurveyCommand contains inputs for survey CRUD.
type UpsertSurveyCommand struct {
	Name                    string
	ShowOnMap               bool
	ShowOnStops             bool
	VisibleStopIDs          []string
	VisibleRouteIDs         []string
	AllowsVisible           bool
	AllowsMultipleResponses bool
	Questions               []QuestionCommand
	StartDate               time.Time
	EndDate                 time.Time
}

// QuestionCommand is a single question in a survey command.
type QuestionCommand struct {
	ID       int
	Position int
	Type     string
	Required bool
	Label    string
	Options  []string
	URL      string
}

// UpsertStopCommand contains inputs for stop upserts.
type UpsertStopCommand struct {
	Name     string
	RouteIDs []string
}
