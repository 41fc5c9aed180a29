package domain

import "time"

// Survey is a candidate questionnaire as delivered by the survey catalog.
type Survey struct {
	ID                      int
	Name                    string
	ShowOnMap               bool
	ShowOnStops             bool
	VisibleStopIDs          []string // nil means no stop restriction declared
	VisibleRouteIDs         []string // nil means no route restriction declared
	AllowsVisible           bool
	AllowsMultipleResponses bool
	Questions               []Question
	StartDate               time.Time
	EndDate                 time.Time
}

// QuestionType enumerates the supported question renderers.
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionRadio          QuestionType = "radio"
	QuestionCheckbox       QuestionType = "checkbox"
	QuestionLabel          QuestionType = "label"
	QuestionExternalSurvey QuestionType = "external_survey"
)

// Question is one entry of a survey, ordered by Position.
type Question struct {
	ID       int
	Position int
	Type     QuestionType
	Required bool
	Label    string
	Options  []string
	URL      string
}

// HasTargeting reports whether the survey declares any stop or route allow-list.
func (s Survey) HasTargeting() bool {
	return s.VisibleStopIDs != nil || s.VisibleRouteIDs != nil
}

// Targets reports whether the stop matches the survey's allow-lists.
// A survey without targeting matches every stop.
func (s Survey) Targets(stop Stop) bool {
	if !s.HasTargeting() {
		return true
	}
	for _, id := range s.VisibleStopIDs {
		if id == stop.ID {
			return true
		}
	}
	if len(s.VisibleRouteIDs) == 0 || len(stop.RouteIDs) == 0 {
		return false
	}
	serving := make(map[string]struct{}, len(stop.RouteIDs))
	for _, routeID := range stop.RouteIDs {
		serving[routeID] = struct{}{}
	}
	for _, routeID := range s.VisibleRouteIDs {
		if _, ok := serving[routeID]; ok {
			return true
		}
	}
	return false
}

// Question looks up a question by ID.
func (s Survey) Question(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
