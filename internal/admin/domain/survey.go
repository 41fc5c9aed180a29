package domain

import "time"

// SurveyDefinition represents an operator-managed survey.
type SurveyDefinition struct {
	ID                      int
	Name                    SurveyName
	ShowOnMap               bool
	ShowOnStops             bool
	VisibleStopIDs          IDList
	VisibleRouteIDs         IDList
	AllowsVisible           bool
	AllowsMultipleResponses bool
	Questions               []Question
	Window                  DateRange
	Stats                   ResponseStats
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ResponseStats summarises submissions received for a survey.
type ResponseStats struct {
	Count           int
	LastSubmittedAt *time.Time
}

// Question is a validated survey question.
type Question struct {
	ID       int
	Position int
	Type     QuestionType
	Required bool
	Label    string
	Options  OptionList
	URL      URL
}

// NewQuestion validates the type-specific shape of a question.
func NewQuestion(id, position int, rawType string, required bool, label string, options []string, rawURL string) (Question, error) {
	if id <= 0 {
		return Question{}, invalidf("question id must be positive")
	}
	qType, err := NewQuestionType(rawType)
	if err != nil {
		return Question{}, err
	}
	opts, err := NewOptionList(options)
	if err != nil {
		return Question{}, err
	}
	if qType.IsChoice() && len(opts) == 0 {
		return Question{}, invalidf("question %d: %s needs at least one option", id, qType)
	}
	if !qType.IsChoice() && len(opts) > 0 {
		return Question{}, invalidf("question %d: %s does not take options", id, qType)
	}

	var link URL
	if qType == QuestionExternalSurvey {
		link, err = NewURL(rawURL)
		if err != nil {
			return Question{}, err
		}
		if link == "" {
			return Question{}, invalidf("question %d: external_survey needs a URL", id)
		}
	}

	return Question{
		ID:       id,
		Position: position,
		Type:     qType,
		Required: required && qType != QuestionLabel,
		Label:    label,
		Options:  opts,
		URL:      link,
	}, nil
}
