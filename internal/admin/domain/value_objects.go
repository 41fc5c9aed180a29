package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalid marks operator input rejected by validation.
var ErrInvalid = errors.New("invalid input")

const maxSurveyNameRunes = 200

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

type SurveyName string

func NewSurveyName(value string) (SurveyName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalidf("survey name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxSurveyNameRunes {
		return "", invalidf("survey name must be <= %d characters", maxSurveyNameRunes)
	}
	return SurveyName(trimmed), nil
}

func (n SurveyName) String() string {
	return string(n)
}

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionRadio          QuestionType = "radio"
	QuestionCheckbox       QuestionType = "checkbox"
	QuestionLabel          QuestionType = "label"
	QuestionExternalSurvey QuestionType = "external_survey"
)

func NewQuestionType(value string) (QuestionType, error) {
	switch t := QuestionType(strings.ToLower(strings.TrimSpace(value))); t {
	case QuestionText, QuestionRadio, QuestionCheckbox, QuestionLabel, QuestionExternalSurvey:
		return t, nil
	default:
		return "", invalidf("unknown question type: %q", value)
	}
}

// IsChoice reports whether answers must come from the option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionRadio || t == QuestionCheckbox
}

type OptionList []string

func NewOptionList(values []string) (OptionList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{})
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			return nil, invalidf("option must not be empty")
		}
		if _, ok := seen[value]; ok {
			return nil, invalidf("duplicate option: %s", value)
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return OptionList(result), nil
}

// IDList is a deduplicated list of stop or route identifiers.
// nil means no restriction; an empty non-nil list restricts to nothing.
type IDList []string

func NewIDList(values []string) IDList {
	if values == nil {
		return nil
	}
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{})
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return IDList(result)
}

// NewTargetList normalizes a targeting list. An explicit [] is kept;
// a list holding only blank ids is rejected.
func NewTargetList(field string, values []string) (IDList, error) {
	list := NewIDList(values)
	if len(values) > 0 && len(list) == 0 {
		return nil, invalidf("%s must not contain only blank ids", field)
	}
	return list, nil
}

func (l IDList) Strings() []string {
	if l == nil {
		return nil
	}
	return append([]string{}, l...)
}

type StopID string

func NewStopID(value string) (StopID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalidf("stop id is required")
	}
	return StopID(trimmed), nil
}

func (id StopID) String() string {
	return string(id)
}

type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", invalidf("invalid URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", invalidf("URL must be http or https: %s", trimmed)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

// DateRange is the informational availability window of a survey.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return DateRange{}, invalidf("end date must not be before start date")
	}
	return DateRange{Start: start.UTC(), End: end.UTC()}, nil
}
