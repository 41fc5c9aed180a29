package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

// ErrInvalidAnswers is wrapped by every answer validation failure.
var ErrInvalidAnswers = errors.New("invalid answers")

type responseService struct {
	catalog    SurveyCatalog
	responses  ResponseRepository
	engagement EngagementService
	now        Clock
}

// NewResponseService creates the answer submission use case.
func NewResponseService(catalog SurveyCatalog, responses ResponseRepository, engagement EngagementService, now Clock) ResponseService {
	if now == nil {
		now = time.Now
	}
	return &responseService{catalog: catalog, responses: responses, engagement: engagement, now: now}
}

func (s *responseService) Submit(ctx context.Context, cmd SubmitResponseCommand) (*domain.SurveyResponse, error) {
	survey, err := s.catalog.FindByID(ctx, cmd.SurveyID)
	if err != nil {
		return nil, err
	}

	answers, err := normalizeAnswers(*survey, cmd.Answers)
	if err != nil {
		return nil, err
	}

	response := &domain.SurveyResponse{
		ID:          uuid.NewString(),
		DeviceID:    cmd.DeviceID,
		SurveyID:    survey.ID,
		StopID:      strings.TrimSpace(cmd.StopID),
		Answers:     answers,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("store response: %w", err)
	}

	if _, err := s.engagement.Complete(ctx, cmd.DeviceID, survey.ID); err != nil {
		return nil, err
	}
	return response, nil
}

func normalizeAnswers(survey domain.Survey, answers []domain.Answer) ([]domain.Answer, error) {
	byQuestion := make(map[int]domain.Answer, len(answers))
	for _, answer := range answers {
		question, ok := survey.Question(answer.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %d", ErrInvalidAnswers, answer.QuestionID)
		}
		if _, dup := byQuestion[answer.QuestionID]; dup {
			return nil, fmt.Errorf("%w: question %d answered twice", ErrInvalidAnswers, answer.QuestionID)
		}
		values := trimValues(answer.Values)
		if err := checkValues(question, values); err != nil {
			return nil, err
		}
		byQuestion[answer.QuestionID] = domain.Answer{QuestionID: answer.QuestionID, Values: values}
	}

	result := make([]domain.Answer, 0, len(byQuestion))
	for _, question := range survey.Questions {
		answer, ok := byQuestion[question.ID]
		if !ok || len(answer.Values) == 0 {
			if question.Required && question.Type != domain.QuestionLabel {
				return nil, fmt.Errorf("%w: question %d is required", ErrInvalidAnswers, question.ID)
			}
			continue
		}
		result = append(result, answer)
	}
	return result, nil
}

func checkValues(question domain.Question, values []string) error {
	switch question.Type {
	case domain.QuestionLabel:
		if len(values) > 0 {
			return fmt.Errorf("%w: question %d takes no answer", ErrInvalidAnswers, question.ID)
		}
	case domain.QuestionRadio, domain.QuestionText, domain.QuestionExternalSurvey:
		if len(values) > 1 {
			return fmt.Errorf("%w: question %d takes a single answer", ErrInvalidAnswers, question.ID)
		}
	}
	if question.Type == domain.QuestionRadio || question.Type == domain.QuestionCheckbox {
		for _, v := range values {
			if !containsString(question.Options, v) {
				return fmt.Errorf("%w: %q is not an option of question %d", ErrInvalidAnswers, v, question.ID)
			}
		}
	}
	return nil
}

func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsString(items []string, item string) bool {
	for _, s := range items {
		if s == item {
			return true
		}
	}
	return false
}
