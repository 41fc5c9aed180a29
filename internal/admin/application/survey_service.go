package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

type surveyService struct {
	repo SurveyRepository
	now  func() time.Time
}

func NewSurveyService(repo SurveyRepository, now func() time.Time) SurveyService {
	if now == nil {
		now = time.Now
	}
	return &surveyService{repo: repo, now: now}
}

func (s *surveyService) List(ctx context.Context, filter SurveyFilter, paging Paging) ([]admindomain.SurveyDefinition, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *surveyService) Detail(ctx context.Context, id int) (*admindomain.SurveyDefinition, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *surveyService) Create(ctx context.Context, cmd UpsertSurveyCommand) (*admindomain.SurveyDefinition, error) {
	survey, err := buildSurveyFromCommand(0, cmd)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	survey.CreatedAt = now
	survey.UpdatedAt = now
	if err := s.repo.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id int, cmd UpsertSurveyCommand) (*admindomain.SurveyDefinition, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	survey, err := buildSurveyFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	survey.CreatedAt = existing.CreatedAt
	survey.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func buildSurveyFromCommand(id int, cmd UpsertSurveyCommand) (*admindomain.SurveyDefinition, error) {
	name, err := admindomain.NewSurveyName(cmd.Name)
	if err != nil {
		return nil, err
	}
	window, err := admindomain.NewDateRange(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	questions, err := mapQuestionCommands(cmd.Questions)
	if err != nil {
		return nil, err
	}
	stopIDs, err := admindomain.NewTargetList("targeting.stopIds", cmd.VisibleStopIDs)
	if err != nil {
		return nil, err
	}
	routeIDs, err := admindomain.NewTargetList("targeting.routeIds", cmd.VisibleRouteIDs)
	if err != nil {
		return nil, err
	}

	return &admindomain.SurveyDefinition{
		ID:                      id,
		Name:                    name,
		ShowOnMap:               cmd.ShowOnMap,
		ShowOnStops:             cmd.ShowOnStops,
		VisibleStopIDs:          stopIDs,
		VisibleRouteIDs:         routeIDs,
		AllowsVisible:           cmd.AllowsVisible,
		AllowsMultipleResponses: cmd.AllowsMultipleResponses,
		Questions:               questions,
		Window:                  window,
	}, nil
}

// mapQuestionCommands validates each question and orders them by position.
func mapQuestionCommands(inputs []QuestionCommand) ([]admindomain.Question, error) {
	questions := make([]admindomain.Question, 0, len(inputs))
	seen := make(map[int]struct{}, len(inputs))
	for _, input := range inputs {
		q, err := admindomain.NewQuestion(input.ID, input.Position, input.Type, input.Required, input.Label, input.Options, input.URL)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", admindomain.ErrInvalid, q.ID)
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})
	return questions, nil
}
