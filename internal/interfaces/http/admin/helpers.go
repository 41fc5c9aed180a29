package admin

import (
	"time"

	adminapp "github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

// surveyDomainToResponse はアンケート定義を Admin UI 用レスポンスへ変換する。
func surveyDomainToResponse(survey admindomain.SurveyDefinition) surveyResponse {
	var targeting *targetingPayload
	if survey.VisibleStopIDs != nil || survey.VisibleRouteIDs != nil {
		targeting = &targetingPayload{
			StopIDs:  survey.VisibleStopIDs.Strings(),
			RouteIDs: survey.VisibleRouteIDs.Strings(),
		}
	}

	return surveyResponse{
		ID:                      survey.ID,
		Name:                    survey.Name.String(),
		Class:                   surveyClassLabel(survey),
		ShowOnMap:               survey.ShowOnMap,
		ShowOnStops:             survey.ShowOnStops,
		Targeting:               targeting,
		AllowsVisible:           survey.AllowsVisible,
		AllowsMultipleResponses: survey.AllowsMultipleResponses,
		Questions:               questionsToPayload(survey.Questions),
		StartDate:               optionalTime(survey.Window.Start),
		EndDate:                 optionalTime(survey.Window.End),
		ResponseCount:           survey.Stats.Count,
		LastResponseAt:          survey.Stats.LastSubmittedAt,
		CreatedAt:               survey.CreatedAt,
		UpdatedAt:               survey.UpdatedAt,
	}
}

// surveyClassLabel は一覧表示用に優先度クラスのラベルを返す。
func surveyClassLabel(survey admindomain.SurveyDefinition) string {
	switch {
	case survey.AllowsMultipleResponses:
		return "multiple_responses"
	case survey.AllowsVisible:
		return "always_visible"
	default:
		return "not_always_visible"
	}
}

func questionsToPayload(questions []admindomain.Question) []questionPayload {
	result := make([]questionPayload, 0, len(questions))
	for _, q := range questions {
		result = append(result, questionPayload{
			ID:       q.ID,
			Position: q.Position,
			Type:     string(q.Type),
			Required: q.Required,
			Label:    q.Label,
			Options:  []string(q.Options),
			URL:      q.URL.String(),
		})
	}
	return result
}

func questionsToCommands(questions []questionPayload) []adminapp.QuestionCommand {
	result := make([]adminapp.QuestionCommand, 0, len(questions))
	for _, q := range questions {
		result = append(result, adminapp.QuestionCommand{
			ID:       q.ID,
			Position: q.Position,
			Type:     q.Type,
			Required: q.Required,
			Label:    q.Label,
			Options:  q.Options,
			URL:      q.URL,
		})
	}
	return result
}

func buildSurveyCommand(req surveyCreateRequest) adminapp.UpsertSurveyCommand {
	cmd := adminapp.UpsertSurveyCommand{
		Name:                    req.Name,
		ShowOnMap:               req.ShowOnMap,
		ShowOnStops:             req.ShowOnStops,
		AllowsVisible:           req.AllowsVisible,
		AllowsMultipleResponses: req.AllowsMultipleResponses,
		Questions:               questionsToCommands(req.Questions),
		StartDate:               timeValue(req.StartDate),
		EndDate:                 timeValue(req.EndDate),
	}
	if req.Targeting != nil {
		cmd.VisibleStopIDs = req.Targeting.StopIDs
		cmd.VisibleRouteIDs = req.Targeting.RouteIDs
	}
	return cmd
}

// buildSurveyCommandFromDomain は既存定義を更新コマンドの初期値に変換する。
func buildSurveyCommandFromDomain(survey admindomain.SurveyDefinition) adminapp.UpsertSurveyCommand {
	return adminapp.UpsertSurveyCommand{
		Name:                    survey.Name.String(),
		ShowOnMap:               survey.ShowOnMap,
		ShowOnStops:             survey.ShowOnStops,
		VisibleStopIDs:          survey.VisibleStopIDs.Strings(),
		VisibleRouteIDs:         survey.VisibleRouteIDs.Strings(),
		AllowsVisible:           survey.AllowsVisible,
		AllowsMultipleResponses: survey.AllowsMultipleResponses,
		Questions:               questionsToCommands(questionsToPayload(survey.Questions)),
		StartDate:               survey.Window.Start,
		EndDate:                 survey.Window.End,
	}
}

// applySurveyUpdateRequest は指定されたフィールドだけをコマンドへ上書きする。
func applySurveyUpdateRequest(req surveyUpdateRequest, cmd *adminapp.UpsertSurveyCommand) {
	if req.Name != nil {
		cmd.Name = *req.Name
	}
	if req.ShowOnMap != nil {
		cmd.ShowOnMap = *req.ShowOnMap
	}
	if req.ShowOnStops != nil {
		cmd.ShowOnStops = *req.ShowOnStops
	}
	if req.Targeting != nil {
		cmd.VisibleStopIDs = req.Targeting.StopIDs
		cmd.VisibleRouteIDs = req.Targeting.RouteIDs
	}
	if req.AllowsVisible != nil {
		cmd.AllowsVisible = *req.AllowsVisible
	}
	if req.AllowsMultipleResponses != nil {
		cmd.AllowsMultipleResponses = *req.AllowsMultipleResponses
	}
	if req.Questions != nil {
		cmd.Questions = questionsToCommands(*req.Questions)
	}
	if req.StartDate != nil {
		cmd.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		cmd.EndDate = *req.EndDate
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
