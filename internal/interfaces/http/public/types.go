package public

import (
	"time"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

type preferencesResponse struct {
	SurveyEnabled      bool       `json:"surveyEnabled"`
	AppLaunchCount     int        `json:"appLaunchCount"`
	NextReminderAt     *time.Time `json:"nextReminderAt,omitempty"`
	CompletedSurveyIDs []int      `json:"completedSurveyIds"`
	SkippedSurveyIDs   []int      `json:"skippedSurveyIds"`
}

type preferencesUpdateRequest struct {
	SurveyEnabled *bool `json:"surveyEnabled" validate:"required"`
}

type questionResponse struct {
	ID       int      `json:"id"`
	Position int      `json:"position"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Label    string   `json:"label,omitempty"`
	Options  []string `json:"options,omitempty"`
	URL      string   `json:"url,omitempty"`
}

type surveyPromptResponse struct {
	ID                      int                `json:"id"`
	Name                    string             `json:"name"`
	Class                   string             `json:"class"`
	AllowsMultipleResponses bool               `json:"allowsMultipleResponses"`
	Questions               []questionResponse `json:"questions"`
}

type answerRequest struct {
	QuestionID int      `json:"questionId" validate:"gt=0"`
	Values     []string `json:"values"`
}

type responseCreateRequest struct {
	StopID  string          `json:"stopId,omitempty" validate:"max=128"`
	Answers []answerRequest `json:"answers" validate:"required,dive"`
}

type responseCreateResponse struct {
	ID          string              `json:"id"`
	SurveyID    int                 `json:"surveyId"`
	SubmittedAt time.Time           `json:"submittedAt"`
	Preferences preferencesResponse `json:"preferences"`
}

func buildPreferencesResponse(p domain.Preferences) preferencesResponse {
	return preferencesResponse{
		SurveyEnabled:      p.SurveyEnabled,
		AppLaunchCount:     p.AppLaunchCount,
		NextReminderAt:     p.NextReminderAt,
		CompletedSurveyIDs: p.CompletedSurveyIDs.Sorted(),
		SkippedSurveyIDs:   p.SkippedSurveyIDs.Sorted(),
	}
}

func buildSurveyPromptResponse(s domain.Survey) surveyPromptResponse {
	questions := make([]questionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, questionResponse{
			ID:       q.ID,
			Position: q.Position,
			Type:     string(q.Type),
			Required: q.Required,
			Label:    q.Label,
			Options:  q.Options,
			URL:      q.URL,
		})
	}
	return surveyPromptResponse{
		ID:                      s.ID,
		Name:                    s.Name,
		Class:                   s.Class().String(),
		AllowsMultipleResponses: s.AllowsMultipleResponses,
		Questions:               questions,
	}
}
