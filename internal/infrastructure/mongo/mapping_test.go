package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

func TestSurveyDocumentRoundTripKeepsNilVersusEmptyTargeting(t *testing.T) {
	in := SurveyDocument{
		ID:              7,
		Name:            "Line 12 feedback",
		ShowOnStops:     true,
		VisibleStopIDs:  []string{},
		VisibleRouteIDs: nil,
		Questions:       []QuestionDocument{{ID: 1, Position: 1, Type: "text"}},
	}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var out SurveyDocument
	require.NoError(t, bson.Unmarshal(raw, &out))

	survey := mapSurveyDocument(out)
	assert.NotNil(t, survey.VisibleStopIDs)
	assert.Empty(t, survey.VisibleStopIDs)
	assert.Nil(t, survey.VisibleRouteIDs)
	assert.True(t, survey.HasTargeting())
	assert.Equal(t, domain.QuestionText, survey.Questions[0].Type)
}

func TestPreferenceDocumentMapping(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*3600))
	prefs := domain.DefaultPreferences()
	prefs.AppLaunchCount = 6
	prefs.NextReminderAt = &at
	prefs.CompletedSurveyIDs.Add(5)
	prefs.CompletedSurveyIDs.Add(2)
	prefs.SkippedSurveyIDs.Add(5)

	doc := mapPreferencesToDocument("device-1", prefs)
	assert.Equal(t, []int{2, 5}, doc.CompletedSurveyIDs)
	assert.Equal(t, []int{5}, doc.SkippedSurveyIDs)
	assert.Equal(t, time.UTC, doc.NextReminderAt.Location())

	back := mapPreferenceDocument(doc)
	assert.Equal(t, 6, back.AppLaunchCount)
	assert.True(t, back.CompletedSurveyIDs.Has(2))
	assert.True(t, back.SkippedSurveyIDs.Has(5))
	assert.True(t, at.Equal(*back.NextReminderAt))
}

func TestMapDomainSurveyToDocument(t *testing.T) {
	q, err := admindomain.NewQuestion(1, 1, "radio", true, "Crowded?", []string{"yes", "no"}, "")
	require.NoError(t, err)

	survey := &admindomain.SurveyDefinition{
		ID:              3,
		Name:            "Crowding",
		VisibleRouteIDs: admindomain.IDList{"R1"},
		Questions:       []admindomain.Question{q},
	}
	doc := mapDomainSurveyToDocument(survey)

	assert.Nil(t, doc.VisibleStopIDs)
	assert.Equal(t, []string{"R1"}, doc.VisibleRouteIDs)
	assert.Nil(t, doc.StartDate)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	assert.Equal(t, []string{"yes", "no"}, doc.Questions[0].Options)

	back, err := mapAdminSurveyDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, survey.Name, back.Name)
	assert.Equal(t, admindomain.QuestionRadio, back.Questions[0].Type)
}

func TestMapAdminSurveyDocumentRejectsInvalidStoredQuestion(t *testing.T) {
	doc := SurveyDocument{ID: 4, Name: "Broken", Questions: []QuestionDocument{{ID: 1, Type: "slider"}}}
	_, err := mapAdminSurveyDocument(doc)
	assert.ErrorIs(t, err, admindomain.ErrInvalid)
}
