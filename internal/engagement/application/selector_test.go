package application_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

func questions() []domain.Question {
	return []domain.Question{{ID: 1, Position: 1, Type: domain.QuestionText, Label: "How was your ride?"}}
}

func mapSurvey(id int) domain.Survey {
	return domain.Survey{ID: id, ShowOnMap: true, Questions: questions()}
}

func stopSurvey(id int) domain.Survey {
	return domain.Survey{ID: id, ShowOnStops: true, Questions: questions()}
}

func selectorWith(completed, skipped []int) *application.Selector {
	prefs := domain.DefaultPreferences()
	prefs.CompletedSurveyIDs = domain.NewIDSet(completed...)
	prefs.SkippedSurveyIDs = domain.NewIDSet(skipped...)
	store := application.NewPreferenceStore("device", prefs, nil, zerolog.Nop())
	return application.NewSelector(store)
}

var stop = &domain.Stop{ID: "1_75403", RouteIDs: []string{"1_100", "1_200"}}

func TestSelector_EmptyCandidates(t *testing.T) {
	sel := selectorWith(nil, nil)

	idx, ok := sel.NextSurveyIndex(nil, domain.MapOverview())
	assert.False(t, ok)
	assert.Equal(t, -1, idx)

	_, ok = sel.NextSurveyIndex([]domain.Survey{}, domain.StopDetail(stop))
	assert.False(t, ok)
}

func TestSelector_ContextFilter(t *testing.T) {
	sel := selectorWith(nil, nil)
	surveys := []domain.Survey{stopSurvey(1), mapSurvey(2)}

	idx, ok := sel.NextSurveyIndex(surveys, domain.MapOverview())
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = sel.NextSurveyIndex(surveys, domain.StopDetail(stop))
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSelector_StopDetailWithoutStop(t *testing.T) {
	sel := selectorWith(nil, nil)
	both := stopSurvey(1)
	both.ShowOnMap = true

	_, ok := sel.NextSurveyIndex([]domain.Survey{both}, domain.StopDetail(nil))
	assert.False(t, ok)
}

func TestSelector_ZeroQuestionsNeverSelected(t *testing.T) {
	sel := selectorWith(nil, nil)
	empty := domain.Survey{ID: 1, ShowOnMap: true, ShowOnStops: true, AllowsVisible: true}
	multi := domain.Survey{ID: 2, ShowOnMap: true, ShowOnStops: true, AllowsMultipleResponses: true}

	_, ok := sel.NextSurveyIndex([]domain.Survey{empty, multi}, domain.MapOverview())
	assert.False(t, ok)
	_, ok = sel.NextSurveyIndex([]domain.Survey{empty, multi}, domain.StopDetail(stop))
	assert.False(t, ok)
}

func TestSelector_Targeting(t *testing.T) {
	tests := []struct {
		name   string
		stops  []string
		routes []string
		want   bool
	}{
		{"no targeting", nil, nil, true},
		{"stop listed", []string{"1_75403"}, nil, true},
		{"route intersects", nil, []string{"1_999", "1_200"}, true},
		{"stop list misses but route hits", []string{"1_1"}, []string{"1_100"}, true},
		{"neither matches", []string{"1_1"}, []string{"1_999"}, false},
		{"declared empty stop list", []string{}, nil, false},
		{"only routes, none serving", nil, []string{"40_510"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			survey := stopSurvey(7)
			survey.VisibleStopIDs = tt.stops
			survey.VisibleRouteIDs = tt.routes

			_, ok := selectorWith(nil, nil).NextSurveyIndex([]domain.Survey{survey}, domain.StopDetail(stop))
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSelector_TargetingIgnoredOnMap(t *testing.T) {
	survey := mapSurvey(3)
	survey.VisibleStopIDs = []string{"elsewhere"}
	survey.VisibleRouteIDs = []string{"elsewhere"}

	idx, ok := selectorWith(nil, nil).NextSurveyIndex([]domain.Survey{survey}, domain.MapOverview())
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSelector_CompletionAndSkipFilter(t *testing.T) {
	always := mapSurvey(10)
	always.AllowsVisible = true
	notAlways := mapSurvey(11)
	multi := mapSurvey(12)
	multi.AllowsMultipleResponses = true
	multiVisible := mapSurvey(13)
	multiVisible.AllowsMultipleResponses = true
	multiVisible.AllowsVisible = true

	tests := []struct {
		name      string
		survey    domain.Survey
		completed []int
		skipped   []int
		want      bool
	}{
		{"always visible fresh", always, nil, nil, true},
		{"always visible completed", always, []int{10}, nil, false},
		{"always visible skipped", always, nil, []int{10}, false},
		{"not always visible completed", notAlways, []int{11}, nil, false},
		{"not always visible skipped", notAlways, nil, []int{11}, false},
		{"multiple responses completed and skipped", multi, []int{12}, []int{12}, true},
		{"multiple responses with allows visible", multiVisible, []int{13}, []int{13}, true},
		{"other ids recorded", notAlways, []int{1, 2}, []int{3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := selectorWith(tt.completed, tt.skipped).NextSurveyIndex([]domain.Survey{tt.survey}, domain.MapOverview())
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSelector_ClassPriority(t *testing.T) {
	always := func(id int) domain.Survey {
		s := mapSurvey(id)
		s.AllowsVisible = true
		return s
	}
	multi := func(id int) domain.Survey {
		s := mapSurvey(id)
		s.AllowsMultipleResponses = true
		return s
	}

	tests := []struct {
		name      string
		surveys   []domain.Survey
		completed []int
		want      int
	}{
		{"always visible beats not always visible", []domain.Survey{mapSurvey(1), always(2)}, nil, 1},
		{"not always visible beats multiple responses", []domain.Survey{multi(1), mapSurvey(2)}, nil, 1},
		{"always visible beats multiple responses", []domain.Survey{multi(1), multi(2), always(3)}, nil, 2},
		{"first index within a class", []domain.Survey{mapSurvey(1), mapSurvey(2), mapSurvey(3)}, nil, 0},
		{"falls back past completed class", []domain.Survey{always(1), multi(2), mapSurvey(3)}, []int{1, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := selectorWith(tt.completed, nil).NextSurveyIndex(tt.surveys, domain.MapOverview())
			assert.True(t, ok)
			assert.Equal(t, tt.want, idx)
		})
	}
}

func TestSelector_Scenarios(t *testing.T) {
	t.Run("map-only completed and empty survey on stop screen", func(t *testing.T) {
		a := mapSurvey(0)
		b := stopSurvey(1)
		b.Questions = nil

		_, ok := selectorWith([]int{0}, nil).NextSurveyIndex([]domain.Survey{a, b}, domain.StopDetail(stop))
		assert.False(t, ok)
	})

	t.Run("always visible first", func(t *testing.T) {
		a := stopSurvey(2)
		a.AllowsVisible = true
		b := stopSurvey(3)

		idx, ok := selectorWith(nil, nil).NextSurveyIndex([]domain.Survey{a, b}, domain.StopDetail(stop))
		assert.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("not always visible outranks earlier multiple responses", func(t *testing.T) {
		a := stopSurvey(0)
		a.AllowsMultipleResponses = true
		b := stopSurvey(1)

		idx, ok := selectorWith(nil, nil).NextSurveyIndex([]domain.Survey{a, b}, domain.StopDetail(stop))
		assert.True(t, ok)
		assert.Equal(t, 1, idx)
	})
}
