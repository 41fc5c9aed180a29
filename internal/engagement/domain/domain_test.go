package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

func TestSurveyClass(t *testing.T) {
	tests := []struct {
		name     string
		visible  bool
		multiple bool
		want     domain.SurveyClass
	}{
		{"always visible", true, false, domain.ClassAlwaysVisible},
		{"default", false, false, domain.ClassNotAlwaysVisible},
		{"multiple responses", false, true, domain.ClassMultipleResponses},
		{"multiple responses wins over visible", true, true, domain.ClassMultipleResponses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.Survey{AllowsVisible: tt.visible, AllowsMultipleResponses: tt.multiple}
			assert.Equal(t, tt.want, s.Class())
		})
	}
}

func TestSurveyClassOrdering(t *testing.T) {
	assert.True(t, domain.ClassAlwaysVisible.Outranks(domain.ClassNotAlwaysVisible))
	assert.True(t, domain.ClassNotAlwaysVisible.Outranks(domain.ClassMultipleResponses))
	assert.False(t, domain.ClassMultipleResponses.Outranks(domain.ClassMultipleResponses))

	assert.True(t, domain.ClassAlwaysVisible.OneShot())
	assert.True(t, domain.ClassNotAlwaysVisible.OneShot())
	assert.False(t, domain.ClassMultipleResponses.OneShot())
}

func TestSurveyTargets(t *testing.T) {
	stop := domain.Stop{ID: "S1", RouteIDs: []string{"R1", "R2"}}

	assert.True(t, domain.Survey{}.Targets(stop))
	assert.True(t, domain.Survey{VisibleStopIDs: []string{"S1"}}.Targets(stop))
	assert.True(t, domain.Survey{VisibleRouteIDs: []string{"R2"}}.Targets(stop))
	assert.False(t, domain.Survey{VisibleRouteIDs: []string{"R3"}}.Targets(stop))
	assert.False(t, domain.Survey{VisibleStopIDs: []string{}}.Targets(stop))
	assert.False(t, domain.Survey{VisibleRouteIDs: []string{"R1"}}.Targets(domain.Stop{ID: "S9"}))
}

func TestPreferencesClone(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := domain.DefaultPreferences()
	p.NextReminderAt = &at
	p.CompletedSurveyIDs.Add(1)

	c := p.Clone()
	c.CompletedSurveyIDs.Add(2)
	c.SkippedSurveyIDs.Add(3)
	*c.NextReminderAt = at.Add(time.Hour)

	assert.Equal(t, []int{1}, p.CompletedSurveyIDs.Sorted())
	assert.Empty(t, p.SkippedSurveyIDs)
	assert.True(t, at.Equal(*p.NextReminderAt))
}

func TestIDSetNil(t *testing.T) {
	var s domain.IDSet
	assert.False(t, s.Has(1))
	assert.Empty(t, s.Sorted())
	assert.NotNil(t, s.Clone())
}

func TestPresentationContext(t *testing.T) {
	assert.Equal(t, domain.PresentationMapOverview, domain.MapOverview().Kind)
	assert.Nil(t, domain.MapOverview().Stop)

	pc := domain.StopDetail(&domain.Stop{ID: "S1"})
	assert.Equal(t, domain.PresentationStopDetail, pc.Kind)
	assert.Equal(t, "stop", pc.Kind.String())
}
