package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()
	r.PromptDecided(domain.PresentationMapOverview, "selected")
	r.PromptDecided(domain.PresentationMapOverview, "selected")
	r.PromptDecided(domain.PresentationStopDetail, "gated")
	r.SurveyAction("skip", domain.ClassNotAlwaysVisible)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.decisions.WithLabelValues("map", "selected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.decisions.WithLabelValues("stop", "gated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.actions.WithLabelValues("skip", "not_always_visible")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.SurveyAction("complete", domain.ClassAlwaysVisible)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `survey_actions_total{action="complete",class="always_visible"} 1`)
}
