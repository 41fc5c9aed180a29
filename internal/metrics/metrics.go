package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

// Recorder counts prompt decisions and rider actions.
type Recorder struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	actions   *prometheus.CounterVec
}

// NewRecorder registers the survey counters on a dedicated registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_prompt_decisions_total",
				Help: "Survey prompt decisions by screen and outcome",
			},
			[]string{"context", "outcome"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_actions_total",
				Help: "Rider actions on presented surveys",
			},
			[]string{"action", "class"},
		),
	}
	r.registry.MustRegister(r.decisions, r.actions)
	r.registry.MustRegister(prometheus.NewGoCollector())
	return r
}

func (r *Recorder) PromptDecided(kind domain.PresentationKind, outcome string) {
	r.decisions.WithLabelValues(kind.String(), outcome).Inc()
}

func (r *Recorder) SurveyAction(action string, class domain.SurveyClass) {
	r.actions.WithLabelValues(action, class.String()).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
