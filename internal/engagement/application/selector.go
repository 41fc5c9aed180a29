package application

import (
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

// Selector picks the single survey to present for a context.
type Selector struct {
	store *PreferenceStore
}

// NewSelector creates a selector reading completion history from store.
func NewSelector(store *PreferenceStore) *Selector {
	return &Selector{store: store}
}

// NextSurveyIndex returns the index into surveys of the survey to present,
// or (-1, false) when nothing qualifies.
func (s *Selector) NextSurveyIndex(surveys []domain.Survey, pc domain.PresentationContext) (int, bool) {
	prefs := s.store.Preferences()
	return selectSurvey(surveys, pc, prefs.CompletedSurveyIDs, prefs.SkippedSurveyIDs)
}

func selectSurvey(surveys []domain.Survey, pc domain.PresentationContext, completed, skipped domain.IDSet) (int, bool) {
	if pc.Kind == domain.PresentationStopDetail && pc.Stop == nil {
		return -1, false
	}

	best := -1
	var bestClass domain.SurveyClass
	for i, survey := range surveys {
		if !matchesContext(survey, pc) {
			continue
		}
		if len(survey.Questions) == 0 {
			continue
		}
		class := survey.Class()
		if class.OneShot() && (completed.Has(survey.ID) || skipped.Has(survey.ID)) {
			continue
		}
		if best == -1 || class.Outranks(bestClass) {
			best, bestClass = i, class
		}
	}
	if best == -1 {
		return -1, false
	}
	return best, true
}

// matchesContext applies the screen filter and, on stop screens, targeting.
func matchesContext(survey domain.Survey, pc domain.PresentationContext) bool {
	switch pc.Kind {
	case domain.PresentationMapOverview:
		return survey.ShowOnMap
	case domain.PresentationStopDetail:
		return survey.ShowOnStops && survey.Targets(*pc.Stop)
	default:
		return false
	}
}
