package domain

// SurveyClass governs completion/skip exclusion and selection priority.
// Lower values win.
type SurveyClass int

const (
	ClassAlwaysVisible SurveyClass = iota
	ClassNotAlwaysVisible
	ClassMultipleResponses
)

func (c SurveyClass) String() string {
	switch c {
	case ClassAlwaysVisible:
		return "always_visible"
	case ClassNotAlwaysVisible:
		return "not_always_visible"
	case ClassMultipleResponses:
		return "multiple_responses"
	default:
		return "unknown"
	}
}

// OneShot reports whether a completed or skipped survey of this class
// must never be offered again.
func (c SurveyClass) OneShot() bool {
	return c != ClassMultipleResponses
}

// Outranks reports whether c has strictly higher priority than other.
func (c SurveyClass) Outranks(other SurveyClass) bool {
	return c < other
}

// Class derives the survey's class from its response flags.
func (s Survey) Class() SurveyClass {
	switch {
	case s.AllowsMultipleResponses:
		return ClassMultipleResponses
	case s.AllowsVisible:
		return ClassAlwaysVisible
	default:
		return ClassNotAlwaysVisible
	}
}
