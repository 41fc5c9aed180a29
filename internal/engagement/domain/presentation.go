package domain

// Stop is a transit stop together with the routes currently serving it.
type Stop struct {
	ID       string
	Name     string
	RouteIDs []string
}

// PresentationKind identifies the screen a survey would be shown on.
type PresentationKind int

const (
	PresentationMapOverview PresentationKind = iota + 1
	PresentationStopDetail
)

func (k PresentationKind) String() string {
	switch k {
	case PresentationMapOverview:
		return "map"
	case PresentationStopDetail:
		return "stop"
	default:
		return "unknown"
	}
}

// PresentationContext is either the map overview or a stop detail screen.
// A stop detail context without a stop never yields a selection.
type PresentationContext struct {
	Kind PresentationKind
	Stop *Stop
}

// MapOverview returns the context of the map screen.
func MapOverview() PresentationContext {
	return PresentationContext{Kind: PresentationMapOverview}
}

// StopDetail returns the context of a stop's detail screen.
func StopDetail(stop *Stop) PresentationContext {
	return PresentationContext{Kind: PresentationStopDetail, Stop: stop}
}
