package domain

import (
	"sort"
	"time"
)

// IDSet is a set of survey identifiers.
type IDSet map[int]struct{}

// NewIDSet builds a set from the given identifiers.
func NewIDSet(ids ...int) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership. A nil set contains nothing.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id int) {
	s[id] = struct{}{}
}

// Clone returns an independent copy; cloning nil yields an empty set.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Preferences is the persisted engagement state of one device.
type Preferences struct {
	SurveyEnabled      bool
	AppLaunchCount     int
	NextReminderAt     *time.Time
	CompletedSurveyIDs IDSet
	SkippedSurveyIDs   IDSet
}

// DefaultPreferences is the state of a device that has never been seen.
func DefaultPreferences() Preferences {
	return Preferences{
		SurveyEnabled:      true,
		CompletedSurveyIDs: IDSet{},
		SkippedSurveyIDs:   IDSet{},
	}
}

// Clone returns a deep copy so snapshots never alias stored state.
func (p Preferences) Clone() Preferences {
	out := p
	if p.NextReminderAt != nil {
		at := *p.NextReminderAt
		out.NextReminderAt = &at
	}
	out.CompletedSurveyIDs = p.CompletedSurveyIDs.Clone()
	out.SkippedSurveyIDs = p.SkippedSurveyIDs.Clone()
	return out
}
