package application

import (
	"context"
	"time"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

const (
	// ReminderLaunchInterval is the launch cadence on which prompts may appear.
	ReminderLaunchInterval = 3
	// ReminderCooldownDays is how far SetNextReminderDate pushes the reminder.
	ReminderCooldownDays = 3
)

// Gate decides whether any survey prompt should be attempted right now.
type Gate struct {
	store *PreferenceStore
	now   Clock
}

// NewGate creates a gate over store. A nil clock uses time.Now.
func NewGate(store *PreferenceStore, now Clock) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now}
}

// ShouldShowSurvey evaluates the gate against the store's current state.
func (g *Gate) ShouldShowSurvey() bool {
	return shouldShow(g.store.Preferences(), g.now())
}

// SetNextReminderDate overwrites the reminder with now plus the cooldown.
func (g *Gate) SetNextReminderDate(ctx context.Context) (time.Time, error) {
	next := g.now().UTC().AddDate(0, 0, ReminderCooldownDays)
	_, err := g.store.Update(ctx, func(p *domain.Preferences) {
		p.NextReminderAt = &next
	})
	return next, err
}

func shouldShow(p domain.Preferences, now time.Time) bool {
	if !p.SurveyEnabled {
		return false
	}
	if p.AppLaunchCount == 0 {
		return false
	}
	if p.AppLaunchCount%ReminderLaunchInterval != 0 {
		return false
	}
	if p.NextReminderAt != nil && p.NextReminderAt.After(now) {
		return false
	}
	return true
}
