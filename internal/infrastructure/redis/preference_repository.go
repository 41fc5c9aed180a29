package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
)

// PreferenceRepository keeps one JSON record per device under keyPrefix+deviceID.
type PreferenceRepository struct {
	rdb       *goredis.Client
	keyPrefix string
}

func New(addr, pass string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr: addr, Password: pass, DB: db,
	})
}

func NewPreferenceRepository(rdb *goredis.Client, keyPrefix string) *PreferenceRepository {
	return &PreferenceRepository{rdb: rdb, keyPrefix: keyPrefix}
}

type preferenceRecord struct {
	SurveyEnabled      bool       `json:"surveyEnabled"`
	AppLaunchCount     int        `json:"appLaunchCount"`
	NextReminderAt     *time.Time `json:"nextReminderAt,omitempty"`
	CompletedSurveyIDs []int      `json:"completedSurveyIds"`
	SkippedSurveyIDs   []int      `json:"skippedSurveyIds"`
}

func (r *PreferenceRepository) key(deviceID string) string {
	return r.keyPrefix + deviceID
}

// maxModifyAttempts bounds optimistic retries when a WATCHed key changes.
const maxModifyAttempts = 10

func (r *PreferenceRepository) Load(ctx context.Context, deviceID string) (*domain.Preferences, error) {
	return get(ctx, r.rdb, r.key(deviceID))
}

// Save overwrites the record. Records never expire.
func (r *PreferenceRepository) Save(ctx context.Context, deviceID string, prefs domain.Preferences) error {
	raw, err := encode(prefs)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(deviceID), raw, 0).Err()
}

// Modify runs fn inside WATCH/MULTI and retries when another writer touched the key.
func (r *PreferenceRepository) Modify(ctx context.Context, deviceID string, fn func(*domain.Preferences)) (domain.Preferences, error) {
	key := r.key(deviceID)
	var result domain.Preferences

	txf := func(tx *goredis.Tx) error {
		current := domain.DefaultPreferences()
		loaded, err := get(ctx, tx, key)
		switch {
		case err == nil:
			current = *loaded
		case errors.Is(err, application.ErrPreferencesNotFound):
		default:
			return err
		}

		fn(&current)
		raw, err := encode(current)
		if err != nil {
			return err
		}
		if _, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, raw, 0)
			return nil
		}); err != nil {
			return err
		}
		result = current
		return nil
	}

	for attempt := 0; attempt < maxModifyAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Preferences{}, err
		}
		return result, nil
	}
	return domain.Preferences{}, application.ErrPreferenceConflict
}

func get(ctx context.Context, c goredis.Cmdable, key string) (*domain.Preferences, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, application.ErrPreferencesNotFound
		}
		return nil, err
	}

	var rec preferenceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", application.ErrCorruptPreferences, err)
	}
	if rec.AppLaunchCount < 0 {
		return nil, fmt.Errorf("%w: negative launch count %d", application.ErrCorruptPreferences, rec.AppLaunchCount)
	}

	prefs := domain.Preferences{
		SurveyEnabled:      rec.SurveyEnabled,
		AppLaunchCount:     rec.AppLaunchCount,
		CompletedSurveyIDs: domain.NewIDSet(rec.CompletedSurveyIDs...),
		SkippedSurveyIDs:   domain.NewIDSet(rec.SkippedSurveyIDs...),
	}
	if rec.NextReminderAt != nil {
		at := rec.NextReminderAt.UTC()
		prefs.NextReminderAt = &at
	}
	return &prefs, nil
}

func encode(prefs domain.Preferences) ([]byte, error) {
	return json.Marshal(preferenceRecord{
		SurveyEnabled:      prefs.SurveyEnabled,
		AppLaunchCount:     prefs.AppLaunchCount,
		NextReminderAt:     prefs.NextReminderAt,
		CompletedSurveyIDs: prefs.CompletedSurveyIDs.Sorted(),
		SkippedSurveyIDs:   prefs.SkippedSurveyIDs.Sorted(),
	})
}
