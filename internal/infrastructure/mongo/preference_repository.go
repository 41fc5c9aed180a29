package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/transit-survey-services/api/internal/engagement/application"
	"github.com/sngm3741/transit-survey-services/api/internal/engagement/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreferenceRepository はデバイスごとの Preferences を 1 ドキュメントとして保存する。
type PreferenceRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewPreferenceRepository(db *mongo.Database, collectionName string) *PreferenceRepository {
	return &PreferenceRepository{collection: db.Collection(collectionName), now: time.Now}
}

// maxModifyAttempts は楽観ロック競合時の再試行上限。
const maxModifyAttempts = 10

// Load は保存済みレコードを復元する。未保存なら ErrPreferencesNotFound、デコード不能なら ErrCorruptPreferences を返す。
func (r *PreferenceRepository) Load(ctx context.Context, deviceID string) (*domain.Preferences, error) {
	doc, err := r.find(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	prefs := mapPreferenceDocument(*doc)
	return &prefs, nil
}

// Save はレコード全体を置き換え、version を進める (upsert)。
func (r *PreferenceRepository) Save(ctx context.Context, deviceID string, prefs domain.Preferences) error {
	doc := mapPreferencesToDocument(deviceID, prefs)
	set := bson.M{
		"surveyEnabled":      doc.SurveyEnabled,
		"appLaunchCount":     doc.AppLaunchCount,
		"completedSurveyIds": doc.CompletedSurveyIDs,
		"skippedSurveyIds":   doc.SkippedSurveyIDs,
		"updatedAt":          r.now().UTC(),
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	if doc.NextReminderAt != nil {
		set["nextReminderAt"] = *doc.NextReminderAt
	} else {
		update["$unset"] = bson.M{"nextReminderAt": ""}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": deviceID}, update, options.Update().SetUpsert(true))
	return err
}

// Modify は version による楽観ロックで read-modify-write を行う。
// 競合した場合は読み直して fn を再適用する。
func (r *PreferenceRepository) Modify(ctx context.Context, deviceID string, fn func(*domain.Preferences)) (domain.Preferences, error) {
	for attempt := 0; attempt < maxModifyAttempts; attempt++ {
		current := domain.DefaultPreferences()
		var version int64
		exists := false

		doc, err := r.find(ctx, deviceID)
		switch {
		case err == nil:
			current = mapPreferenceDocument(*doc)
			version = doc.Version
			exists = true
		case errors.Is(err, application.ErrPreferencesNotFound):
		default:
			return domain.Preferences{}, err
		}

		fn(&current)
		next := mapPreferencesToDocument(deviceID, current)
		next.Version = version + 1
		next.UpdatedAt = r.now().UTC()

		if !exists {
			_, err := r.collection.InsertOne(ctx, next)
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return domain.Preferences{}, err
			}
			return current, nil
		}

		res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": deviceID, "version": versionFilter(version)}, next)
		if err != nil {
			return domain.Preferences{}, err
		}
		if res.MatchedCount == 0 {
			continue
		}
		return current, nil
	}
	return domain.Preferences{}, application.ErrPreferenceConflict
}

func (r *PreferenceRepository) find(ctx context.Context, deviceID string) (*PreferenceDocument, error) {
	res := r.collection.FindOne(ctx, bson.M{"_id": deviceID})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrPreferencesNotFound
		}
		return nil, err
	}

	var doc PreferenceDocument
	if err := res.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", application.ErrCorruptPreferences, err)
	}
	if doc.AppLaunchCount < 0 {
		return nil, fmt.Errorf("%w: negative launch count %d", application.ErrCorruptPreferences, doc.AppLaunchCount)
	}
	return &doc, nil
}

// versionFilter は version フィールドを持たない旧レコードも 0 として扱う。
func versionFilter(version int64) any {
	if version == 0 {
		return bson.M{"$in": bson.A{0, nil}}
	}
	return version
}

func mapPreferenceDocument(doc PreferenceDocument) domain.Preferences {
	prefs := domain.Preferences{
		SurveyEnabled:      doc.SurveyEnabled,
		AppLaunchCount:     doc.AppLaunchCount,
		CompletedSurveyIDs: domain.NewIDSet(doc.CompletedSurveyIDs...),
		SkippedSurveyIDs:   domain.NewIDSet(doc.SkippedSurveyIDs...),
	}
	if doc.NextReminderAt != nil {
		at := doc.NextReminderAt.UTC()
		prefs.NextReminderAt = &at
	}
	return prefs
}

func mapPreferencesToDocument(deviceID string, prefs domain.Preferences) PreferenceDocument {
	doc := PreferenceDocument{
		DeviceID:           deviceID,
		SurveyEnabled:      prefs.SurveyEnabled,
		AppLaunchCount:     prefs.AppLaunchCount,
		CompletedSurveyIDs: prefs.CompletedSurveyIDs.Sorted(),
		SkippedSurveyIDs:   prefs.SkippedSurveyIDs.Sorted(),
	}
	if prefs.NextReminderAt != nil {
		at := prefs.NextReminderAt.UTC()
		doc.NextReminderAt = &at
	}
	return doc
}
