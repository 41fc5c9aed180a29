package mongo

import "time"

// SurveyDocument は MongoDB 上でのアンケート定義スキーマ。
// visibleStopIds / visibleRouteIds は null と空配列を区別して保存する。
type SurveyDocument struct {
	ID                      int                `bson:"_id"`
	Name                    string             `bson:"name"`
	ShowOnMap               bool               `bson:"showOnMap"`
	ShowOnStops             bool               `bson:"showOnStops"`
	VisibleStopIDs          []string           `bson:"visibleStopIds"`
	VisibleRouteIDs         []string           `bson:"visibleRouteIds"`
	AllowsVisible           bool               `bson:"allowsVisible"`
	AllowsMultipleResponses bool               `bson:"allowsMultipleResponses"`
	Questions               []QuestionDocument `bson:"questions"`
	StartDate               *time.Time         `bson:"startDate,omitempty"`
	EndDate                 *time.Time         `bson:"endDate,omitempty"`
	CreatedAt               time.Time          `bson:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt"`
}

// QuestionDocument はアンケート設問 1 件分の埋め込みドキュメント。
type QuestionDocument struct {
	ID       int      `bson:"id"`
	Position int      `bson:"position"`
	Type     string   `bson:"type"`
	Required bool     `bson:"required"`
	Label    string   `bson:"label,omitempty"`
	Options  []string `bson:"options,omitempty"`
	URL      string   `bson:"url,omitempty"`
}

// StopDocument は停留所と、そこを通る路線 ID を保持する。
type StopDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name,omitempty"`
	RouteIDs  []string  `bson:"routeIds"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// PreferenceDocument はデバイス単位のエンゲージメント状態を表現する。
type PreferenceDocument struct {
	DeviceID           string     `bson:"_id"`
	SurveyEnabled      bool       `bson:"surveyEnabled"`
	AppLaunchCount     int        `bson:"appLaunchCount"`
	NextReminderAt     *time.Time `bson:"nextReminderAt,omitempty"`
	CompletedSurveyIDs []int      `bson:"completedSurveyIds"`
	SkippedSurveyIDs   []int      `bson:"skippedSurveyIds"`
	Version            int64      `bson:"version"`
	UpdatedAt          time.Time  `bson:"updatedAt"`
}

// ResponseDocument は回答送信 1 件分のスキーマ。
type ResponseDocument struct {
	ID          string           `bson:"_id"`
	DeviceID    string           `bson:"deviceId"`
	SurveyID    int              `bson:"surveyId"`
	StopID      string           `bson:"stopId,omitempty"`
	Answers     []AnswerDocument `bson:"answers"`
	SubmittedAt time.Time        `bson:"submittedAt"`
}

// AnswerDocument は設問ごとの回答値。
type AnswerDocument struct {
	QuestionID int      `bson:"questionId"`
	Values     []string `bson:"values"`
}

// CounterDocument は連番採番用のカウンタ。
type CounterDocument struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}
