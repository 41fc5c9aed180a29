package domain

import "time"

// SurveyResponse is a rider's submitted answers to one survey.
type SurveyResponse struct {
	ID          string
	DeviceID    string
	SurveyID    int
	StopID      string
	Answers     []Answer
	SubmittedAt time.Time
}

// Answer holds the values given to a single question.
type Answer struct {
	QuestionID int
	Values     []string
}
