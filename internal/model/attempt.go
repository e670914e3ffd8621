package model

import "time"

// AttemptStep is the state of a quiz-taking session:
// answering -> feedback -> (next question, back to answering) -> finished.
type AttemptStep string

const (
	StepAnswering AttemptStep = "answering"
	StepFeedback  AttemptStep = "feedback"
	StepFinished  AttemptStep = "finished"
)

const (
	TierNeedsReview = "needs_review"
	TierGood        = "good"
	TierExcellent   = "excellent"
)

// Attempt is the server-held session of a student taking a quiz. It lives in
// Redis, not in MySQL; the questions are snapshotted at start so MaxScore is
// the question count at the time of the attempt even if the quiz is
// regenerated mid-flight.
type Attempt struct {
	ID          string       `json:"id"`
	QcmID       uint         `json:"qcmId"`
	UserID      uint         `json:"userId"`
	Questions   QuestionList `json:"questions"`
	Index       int          `json:"index"`
	Selection   []string     `json:"selection"`
	Score       int          `json:"score"`
	Step        AttemptStep  `json:"step"`
	LastCorrect bool         `json:"lastCorrect"`
	Submitted   bool         `json:"submitted"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Current returns the question the attempt is positioned on, nil once the
// attempt has moved past the last question.
func (a *Attempt) Current() *Question {
	if a.Index < 0 || a.Index >= len(a.Questions) {
		return nil
	}
	return &a.Questions[a.Index]
}

// Summary is the result screen shown when an attempt reaches finished.
type Summary struct {
	Score       int    `json:"score"`
	Total       int    `json:"total"`
	Score20     int    `json:"score20"`
	SuccessRate int    `json:"successRate"`
	Tier        string `json:"tier"`
	Message     string `json:"message"`
}
