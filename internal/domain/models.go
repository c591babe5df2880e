package domain

import (
	"strings"
	"time"
)

// QuestionRow is one row of the question dataset. The dataset is owned by
// an external authoring process and is read-only to this service.
type QuestionRow struct {
	ID      int64
	Text    string
	Options [5]string
	Correct string // single option letter, compared case-insensitively
}

// Valid reports whether the row can be served: it needs question text and
// at least three non-empty options.
func (r QuestionRow) Valid() bool {
	if strings.TrimSpace(r.Text) == "" {
		return false
	}
	filled := 0
	for _, opt := range r.Options {
		if strings.TrimSpace(opt) != "" {
			filled++
		}
	}
	return filled >= 3
}

// PresentedQuestion is a question shaped for the quiz form: trimmed,
// non-empty options in original column order, no correct-answer leak.
type PresentedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Answer is a single submitted (question, chosen letter) pair.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Submission is the raw payload posted by the quiz form.
type Submission struct {
	Email   string   `json:"email"`
	Answers []Answer `json:"answers"`
}

// Verdict labels for a graded answer.
const (
	VerdictCorrect   = "Correct"
	VerdictIncorrect = "Incorrect"
)

// GradedAnswer is the per-question outcome stored with the result record.
type GradedAnswer struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
	Verdict    string `json:"verdict"`
	Correct    bool   `json:"correct"`
}

// Outcome labels for a whole submission.
const (
	OutcomePass = "Pass"
	OutcomeFail = "Fail"
)

// ResultRecord is one persisted, graded submission. Records are append-only
// and never mutated; at most one exists per normalized email.
type ResultRecord struct {
	ID          string         `json:"id"`
	SubmittedAt time.Time      `json:"submittedAt"`
	Email       string         `json:"email"`
	Answers     []GradedAnswer `json:"answers"`
	Score       int            `json:"score"`
	Outcome     string         `json:"outcome"`
}

// Submission statuses returned to the client.
const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicate"
	StatusError     = "error"
)

// SubmitOutcome is the structured result of a submission attempt. Failures
// of any kind travel through Status/Message rather than as faults.
type SubmitOutcome struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Score       *int   `json:"score,omitempty"`
	Result      string `json:"result,omitempty"`
	SubmittedAt string `json:"timestamp,omitempty"`
}
