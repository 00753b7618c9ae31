package models

import "time"

// ExamStatus enumerates exam session states.
type ExamStatus string

const (
	ExamInProgress ExamStatus = "in_progress"
	ExamCompleted  ExamStatus = "completed"
)

// ExamSession is one attempt by a user. Per-question answers live in the
// document store; only the aggregate result is kept here.
type ExamSession struct {
	ID             int64
	UserID         int64
	ExamTemplateID *string
	Status         ExamStatus
	TotalScore     int
	StartedAt      time.Time
	FinishedAt     *time.Time
}
