package models

import "time"

const (
	DefaultQuestionType       = "single_choice"
	DefaultQuestionDifficulty = "medium"
)

// Option is one labelled answer choice, e.g. {ID: "A", Text: "20"}.
type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// Question is a question-bank document. ID is the store-assigned identifier
// in string form; CreatedBy and CreatedAt are always set by the server.
type Question struct {
	ID            string
	Title         string
	Content       string
	Type          string
	Difficulty    string
	Tags          []string
	Options       []Option
	CorrectAnswer string
	Analysis      *string
	CreatedBy     int64
	CreatedAt     time.Time
}
