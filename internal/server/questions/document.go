package questions

import (
	"time"

	"github.com/dmitrijs2005/gremath/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// document is the stored shape of a question in the questions collection.
type document struct {
	ID            bson.ObjectID   `bson:"_id,omitempty"`
	Title         string          `bson:"title"`
	Content       string          `bson:"content"`
	Type          string          `bson:"type"`
	Difficulty    string          `bson:"difficulty"`
	Tags          []string        `bson:"tags"`
	Options       []models.Option `bson:"options"`
	CorrectAnswer string          `bson:"correct_answer"`
	Analysis      *string         `bson:"analysis,omitempty"`
	CreatedBy     int64           `bson:"created_by"`
	CreatedAt     time.Time       `bson:"created_at"`
}

func fromModel(q *models.Question) document {
	d := document{
		Title:         q.Title,
		Content:       q.Content,
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Tags:          q.Tags,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Analysis:      q.Analysis,
	}
	if d.Type == "" {
		d.Type = models.DefaultQuestionType
	}
	if d.Difficulty == "" {
		d.Difficulty = models.DefaultQuestionDifficulty
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Options == nil {
		d.Options = []models.Option{}
	}
	return d
}

func (d *document) toModel() models.Question {
	return models.Question{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		Type:          d.Type,
		Difficulty:    d.Difficulty,
		Tags:          d.Tags,
		Options:       d.Options,
		CorrectAnswer: d.CorrectAnswer,
		Analysis:      d.Analysis,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
	}
}
