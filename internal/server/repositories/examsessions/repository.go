package examsessions

import (
	"context"

	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, templateID *string) (*models.ExamSession, error)
	Get(ctx context.Context, id int64) (*models.ExamSession, error)
	Finish(ctx context.Context, userID, id int64, score int) (*models.ExamSession, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ExamSession, error)
}
