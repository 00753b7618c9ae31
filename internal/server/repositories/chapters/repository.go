package chapters

import (
	"context"

	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Chapter, error)
}
