package courses

import (
	"context"

	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, limit, skip int, publishedOnly bool) ([]models.Course, error)
	SetCoverImage(ctx context.Context, id int64, url string) error
}
