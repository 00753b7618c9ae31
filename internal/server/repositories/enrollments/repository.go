package enrollments

import (
	"context"

	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error)
}
