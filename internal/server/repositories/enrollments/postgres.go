package enrollments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create enrolls the user in the course. Enrolling twice yields
// common.ErrorAlreadyExists; an unknown user or course yields
// common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {

	query :=
		`INSERT INTO enrollments (user_id, course_id)
		 VALUES ($1, $2)
		 RETURNING id, purchased_at
		 `

	e := &models.Enrollment{UserID: userID, CourseID: courseID}
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&e.ID, &e.PurchasedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error) {

	query :=
		`SELECT id, user_id, course_id, purchased_at FROM enrollments
		 WHERE user_id = $1
		 ORDER BY purchased_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	result := make([]models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.PurchasedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return result, nil
}
