package chapters

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

// Create inserts a chapter. A missing parent course yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error) {

	query :=
		`INSERT INTO chapters (course_id, title, order_index)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, chapter.CourseID, chapter.Title, chapter.OrderIndex).Scan(&chapter.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return chapter, nil
}

func (r *PostgresRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Chapter, error) {

	query :=
		`SELECT id, course_id, title, order_index FROM chapters
		 WHERE course_id = $1
		 ORDER BY order_index, id
		 `

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	result := make([]models.Chapter, 0)
	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.ID, &ch.CourseID, &ch.Title, &ch.OrderIndex); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return result, nil
}
