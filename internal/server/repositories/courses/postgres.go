package courses

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {

	query :=
		`INSERT INTO courses (title, description, price, is_published)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		course.Title, course.Description, course.Price, course.IsPublished).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return course, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Course, error) {

	query :=
		`SELECT id, title, description, price, cover_image, is_published, created_at FROM courses
		 WHERE id = $1
		 `

	c := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(scanTargets(c)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return c, nil
}

// List returns courses ordered by id. When publishedOnly is set drafts are
// excluded.
func (r *PostgresRepository) List(ctx context.Context, limit, skip int, publishedOnly bool) ([]models.Course, error) {

	query :=
		`SELECT id, title, description, price, cover_image, is_published, created_at FROM courses
		 WHERE ($1 = FALSE OR is_published = TRUE)
		 ORDER BY id
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, publishedOnly, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	result := make([]models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(scanTargets(&c)...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return result, nil
}

func (r *PostgresRepository) SetCoverImage(ctx context.Context, id int64, url string) error {

	query :=
		`UPDATE courses SET cover_image = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanTargets(c *models.Course) []any {
	return []any{&c.ID, &c.Title, &c.Description, &c.Price, &c.CoverImage, &c.IsPublished, &c.CreatedAt}
}
