package examsessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/server/models"
)

const columns = `id, user_id, exam_template_id, status, total_score, started_at, finished_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, templateID *string) (*models.ExamSession, error) {

	query :=
		`INSERT INTO exam_sessions (user_id, exam_template_id)
		 VALUES ($1, $2)
		 RETURNING ` + columns

	s, err := scanOne(r.db.QueryRowContext(ctx, query, userID, templateID))
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.ExamSession, error) {

	query := `SELECT ` + columns + ` FROM exam_sessions WHERE id = $1`

	s, err := scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return s, nil
}

// Finish completes an in-progress session owned by userID. Sessions that are
// foreign, unknown or already completed all yield common.ErrorNotFound.
func (r *PostgresRepository) Finish(ctx context.Context, userID, id int64, score int) (*models.ExamSession, error) {

	query :=
		`UPDATE exam_sessions
		 SET status = 'completed', total_score = $3, finished_at = now()
		 WHERE id = $1 AND user_id = $2 AND status = 'in_progress'
		 RETURNING ` + columns

	s, err := scanOne(r.db.QueryRowContext(ctx, query, id, userID, score))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return s, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.ExamSession, error) {

	query := `SELECT ` + columns + ` FROM exam_sessions WHERE user_id = $1 ORDER BY started_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	result := make([]models.ExamSession, 0)
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.ExamSession, error) {
	var (
		s      models.ExamSession
		status string
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.ExamTemplateID, &status, &s.TotalScore, &s.StartedAt, &s.FinishedAt); err != nil {
		return nil, err
	}
	s.Status = models.ExamStatus(status)
	return &s, nil
}

func scanOne(row *sql.Row) (*models.ExamSession, error) {
	return scan(row)
}
