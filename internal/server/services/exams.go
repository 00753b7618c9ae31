package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/repomanager"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ExamService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewExamService(db *sql.DB, m repomanager.RepositoryManager) *ExamService {
	return &ExamService{db: db, repomanager: m}
}

// StartExam opens an in-progress session for principal. templateID, when
// given, must be a document id from the content store.
func (s *ExamService) StartExam(ctx context.Context, principal *models.User, templateID *string) (*models.ExamSession, error) {
	if principal == nil {
		return nil, common.ErrUnauthenticated
	}
	if templateID != nil {
		if _, err := bson.ObjectIDFromHex(*templateID); err != nil {
			return nil, fmt.Errorf("%w: invalid exam template id", common.ErrValidation)
		}
	}

	var session *models.ExamSession
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			session, err = s.repomanager.ExamSessions(tx).Create(ctx, principal.ID, templateID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FinishExam completes one of principal's in-progress sessions with score.
func (s *ExamService) FinishExam(ctx context.Context, principal *models.User, sessionID int64, score int) (*models.ExamSession, error) {
	if principal == nil {
		return nil, common.ErrUnauthenticated
	}
	if score < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", common.ErrValidation)
	}

	var session *models.ExamSession
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			session, err = s.repomanager.ExamSessions(tx).Finish(ctx, principal.ID, sessionID, score)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ExamService) ListExamSessions(ctx context.Context, principal *models.User) ([]models.ExamSession, error) {
	if principal == nil {
		return nil, common.ErrUnauthenticated
	}

	var list []models.ExamSession
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		var err error
		list, err = s.repomanager.ExamSessions(conn).ListByUser(ctx, principal.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
