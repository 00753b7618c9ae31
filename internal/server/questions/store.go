// Package questions stores question-bank documents in MongoDB.
package questions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Repository interface {
	Create(ctx context.Context, q *models.Question, creatorID int64) (string, error)
	List(ctx context.Context, limit, skip int) ([]models.Question, error)
	Get(ctx context.Context, id string) (*models.Question, error)
}

type Store struct {
	coll collection
	now  func() time.Time
}

// NewStore binds a Store to the questions collection of db.
func NewStore(db *mongo.Database) *Store {
	return newStore(&mongoCollection{c: db.Collection(CollectionName)})
}

func newStore(c collection) *Store {
	return &Store{coll: c, now: time.Now}
}

// Create stores q and returns its hex id. created_by and created_at are
// always taken from creatorID and the server clock. On success q holds the
// stored values.
func (s *Store) Create(ctx context.Context, q *models.Question, creatorID int64) (string, error) {
	doc := fromModel(q)
	doc.ID = bson.NewObjectID()
	doc.CreatedBy = creatorID
	doc.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	if err := s.coll.insert(ctx, doc); err != nil {
		return "", fmt.Errorf("mongo error: %w", classify(err))
	}
	*q = doc.toModel()
	return q.ID, nil
}

// List returns up to limit questions in natural order after skipping skip.
// A zero limit means DefaultLimit; limits above MaxLimit are clamped.
func (s *Store) List(ctx context.Context, limit, skip int) ([]models.Question, error) {
	limit, skip, err := NormalizePage(limit, skip)
	if err != nil {
		return nil, err
	}

	docs, err := s.coll.find(ctx, int64(skip), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", classify(err))
	}

	out := make([]models.Question, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Question, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	doc, err := s.coll.findByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", classify(err))
	}
	q := doc.toModel()
	return &q, nil
}

// NormalizePage applies paging defaults and bounds.
func NormalizePage(limit, skip int) (int, int, error) {
	if limit < 0 || skip < 0 {
		return 0, 0, fmt.Errorf("%w: limit and skip must not be negative", common.ErrValidation)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, skip, nil
}
