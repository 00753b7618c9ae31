package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gremath/internal/common"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CollectionName = "questions"

// collection is the subset of collection operations the store needs.
type collection interface {
	insert(ctx context.Context, doc document) error
	find(ctx context.Context, skip, limit int64) ([]document, error)
	findByID(ctx context.Context, id bson.ObjectID) (*document, error)
}

type mongoCollection struct {
	c *mongo.Collection
}

func (m *mongoCollection) insert(ctx context.Context, doc document) error {
	_, err := m.c.InsertOne(ctx, doc)
	return err
}

func (m *mongoCollection) find(ctx context.Context, skip, limit int64) ([]document, error) {
	cur, err := m.c.Find(ctx, bson.D{}, options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	docs := make([]document, 0, limit)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *mongoCollection) findByID(ctx context.Context, id bson.ObjectID) (*document, error) {
	var d document
	if err := m.c.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo ping: %w", classify(err))
	}
	return client, nil
}

// classify marks transport failures as common.ErrStoreUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return err
}
