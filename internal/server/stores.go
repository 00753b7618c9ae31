package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gremath/internal/server/config"
	"github.com/dmitrijs2005/gremath/internal/server/questions"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gremath/internal/server/services"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Stores holds the pooled handles to both datastores.
type Stores struct {
	DB          *sql.DB
	Mongo       *mongo.Client
	Questions   *mongo.Database
	RepoManager *repomanager.PostgresRepositoryManager
}

var (
	openSQL      = sql.Open
	connectMongo = questions.Connect
)

// OpenStores opens the PostgreSQL pool and the MongoDB client and checks
// that both answer. On failure everything opened so far is closed.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	db, err := openSQL("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	client, err := connectMongo(ctx, cfg.MongoURI)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Stores{
		DB:          db,
		Mongo:       client,
		Questions:   client.Database(cfg.MongoDatabase),
		RepoManager: repomanager.NewPostgresRepositoryManager(),
	}, nil
}

func (s *Stores) Close(ctx context.Context) error {
	return errors.Join(s.Mongo.Disconnect(ctx), s.DB.Close())
}

// HealthChecks returns one ping per store for services.HealthService.
func (s *Stores) HealthChecks() map[string]services.CheckFunc {
	return map[string]services.CheckFunc{
		"postgres": s.DB.PingContext,
		"mongo": func(ctx context.Context) error {
			return s.Mongo.Ping(ctx, nil)
		},
	}
}
