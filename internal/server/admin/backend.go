package admin

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gremath/internal/logging"
	"github.com/dmitrijs2005/gremath/internal/server"
	"github.com/dmitrijs2005/gremath/internal/server/auth"
	"github.com/dmitrijs2005/gremath/internal/server/config"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/passwords"
	"github.com/dmitrijs2005/gremath/internal/server/services"
	"github.com/dmitrijs2005/gremath/internal/server/storage"
)

// Backend is everything the admin commands need from the stores.
type Backend interface {
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
	CreateUser(ctx context.Context, email, password string, role models.Role) (*models.User, error)
	Check(ctx context.Context) map[string]bool
	CoverUploadURL(ctx context.Context, courseID int64) (*services.CoverUpload, error)
	ConfirmCover(ctx context.Context, courseID int64, key string) (*models.Course, error)
	Close(ctx context.Context) error
}

type storeBackend struct {
	stores  *server.Stores
	users   *services.UserService
	courses *services.CourseService
	health  *services.HealthService
}

// operator acts on behalf of the person running the admin tool.
var operator = &models.User{Email: "admin-cli", Role: models.RoleAdmin, IsActive: true}

// NewBackend opens both stores and builds the services the commands use.
func NewBackend(ctx context.Context, cfg *config.Config, logger logging.Logger) (Backend, error) {
	tokens, err := auth.NewTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	st, err := server.OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &storeBackend{
		stores:  st,
		users:   services.NewUserService(st.DB, st.RepoManager, passwords.NewFromConfig(cfg), tokens, logger, cfg),
		courses: services.NewCourseService(st.DB, st.RepoManager, storage.NewPresigner(cfg)),
		health:  services.NewHealthService(logger, st.HealthChecks()),
	}, nil
}

func (b *storeBackend) Migrate(ctx context.Context) error {
	return b.stores.RepoManager.RunMigrations(ctx, b.stores.DB)
}

func (b *storeBackend) Reset(ctx context.Context) error {
	return b.stores.RepoManager.ResetSchema(ctx, b.stores.DB)
}

func (b *storeBackend) CreateUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	return b.users.CreateUser(ctx, email, password, role)
}

func (b *storeBackend) Check(ctx context.Context) map[string]bool {
	return b.health.Check(ctx)
}

func (b *storeBackend) CoverUploadURL(ctx context.Context, courseID int64) (*services.CoverUpload, error) {
	return b.courses.CoverUploadURL(ctx, operator, courseID)
}

func (b *storeBackend) ConfirmCover(ctx context.Context, courseID int64, key string) (*models.Course, error) {
	return b.courses.ConfirmCover(ctx, operator, courseID, key)
}

func (b *storeBackend) Close(ctx context.Context) error {
	return b.stores.Close(ctx)
}
