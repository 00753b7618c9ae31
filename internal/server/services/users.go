// Package services contains server-side business logic. Each method borrows
// one connection from the pool for its whole run and returns it before
// exiting; writes happen inside a transaction on that connection.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/dbx"
	"github.com/dmitrijs2005/gremath/internal/logging"
	"github.com/dmitrijs2005/gremath/internal/server/auth"
	"github.com/dmitrijs2005/gremath/internal/server/config"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"github.com/dmitrijs2005/gremath/internal/server/passwords"
	"github.com/dmitrijs2005/gremath/internal/server/repositories/repomanager"
)

// LoginValidityDuration is the lifetime of tokens issued by Login unless the
// config overrides it.
const LoginValidityDuration = 30 * time.Minute

type AccessToken struct {
	AccessToken string
	TokenType   string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      *passwords.Hasher
	tokens                      *auth.TokenService
	logger                      logging.Logger
	accessTokenValidityDuration time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *passwords.Hasher,
	tokens *auth.TokenService, logger logging.Logger, cfg *config.Config) *UserService {

	ttl := cfg.AccessTokenValidityDuration
	if ttl <= 0 {
		ttl = LoginValidityDuration
	}

	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		tokens:                      tokens,
		logger:                      logger,
		accessTokenValidityDuration: ttl,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", common.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return nil
}

// Register creates a student account.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, models.RoleStudent)
}

// CreateUser creates an account with the given role. An address that is
// already registered yields common.ErrDuplicateEmail.
func (s *UserService) CreateUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	var created *models.User

	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		_, err := s.repomanager.Users(conn).GetByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrDuplicateEmail
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
				Email:          email,
				HashedPassword: hash,
				Role:           role,
			})
			if err != nil {
				return err
			}
			created = u
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Login checks credentials and issues an access token. Unknown addresses,
// wrong passwords and inactive accounts all yield
// common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AccessToken, error) {
	email = NormalizeEmail(email)

	var user *models.User

	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		u, err := s.repomanager.Users(conn).GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// keep the timing of unknown and known addresses alike
				s.hasher.Verify(password, s.dummy())
				return common.ErrInvalidCredentials
			}
			return err
		}

		if !s.hasher.Verify(password, u.HashedPassword) || !u.IsActive {
			return common.ErrInvalidCredentials
		}

		if s.hasher.NeedsRehash(u.HashedPassword) {
			s.rehash(ctx, conn, u, password)
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.Email, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &AccessToken{AccessToken: token, TokenType: common.TokenType}, nil
}

// FindByEmail loads a user for request authentication.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.Session) error {
		u, err := s.repomanager.Users(conn).GetByEmail(ctx, NormalizeEmail(email))
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// rehash upgrades a stored hash to the current default. Failures are logged
// and do not fail the login.
func (s *UserService) rehash(ctx context.Context, conn dbx.Session, u *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn(ctx, "rehash failed", "user_id", u.ID, "error", err)
		return
	}

	err = dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).UpdatePasswordHash(ctx, u.ID, hash)
	})
	if err != nil {
		s.logger.Warn(ctx, "rehash update failed", "user_id", u.ID, "error", err)
		return
	}

	u.HashedPassword = hash
	s.logger.Info(ctx, "password hash upgraded", "user_id", u.ID, "algorithm", s.hasher.Default().String())
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("gremath-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
