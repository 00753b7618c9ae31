// Package identity turns a bearer token into the authenticated user.
package identity

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/server/models"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Resolver struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewResolver(tokens TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve verifies token and loads the user named by its subject. Every
// failure is reported as common.ErrUnauthenticated except an unreachable
// store, which is returned as is.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	email, err := r.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, common.ErrUnauthenticated
	}

	if !user.IsActive {
		return nil, common.ErrUnauthenticated
	}

	return user, nil
}
