// Package auth issues and verifies the signed, time-limited bearer tokens
// handed out at login. Tokens are stateless: nothing is persisted and there
// is no revocation list, so a token stays valid until its exp claim passes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
)

// FallbackValidityDuration is used when neither the caller nor the config
// names a lifetime. Login always passes its own 30 minute lifetime, so this
// only applies to other callers of Issue.
const FallbackValidityDuration = 15 * time.Minute

// TokenService signs subjects (user emails) into compact JWTs with one HMAC
// algorithm for the whole process lifetime.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// Option customises a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService builds a TokenService from the signing secret, algorithm
// and fallback lifetime in cfg.
func NewTokenService(cfg *config.Config, opts ...Option) (*TokenService, error) {
	method, err := signingMethod(cfg.SigningAlgorithm)
	if err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("empty signing secret")
	}

	ttl := cfg.DefaultTokenValidityDuration
	if ttl <= 0 {
		ttl = FallbackValidityDuration
	}

	s := &TokenService{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		defaultTTL: ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func signingMethod(name string) (jwt.SigningMethod, error) {
	switch name {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", name)
	}
}

// Issue signs a token for subject valid for ttl. A non-positive ttl selects
// the fallback lifetime.
//
// The exp claim is a NumericDate with one-second resolution and is truncated,
// never rounded up, so a token issued at a fractional second stops verifying
// at the whole second before issue+ttl. The effective lifetime is therefore
// in (ttl-1s, ttl] and a token is never accepted at or after issue+ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	token := jwt.NewWithClaims(s.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Any failure of the first three yields common.ErrInvalidToken; a token
// without a subject yields common.ErrMissingSubject.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrMissingSubject
	}

	return claims.Subject, nil
}
