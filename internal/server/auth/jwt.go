// Package auth issues and verifies the HS256 access/refresh credential pair
// and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose distinguishes access tokens from refresh tokens. It travels in the
// "typ" claim.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID   string
	Email    string
	FullName string
}

// Claims carries the registered JWT claims plus the identity fields.
type Claims struct {
	jwt.RegisteredClaims
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Purpose  Purpose `json:"typ"`
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.Subject, Email: c.Email, FullName: c.FullName}
}

// TokenPair is the credential pair handed to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

type Option func(*TokenService)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg TokenConfig, opts ...Option) (*TokenService, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token secrets must not be empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	s := &TokenService{cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// IssuePair signs a fresh access and refresh token for id. Every call gets
// new iat/nbf/exp values and a new jti.
func (s *TokenService) IssuePair(id Identity) (*TokenPair, error) {
	if id.UserID == "" {
		return nil, fmt.Errorf("%w: empty subject", common.ErrTokenMalformed)
	}

	now := s.now()

	access, err := s.sign(id, PurposeAccess, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(id, PurposeRefresh, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    common.BearerScheme,
		ExpiresIn:    int64(s.cfg.AccessTTL / time.Second),
	}, nil
}

func (s *TokenService) sign(id Identity, p Purpose, now time.Time) (string, error) {
	secret, ttl := s.keyFor(p)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    id.Email,
		FullName: id.FullName,
		Purpose:  p,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", p, err)
	}
	return signed, nil
}

func (s *TokenService) keyFor(p Purpose) ([]byte, time.Duration) {
	if p == PurposeRefresh {
		return s.cfg.RefreshSecret, s.cfg.RefreshTTL
	}
	return s.cfg.AccessSecret, s.cfg.AccessTTL
}

// Verify checks signature, algorithm, time window and purpose of token.
// The returned error is one of common.ErrTokenExpired, ErrTokenMalformed,
// ErrTokenNotYetValid or ErrTokenSignatureInvalid.
func (s *TokenService) Verify(token string, p Purpose) (*Claims, error) {
	secret, _ := s.keyFor(p)

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, mapJWTError(err)
	}

	if claims.Purpose != p {
		return nil, fmt.Errorf("%w: expected %s token, got %q", common.ErrTokenSignatureInvalid, p, claims.Purpose)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrTokenMalformed)
	}

	return claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", common.ErrTokenNotYetValid, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenSignatureInvalid, err)
	}
}
