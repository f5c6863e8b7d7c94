// Package services contains server-side business logic: the auth
// orchestrator (UserService), the resume store (ResumeService) and avatar
// uploads to S3-compatible storage (AvatarService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/dbx"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/auth"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/repomanager"
)

// TokenIssuer mints and verifies credential pairs. *auth.TokenService
// satisfies it.
type TokenIssuer interface {
	IssuePair(id auth.Identity) (*auth.TokenPair, error)
	Verify(token string, purpose auth.Purpose) (*auth.Claims, error)
}

// PasswordHasher is satisfied by *auth.BcryptHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	CompareDummy(password string) error
}

type RegisterInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthResult is the credential pair plus the public projection of its owner.
type AuthResult struct {
	*auth.TokenPair
	User models.PublicUser `json:"user"`
}

const PasswordChangedMessage = "password changed successfully"

// UserService provides the authentication flows:
// - Register / Login: create or check credentials and mint a pair
// - Refresh: single-use rotation backed by the revoked token denylist
// - Logout: revoke a refresh token
// - ChangePassword, GetProfile, UpdateProfile, GetUser
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	hasher      PasswordHasher
	logger      logging.Logger
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, hasher PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}
	if err := validateFullName(in.FullName); err != nil {
		return nil, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		s.logger.Error(ctx, "create user", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(ctx, user)
}

// Login checks the email/password pair. Unknown email and wrong password
// both yield common.ErrInvalidCredentials after comparable bcrypt work.
// The password is compared as given, the same bytes Register hashed.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if err := s.hasher.CompareDummy(password); err != nil {
				s.logger.Error(ctx, "dummy password compare", "error", err)
			}
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "compare password", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.Users(s.db).TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn(ctx, "record last login", "user_id", user.ID, "error", err)
	}

	return s.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// checked against the denylist first, then revoked in the same transaction
// that purges expired rows. That insert decides races between concurrent
// refreshes, so each refresh token works once.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.PurposeRefresh)
	if err != nil {
		s.logger.Debug(ctx, "refresh token rejected", "error", err)
		return nil, common.ErrInvalidToken
	}

	revoked, err := s.repomanager.RevokedTokens(s.db).IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error(ctx, "check revoked token", "error", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		s.logger.Warn(ctx, "refresh token reuse", "user_id", claims.Subject, "jti", claims.ID)
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		s.logger.Error(ctx, "lookup user", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Logout revokes refreshToken. Access tokens expire on their own.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return common.ErrInvalidToken
	}
	return s.revoke(ctx, claims)
}

func (s *UserService) revoke(ctx context.Context, claims *auth.Claims) error {
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RevokedTokens(tx)
		if _, err := repo.PurgeExpired(ctx, s.now()); err != nil {
			return fmt.Errorf("purge revoked tokens: %w", err)
		}
		first, err := repo.Revoke(ctx, claims.ID, claims.Subject, expires)
		if err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		if !first {
			return common.ErrInvalidToken
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			s.logger.Warn(ctx, "refresh token reuse", "user_id", claims.Subject, "jti", claims.ID)
			return common.ErrInvalidToken
		}
		s.logger.Error(ctx, "revoke refresh token", "error", err)
		return common.ErrorInternal
	}
	return nil
}

func (s *UserService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	pair, err := s.tokens.IssuePair(auth.Identity{UserID: user.ID, Email: user.Email, FullName: user.FullName})
	if err != nil {
		s.logger.Error(ctx, "issue token pair", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	return &AuthResult{TokenPair: pair, User: user.Public()}, nil
}

// ChangePassword replaces the stored hash. Existing sessions stay valid.
func (s *UserService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return "", s.lookupError(ctx, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, in.CurrentPassword); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return "", common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "compare password", "user_id", userID, "error", err)
		return "", common.ErrorInternal
	}
	if in.NewPassword != in.ConfirmPassword {
		return "", common.ErrPasswordMismatch
	}
	if err := validatePassword("newPassword", in.NewPassword); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return "", common.ErrorInternal
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return "", s.lookupError(ctx, err)
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return PasswordChangedMessage, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	p := user.Profile()
	return &p, nil
}

// GetUser is GetProfile for an arbitrary id. Ids that are not UUIDs are
// reported as not found.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.Profile, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.GetProfile(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if err := validateFullName(name); err != nil {
			return nil, err
		}
		patch.FullName = &name
	}
	if err := validatePhone(patch.Phone); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	p := user.Profile()
	return &p, nil
}

// lookupError passes NotFound through and hides everything else.
func (s *UserService) lookupError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.logger.Error(ctx, "user repository", "error", err)
	return common.ErrorInternal
}
