// Package http exposes the REST API over a chi router: auth flows, profile,
// resume CRUD and the anonymous public resume view.
package http

import (
	"context"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/auth"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/dmitrijs2005/resumebuilder/internal/server/services"
)

type TokenVerifier interface {
	Verify(token string, purpose auth.Purpose) (*auth.Claims, error)
}

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, in services.ChangePasswordInput) (string, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error)
	GetUser(ctx context.Context, id string) (*models.Profile, error)
}

type ResumeService interface {
	Create(ctx context.Context, userID string, in services.CreateResumeInput) (*models.Resume, error)
	List(ctx context.Context, userID string, f services.ListFilter) (*models.ResumePage, error)
	Search(ctx context.Context, userID string, q string) ([]*models.Resume, error)
	Get(ctx context.Context, userID, id string) (*models.Resume, error)
	GetPublic(ctx context.Context, id string) (*models.Resume, error)
	Update(ctx context.Context, userID, id string, in services.UpdateResumeInput) (*models.Resume, error)
	ChangeStatus(ctx context.Context, userID, id string, status models.ResumeStatus) (*models.Resume, error)
	Delete(ctx context.Context, userID, id string) error
}

type AvatarService interface {
	CreateUpload(ctx context.Context, userID string) (*services.AvatarUpload, error)
	DownloadURL(ctx context.Context, userID string) (string, error)
}

// Pinger reports database liveness. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options tune cookie handling and the health payload.
type Options struct {
	CookieName   string
	CookieSecure bool
	CookieMaxAge time.Duration
	Version      string
}

// Deps is everything the router needs.
type Deps struct {
	Auth    AuthService
	Resumes ResumeService
	Avatars AvatarService
	Tokens  TokenVerifier
	DB      Pinger
	Logger  logging.Logger
	Options Options
}
