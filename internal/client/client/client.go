package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/resumebuilder/internal/client/models"
)

// RegisterRequest mirrors the body of POST /auth/register.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type CreateResumeRequest struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// Client is the REST API as seen by the CLI services.
type Client interface {
	SetSession(s models.Session)
	Session() models.Session
	OnTokens(fn func(ctx context.Context, s models.Session) error)

	Register(ctx context.Context, req RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Refresh(ctx context.Context) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error

	Profile(ctx context.Context) (*models.Profile, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) (string, error)

	ListResumes(ctx context.Context, status string, page, limit int) (*models.ResumePage, error)
	GetResume(ctx context.Context, id string) (*models.Resume, error)
	CreateResume(ctx context.Context, req CreateResumeRequest) (*models.Resume, error)
	ChangeStatus(ctx context.Context, id, status string) (*models.Resume, error)
	DeleteResume(ctx context.Context, id string) error
	PublicResume(ctx context.Context, id string) (*models.Resume, error)
}
