package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
)

// Repository is the credential store. Lookups of missing users return
// common.ErrorNotFound; Create reports an existing email as
// common.ErrDuplicateEmail.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
