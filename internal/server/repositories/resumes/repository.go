package resumes

import (
	"context"

	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
)

// Repository stores resume documents. Every owner-scoped method filters on
// userID and ignores soft-deleted rows, so a resume belonging to someone else
// is indistinguishable from a missing one (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, resume *models.Resume) (*models.Resume, error)
	List(ctx context.Context, userID string, filter models.ResumeFilter) ([]*models.Resume, int, error)
	Search(ctx context.Context, userID string, query string) ([]*models.Resume, error)
	// View returns the resume and bumps its view counter in the same statement.
	View(ctx context.Context, userID string, id string) (*models.Resume, error)
	// ViewPublic is View for anonymous readers: public and published only.
	ViewPublic(ctx context.Context, id string) (*models.Resume, error)
	Update(ctx context.Context, userID string, id string, patch models.ResumePatch) (*models.Resume, error)
	SoftDelete(ctx context.Context, userID string, id string) error
}
