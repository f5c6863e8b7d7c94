package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/resumebuilder/internal/dbx"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/resumes"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructors serve plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Resumes(db dbx.DBTX) resumes.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}
