package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/dmitrijs2005/resumebuilder/internal/client/client"
	"github.com/dmitrijs2005/resumebuilder/internal/client/config"
	"github.com/dmitrijs2005/resumebuilder/internal/client/services"
)

type App struct {
	config  *config.Config
	auth    services.AuthService
	resumes services.ResumeService
	db      *sql.DB
	email   string
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDB)
	if err != nil {
		return nil, err
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	return &App{
		config:  c,
		auth:    services.NewAuthService(api, db),
		resumes: services.NewResumeService(api),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}
