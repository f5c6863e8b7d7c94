package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Root greets the user, resumes a saved session if there is one and runs the
// REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintf(a.out, "ResumeBuilder CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := a.auth.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "warning: %v\n", err)
	}
	cancel()

	email, err := a.auth.Restore(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "could not read saved session: %v\n", err)
	}
	if email != "" {
		a.email = email
		fmt.Fprintf(a.out, "Resumed session for %s\n", email)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
