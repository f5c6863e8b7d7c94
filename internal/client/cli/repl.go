package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/resumebuilder/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Publish(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Public(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for resumectl.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  - help                         show available commands
//	  - register | login             authenticate
//	  - public <id>                  view a published resume anonymously
//	  - exit | quit                  leave the program
//
//	Logged in, additionally:
//	  - profile | passwd | logout
//	  - list [status] [page]         list your resumes
//	  - show <id>                    print one resume
//	  - create <title> [file.json]   create a draft
//	  - publish | archive | delete <id>
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, passwd, (l)ist, show, create, publish, archive, delete, public, logout, exit")
			} else {
				printlnFn("Available commands: register, login, public, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "passwd":
			cmdErr = a.ChangePassword(ctx)

		case "l", "list":
			cmdErr = a.List(ctx, args)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "create":
			cmdErr = a.Create(ctx, args)

		case "publish":
			cmdErr = a.Publish(ctx, args)

		case "archive":
			cmdErr = a.Archive(ctx, args)

		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "public":
			cmdErr = a.Public(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			reportError(cmdErr)
		}
	}
}

func reportError(err error) {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		printlnFn("Usage:", string(usage))
	case errors.Is(err, client.ErrNotLoggedIn):
		printlnFn("Please login first")
	case errors.Is(err, client.ErrUnauthorized):
		printlnFn("Session expired or credentials rejected:", err)
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable:", err)
	default:
		printlnFn("Error:", err)
	}
}

// usageError carries the usage line of a command called with bad arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }
