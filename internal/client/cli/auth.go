package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, full name and password, creates the account
// and leaves the user logged in.
//
// The password byte slice is wiped before returning. Any I/O or service
// error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, fullName, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and authenticates. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout revokes the session and wipes it locally. The CLI is logged out
// afterwards even when the server could not be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.email = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:        %s\n", p.ID)
	fmt.Fprintf(a.out, "Email:     %s\n", p.Email)
	fmt.Fprintf(a.out, "Full name: %s\n", p.FullName)
	if p.Phone != nil {
		fmt.Fprintf(a.out, "Phone:     %s\n", *p.Phone)
	}
	if p.Bio != nil {
		fmt.Fprintf(a.out, "Bio:       %s\n", *p.Bio)
	}
	if p.LastLoginAt != nil {
		fmt.Fprintf(a.out, "Last login: %s\n", p.LastLoginAt.Local().Format(timeLayout))
	}
	return nil
}

// ChangePassword prompts for the current password and the new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	confirm, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	msg, err := a.auth.ChangePassword(ctx, current, next, confirm)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}
