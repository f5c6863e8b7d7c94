// Package services contains application services for resumectl. This file
// defines the authentication service: register, login, logout, the persisted
// session and the profile calls.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/resumebuilder/internal/client/client"
	"github.com/dmitrijs2005/resumebuilder/internal/client/models"
	"github.com/dmitrijs2005/resumebuilder/internal/client/repositories/session"
	"github.com/dmitrijs2005/resumebuilder/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register / Login: authenticate against the server and persist the pair.
//   - Restore: load a previously saved session; returns the saved email or "".
//   - Logout: revoke the refresh token and wipe the local session.
//   - Profile / ChangePassword: guarded account calls.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, email, fullName string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.Profile, error)
	ChangePassword(ctx context.Context, current, next, confirm []byte) (string, error)
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and the
// local session database.
type authService struct {
	client client.Client
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the given API client and
// DB. Every pair the client receives, including silent refreshes, is saved.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	a := &authService{client: c, db: db}
	c.OnTokens(a.saveSession)
	return a
}

func (a *authService) sessionRepo(db dbx.DBTX) session.Repository {
	return session.NewSQLiteRepository(db)
}

// saveSession persists email and both tokens in a single transaction.
func (a *authService) saveSession(ctx context.Context, s models.Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.sessionRepo(tx)
		if err := repo.Set(ctx, session.KeyEmail, s.Email); err != nil {
			return err
		}
		if err := repo.Set(ctx, session.KeyAccessToken, s.AccessToken); err != nil {
			return err
		}
		return repo.Set(ctx, session.KeyRefreshToken, s.RefreshToken)
	})
}

func (a *authService) Register(ctx context.Context, email, fullName string, password []byte) error {
	_, err := a.client.Register(ctx, client.RegisterRequest{
		Email:    strings.TrimSpace(email),
		Password: string(password),
		FullName: strings.TrimSpace(fullName),
	})
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	if _, err := a.client.Login(ctx, strings.TrimSpace(email), string(password)); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return nil
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	kv, err := a.sessionRepo(a.db).List(ctx)
	if err != nil {
		return "", err
	}
	s := models.Session{
		Email:        kv[session.KeyEmail],
		AccessToken:  kv[session.KeyAccessToken],
		RefreshToken: kv[session.KeyRefreshToken],
	}
	if s.Empty() {
		return "", nil
	}
	a.client.SetSession(s)
	return s.Email, nil
}

// Logout clears the local session even when the server call fails, so a dead
// server never leaves the CLI logged in.
func (a *authService) Logout(ctx context.Context) error {
	logoutErr := a.client.Logout(ctx)
	clearErr := a.sessionRepo(a.db).Clear(ctx)
	return errors.Join(logoutErr, clearErr)
}

func (a *authService) Profile(ctx context.Context) (*models.Profile, error) {
	return a.client.Profile(ctx)
}

func (a *authService) ChangePassword(ctx context.Context, current, next, confirm []byte) (string, error) {
	return a.client.ChangePassword(ctx, client.ChangePasswordRequest{
		CurrentPassword: string(current),
		NewPassword:     string(next),
		ConfirmPassword: string(confirm),
	})
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
