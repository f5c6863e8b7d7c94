package revokedtokens

import (
	"context"
	"time"
)

// Repository is the refresh token denylist.
type Repository interface {
	// Revoke records jti as used. It reports false when jti was already revoked.
	Revoke(ctx context.Context, jti string, userID string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired drops entries whose token would have expired by now.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
