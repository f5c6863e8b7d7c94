package models

import "time"

// RevokedToken is a denylisted refresh token identifier. Rows are only
// meaningful until ExpiresAt, after which the token is dead anyway.
type RevokedToken struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	RevokedAt time.Time
}
