package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	s, err := NewTokenService(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return s
}

var ann = Identity{UserID: "u-1", Email: "a@x.com", FullName: "Ann Lee"}

func TestNewTokenService_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService(TokenConfig{AccessTTL: time.Minute, RefreshTTL: time.Minute}); err == nil {
		t.Fatal("expected error for empty secrets")
	}
	if _, err := NewTokenService(TokenConfig{AccessSecret: []byte("a"), RefreshSecret: []byte("r")}); err == nil {
		t.Fatal("expected error for zero lifetimes")
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newService(t, clock)

	pair, err := s.IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	if pair.TokenType != "Bearer" || pair.ExpiresIn != 900 {
		t.Fatalf("unexpected pair metadata: %+v", pair)
	}

	claims, err := s.Verify(pair.AccessToken, PurposeAccess)
	if err != nil {
		t.Fatalf("Verify access error: %v", err)
	}
	if claims.Identity() != ann {
		t.Fatalf("identity mismatch: got %+v", claims.Identity())
	}
	if claims.ID == "" {
		t.Fatal("expected jti")
	}

	rc, err := s.Verify(pair.RefreshToken, PurposeRefresh)
	if err != nil {
		t.Fatalf("Verify refresh error: %v", err)
	}
	if !rc.ExpiresAt.Time.Equal(clock.t.Add(7 * 24 * time.Hour)) {
		t.Fatalf("refresh expiry: got %v", rc.ExpiresAt.Time)
	}
	if rc.ID == claims.ID {
		t.Fatal("access and refresh tokens share a jti")
	}
}

func TestIssuePair_EmptySubject(t *testing.T) {
	t.Parallel()

	s := newService(t, &fakeClock{t: time.Now()})
	if _, err := s.IssuePair(Identity{}); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	s := newService(t, clock)

	pair, err := s.IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	clock.Advance(16 * time.Minute)
	if _, err := s.Verify(pair.AccessToken, PurposeAccess); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := s.Verify(pair.RefreshToken, PurposeRefresh); err != nil {
		t.Fatalf("refresh token should still be valid: %v", err)
	}
}

func TestVerify_NotYetValid(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	s := newService(t, clock)

	pair, err := s.IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	clock.Advance(-time.Hour)
	if _, err := s.Verify(pair.AccessToken, PurposeAccess); !errors.Is(err, common.ErrTokenNotYetValid) {
		t.Fatalf("expected ErrTokenNotYetValid, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	pair, err := newService(t, clock).IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	other, err := NewTokenService(TokenConfig{
		AccessSecret: []byte("other"), RefreshSecret: []byte("other-r"),
		AccessTTL: time.Minute, RefreshTTL: time.Hour,
	}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	if _, err := other.Verify(pair.AccessToken, PurposeAccess); !errors.Is(err, common.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_WrongPurpose(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	s := newService(t, clock)

	pair, err := s.IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	if _, err := s.Verify(pair.RefreshToken, PurposeAccess); !errors.Is(err, common.ErrTokenSignatureInvalid) {
		t.Fatalf("refresh as access: expected ErrTokenSignatureInvalid, got %v", err)
	}

	// Shared secret: only the typ claim separates the two.
	shared, err := NewTokenService(TokenConfig{
		AccessSecret: []byte("same"), RefreshSecret: []byte("same"),
		AccessTTL: time.Minute, RefreshTTL: time.Hour,
	}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	pair, err = shared.IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	if _, err := shared.Verify(pair.AccessToken, PurposeRefresh); !errors.Is(err, common.ErrTokenSignatureInvalid) {
		t.Fatalf("access as refresh: expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newService(t, &fakeClock{t: time.Now()})
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		if _, err := s.Verify(tok, PurposeAccess); !errors.Is(err, common.ErrTokenMalformed) {
			t.Fatalf("%q: expected ErrTokenMalformed, got %v", tok, err)
		}
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))},
		Purpose:          PurposeAccess,
	}).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := newService(t, &fakeClock{t: now})
	if _, err := s.Verify(tok, PurposeAccess); !errors.Is(err, common.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))},
		Purpose:          PurposeAccess,
	}).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := newService(t, &fakeClock{t: now})
	if _, err := s.Verify(tok, PurposeAccess); !errors.Is(err, common.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestIssuePair_ResetsExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)}
	s := newService(t, clock)

	first, err := s.IssuePair(ann)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	firstClaims, _ := s.Verify(first.RefreshToken, PurposeRefresh)

	clock.Advance(6 * 24 * time.Hour)
	second, err := s.IssuePair(firstClaims.Identity())
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	secondClaims, err := s.Verify(second.RefreshToken, PurposeRefresh)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	if got := secondClaims.ExpiresAt.Sub(clock.t); got != 7*24*time.Hour {
		t.Fatalf("expected full refresh window, got %v", got)
	}
	if first.RefreshToken == second.RefreshToken {
		t.Fatal("expected a new refresh token")
	}
}
