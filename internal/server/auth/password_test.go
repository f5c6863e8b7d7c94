package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash equals plaintext")
	}
	if err := h.Compare(hash, "secret1"); err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if err := h.Compare(hash, "secret2"); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBcryptHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	if h := NewBcryptHasher(99); h.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d", h.cost)
	}
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d", h.cost)
	}
}

func TestBcryptHasher_CompareCorruptHash(t *testing.T) {
	t.Parallel()

	err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-hash", "x")
	if err == nil || errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("expected a non-credential error, got %v", err)
	}
}

func TestBcryptHasher_CompareDummy(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	if err := h.CompareDummy("anything"); err != nil {
		t.Fatalf("CompareDummy error: %v", err)
	}
	if len(h.dummy) == 0 {
		t.Fatal("dummy hash not prepared")
	}
}

func TestBcryptHasher_CompareDummyReportsGenerationFailure(t *testing.T) {
	orig := generateFromPassword
	t.Cleanup(func() { generateFromPassword = orig })

	calls := 0
	generateFromPassword = func([]byte, int) ([]byte, error) {
		calls++
		return nil, errors.New("no entropy")
	}

	h := NewBcryptHasher(bcrypt.MinCost)
	for i := 0; i < 2; i++ {
		if err := h.CompareDummy("anything"); err == nil {
			t.Fatalf("call %d: expected an error", i)
		}
	}
	if calls != 1 {
		t.Fatalf("generate called %d times, want 1", calls)
	}
}

func TestBcryptHasher_HashRejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := NewBcryptHasher(bcrypt.MinCost).Hash(string(long)); !errors.Is(err, bcrypt.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("empty context must not carry an identity")
	}
	ctx := ContextWithIdentity(context.Background(), ann)
	got, ok := IdentityFromContext(ctx)
	if !ok || got != ann {
		t.Fatalf("got %+v, %v", got, ok)
	}
	if _, ok := IdentityFromContext(ContextWithIdentity(context.Background(), Identity{})); ok {
		t.Fatal("identity without subject must be rejected")
	}
}
