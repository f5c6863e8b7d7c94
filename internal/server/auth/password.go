package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"golang.org/x/crypto/bcrypt"
)

var generateFromPassword = bcrypt.GenerateFromPassword

// BcryptHasher hashes and checks passwords with bcrypt.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
	dummyErr  error
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost
// is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := generateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare returns nil when password matches hash and
// common.ErrInvalidCredentials when it does not.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrInvalidCredentials
	}
	return fmt.Errorf("compare password: %w", err)
}

// CompareDummy burns the same bcrypt work as Compare against a fixed hash.
// Login calls it for unknown emails so response time does not reveal whether
// an account exists. The fixed hash is built once; if that failed the error is
// returned on every call, since no comparable work was done.
func (h *BcryptHasher) CompareDummy(password string) error {
	h.dummyOnce.Do(func() {
		h.dummy, h.dummyErr = generateFromPassword([]byte("resumebuilder-dummy-password"), h.cost)
	})
	if h.dummyErr != nil {
		return fmt.Errorf("prepare dummy hash: %w", h.dummyErr)
	}
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	return nil
}
