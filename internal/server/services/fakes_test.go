package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/dbx"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	resumesrepo "github.com/dmitrijs2005/resumebuilder/internal/server/repositories/resumes"
	revokedrepo "github.com/dmitrijs2005/resumebuilder/internal/server/repositories/revokedtokens"
	usersrepo "github.com/dmitrijs2005/resumebuilder/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	err   error
	touch error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, p models.ProfilePatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.SocialLinks != nil {
		u.SocialLinks = *p.SocialLinks
	}
	if p.ProfileImage != nil {
		u.ProfileImage = p.ProfileImage
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touch != nil {
		return f.touch
	}
	if u, ok := f.byID[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type fakeRevokedRepo struct {
	mu             sync.Mutex
	revoked        map[string]time.Time
	purged         int
	purgeErr       error
	lookupErr      error
	hideFromLookup bool
}

func newFakeRevokedRepo() *fakeRevokedRepo {
	return &fakeRevokedRepo{revoked: map[string]time.Time{}}
}

func (f *fakeRevokedRepo) Revoke(ctx context.Context, jti, userID string, exp time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.revoked[jti]; ok {
		return false, nil
	}
	f.revoked[jti] = exp
	return true, nil
}

func (f *fakeRevokedRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	if f.hideFromLookup {
		return false, nil
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

func (f *fakeRevokedRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	f.purged++
	var n int64
	for jti, exp := range f.revoked {
		if exp.Before(now) {
			delete(f.revoked, jti)
			n++
		}
	}
	return n, nil
}

type fakeResumesRepo struct {
	created *models.Resume
	filter  models.ResumeFilter
	query   string
	patch   models.ResumePatch
	total   int
	list    []*models.Resume
	out     *models.Resume
	err     error
	deleted string
}

func (f *fakeResumesRepo) Create(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = r
	return r, nil
}

func (f *fakeResumesRepo) List(ctx context.Context, userID string, filter models.ResumeFilter) ([]*models.Resume, int, error) {
	f.filter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.list, f.total, nil
}

func (f *fakeResumesRepo) Search(ctx context.Context, userID string, q string) ([]*models.Resume, error) {
	f.query = q
	return f.list, f.err
}

func (f *fakeResumesRepo) View(ctx context.Context, userID, id string) (*models.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeResumesRepo) ViewPublic(ctx context.Context, id string) (*models.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeResumesRepo) Update(ctx context.Context, userID, id string, p models.ResumePatch) (*models.Resume, error) {
	f.patch = p
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeResumesRepo) SoftDelete(ctx context.Context, userID, id string) error {
	f.deleted = id
	return f.err
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeResumesRepo
	t *fakeRevokedRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Resumes(db dbx.DBTX) resumesrepo.Repository       { return m.r }
func (m *fakeRepoManager) RevokedTokens(db dbx.DBTX) revokedrepo.Repository { return m.t }

type failingDummyHasher struct {
	PasswordHasher
}

func (failingDummyHasher) CompareDummy(string) error { return errBoom{} }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
