package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTokens(t *testing.T, c *clock, access string) *auth.TokenService {
	t.Helper()
	s, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  []byte(access),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}, auth.WithClock(c.now))
	require.NoError(t, err)
	return s
}

// echoIdentity writes the guard-provided identity back as JSON.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	writeJSON(w, http.StatusOK, id)
})

func guardResponse(t *testing.T, g *Guard, req *http.Request) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	g.Middleware(echoIdentity).ServeHTTP(rec, req)

	var body errorResponse
	if rec.Code == http.StatusUnauthorized {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGuard(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	tokens := newTokens(t, c, "access-secret")
	g := NewGuard(tokens, "token", logging.Nop{})

	pair, err := tokens.IssuePair(auth.Identity{UserID: "u-1", Email: "a@x.com", FullName: "Ann"})
	require.NoError(t, err)

	other := newTokens(t, c, "other-secret")
	forged, err := other.IssuePair(auth.Identity{UserID: "u-1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantReason string
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, ReasonUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.AccessToken) }, http.StatusOK, ""},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer   "+pair.AccessToken) }, http.StatusOK, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: pair.AccessToken}) }, http.StatusOK, ""},
		{"encoded cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: url.PathEscape("Bearer " + pair.AccessToken)})
		}, http.StatusOK, ""},
		{"malformed", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }, http.StatusUnauthorized, ReasonMalformed},
		{"wrong secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forged.AccessToken) }, http.StatusUnauthorized, ReasonUnauthorized},
		{"refresh token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.RefreshToken) }, http.StatusUnauthorized, ReasonUnauthorized},
		{"bare scheme", func(r *http.Request) { r.Header.Set("Authorization", "Bearer") }, http.StatusUnauthorized, ReasonUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
			tt.setup(req)

			rec, body := guardResponse(t, g, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "unauthorized", body.Error)
				assert.Equal(t, tt.wantReason, body.Reason)
				return
			}
			var id auth.Identity
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
			assert.Equal(t, "u-1", id.UserID)
			assert.Equal(t, "a@x.com", id.Email)
		})
	}
}

func TestGuard_ExpiredAndNotYetValid(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	tokens := newTokens(t, c, "access-secret")
	g := NewGuard(tokens, "", logging.Nop{})

	pair, err := tokens.IssuePair(auth.Identity{UserID: "u-1"})
	require.NoError(t, err)

	c.t = c.t.Add(time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec, body := guardResponse(t, g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ReasonExpired, body.Reason)

	c.t = c.t.Add(-2 * time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: pair.AccessToken})
	rec, body = guardResponse(t, g, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ReasonNotYetValid, body.Reason)
}

func TestNormalizeToken(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"abc":             "abc",
		"Bearer abc":      "abc",
		"BEARER abc ":     "abc",
		"Bearer%20abc":    "abc",
		"  bearer\tabc":   "abc",
		"Bearer":          "",
		"eyJhbGciOi.x.y":  "eyJhbGciOi.x.y",
		"Bearer%2Xbroken": "%2Xbroken",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeToken(in), "input %q", in)
	}
}
