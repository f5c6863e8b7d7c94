package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pair(access, refresh string) map[string]any {
	return map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    900,
		"user":          map[string]any{"id": "u1", "email": "jane@example.com", "fullName": "Jane"},
	}
}

func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", 2*time.Second)
}

func TestLogin_StoresSessionAndNotifies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "jane@example.com" || body["password"] != "secret1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusCreated, pair("a1", "r1"))
	})
	c := newTestClient(t, mux)

	var saved models.Session
	c.OnTokens(func(_ context.Context, s models.Session) error { saved = s; return nil })

	resp, err := c.Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)

	want := models.Session{Email: "jane@example.com", AccessToken: "a1", RefreshToken: "r1"}
	assert.Equal(t, want, c.Session())
	assert.Equal(t, want, saved)

	_, err = c.Login(context.Background(), "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProfile_RefreshesOnceOn401(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "reason": "token_expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "email": "jane@example.com", "fullName": "Jane"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		if r.Header.Get("Authorization") != "Bearer r1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, pair("fresh", "r2"))
	})
	c := newTestClient(t, mux)
	c.SetSession(models.Session{Email: "jane@example.com", AccessToken: "stale", RefreshToken: "r1"})

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane", p.FullName)
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, "r2", c.Session().RefreshToken)
}

func TestProfile_GivesUpAfterOneRetry(t *testing.T) {
	var refreshes, calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, pair("a2", "r2"))
	})
	c := newTestClient(t, mux)
	c.SetSession(models.Session{AccessToken: "a1", RefreshToken: "r1"})

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_NotLoggedIn(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestRegister_ConflictIsMapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
	})
	c := newTestClient(t, mux)

	_, err := c.Register(context.Background(), RegisterRequest{Email: "jane@example.com", Password: "secret1", FullName: "Jane"})
	require.ErrorIs(t, err, ErrConflict)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "email already registered", apiErr.Error())
}

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrBadRequest},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusServiceUnavailable, ErrServer},
	}
	for _, tt := range tests {
		err := &APIError{Status: tt.status, Message: "m"}
		if !errors.Is(err, tt.want) {
			t.Fatalf("status %d: want %v", tt.status, tt.want)
		}
	}

	withReason := &APIError{Status: 401, Message: "unauthorized", Reason: "token_expired"}
	assert.Equal(t, "unauthorized (token_expired)", withReason.Error())
}

func TestPing_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestLogout_ForgetsSessionEvenWhenRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	})
	c := newTestClient(t, mux)
	c.SetSession(models.Session{AccessToken: "a", RefreshToken: "r"})

	require.NoError(t, c.Logout(context.Background()))
	assert.True(t, c.Session().Empty())
}

func TestListResumes_EncodesQuery(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /resumes", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{map[string]any{"id": "r1", "title": "Backend"}}, "total": 1, "page": 2, "totalPages": 1})
	})
	c := newTestClient(t, mux)
	c.SetSession(models.Session{AccessToken: "a", RefreshToken: "r"})

	page, err := c.ListResumes(context.Background(), "draft", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "limit=5&page=2&status=draft", gotQuery)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Backend", page.Data[0].Title)
}

func TestDeleteResume_NoContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /resumes/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "r1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)
	c.SetSession(models.Session{AccessToken: "a", RefreshToken: "r"})

	require.NoError(t, c.DeleteResume(context.Background(), "r1"))
	assert.ErrorIs(t, c.DeleteResume(context.Background(), "r9"), ErrNotFound)
}
