package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/client/models"
	"github.com/dmitrijs2005/resumebuilder/internal/common"
)

// HTTPClient talks to the REST API. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu       sync.Mutex
	session  models.Session
	onTokens func(ctx context.Context, s models.Session) error
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetSession(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *HTTPClient) Session() models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// OnTokens registers fn to be called whenever a new pair is received,
// including the silent refresh.
func (c *HTTPClient) OnTokens(fn func(ctx context.Context, s models.Session) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokens = fn
}

func (c *HTTPClient) store(ctx context.Context, resp *models.AuthResponse) error {
	c.mu.Lock()
	s := models.Session{
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if s.Email == "" {
		s.Email = c.session.Email
	}
	c.session = s
	fn := c.onTokens
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, s)
	}
	return nil
}

type authMode int

const (
	authNone authMode = iota
	authAccess
	authRefresh
)

// do sends one request. An authAccess call answered 401 is retried once after
// a refresh.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, mode authMode) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	status, err := c.send(ctx, method, path, payload, out, mode)
	if err == nil || mode != authAccess || status != http.StatusUnauthorized {
		return err
	}
	if c.Session().RefreshToken == "" {
		return err
	}
	if _, rerr := c.Refresh(ctx); rerr != nil {
		return err
	}

	_, err = c.send(ctx, method, path, payload, out, mode)
	return err
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte, out any, mode authMode) (int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	s := c.Session()
	switch mode {
	case authAccess:
		if s.AccessToken == "" && s.RefreshToken == "" {
			return 0, ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+s.AccessToken)
	case authRefresh:
		if s.RefreshToken == "" {
			return 0, ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+s.RefreshToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp.StatusCode, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Reason = body.Reason
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func (c *HTTPClient) Register(ctx context.Context, r RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", r, &resp, authNone); err != nil {
		return nil, err
	}
	if err := c.store(ctx, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, authNone); err != nil {
		return nil, err
	}
	if err := c.store(ctx, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh trades the stored refresh token for a new pair. The old refresh
// token is dead afterwards.
func (c *HTTPClient) Refresh(ctx context.Context) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if _, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, &resp, authRefresh); err != nil {
		return nil, err
	}
	if err := c.store(ctx, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the refresh token server side and forgets the session even
// when the server refuses it.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, nil, authRefresh)
	c.SetSession(models.Session{})
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, authNone)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &p, authAccess); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, r ChangePasswordRequest) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPatch, "/auth/change-password", r, &resp, authAccess); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) ListResumes(ctx context.Context, status string, page, limit int) (*models.ResumePage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/resumes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var p models.ResumePage
	if err := c.do(ctx, http.MethodGet, path, nil, &p, authAccess); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	var r models.Resume
	if err := c.do(ctx, http.MethodGet, "/resumes/"+url.PathEscape(id), nil, &r, authAccess); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) CreateResume(ctx context.Context, req CreateResumeRequest) (*models.Resume, error) {
	var r models.Resume
	if err := c.do(ctx, http.MethodPost, "/resumes", req, &r, authAccess); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) ChangeStatus(ctx context.Context, id, status string) (*models.Resume, error) {
	path := "/resumes/" + url.PathEscape(id) + "/status/" + url.PathEscape(status)

	var r models.Resume
	if err := c.do(ctx, http.MethodPatch, path, nil, &r, authAccess); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) DeleteResume(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resumes/"+url.PathEscape(id), nil, nil, authAccess)
}

func (c *HTTPClient) PublicResume(ctx context.Context, id string) (*models.Resume, error) {
	var r models.Resume
	if err := c.do(ctx, http.MethodGet, "/public/resumes/"+url.PathEscape(id), nil, &r, authNone); err != nil {
		return nil, err
	}
	return &r, nil
}
