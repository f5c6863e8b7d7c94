package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// Reasons reported in the body of a guard rejection.
const (
	ReasonExpired      = "token_expired"
	ReasonMalformed    = "token_malformed"
	ReasonNotYetValid  = "token_not_yet_valid"
	ReasonUnauthorized = "unauthorized"
)

var errMissingToken = errors.New("no access token in header or cookie")

// Guard admits requests carrying a valid access token, taken from the
// Authorization header or, failing that, from the token cookie.
type Guard struct {
	tokens     TokenVerifier
	cookieName string
	logger     logging.Logger
}

func NewGuard(tokens TokenVerifier, cookieName string, logger logging.Logger) *Guard {
	if cookieName == "" {
		cookieName = common.DefaultTokenCookieName
	}
	return &Guard{tokens: tokens, cookieName: cookieName, logger: logger}
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.authenticate(r)
		if err != nil {
			g.logger.Warn(r.Context(), "request rejected by session guard",
				"request_id", middleware.GetReqID(r.Context()),
				"path", r.URL.Path,
				"error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: ReasonUnauthorized, Reason: reasonFor(err)})
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), claims.Identity())))
	})
}

func (g *Guard) authenticate(r *http.Request) (*auth.Claims, error) {
	raw := r.Header.Get(common.AuthorizationHeaderName)
	if strings.TrimSpace(raw) == "" {
		if c, err := r.Cookie(g.cookieName); err == nil {
			raw = c.Value
		}
	}

	token := normalizeToken(raw)
	if token == "" {
		return nil, errMissingToken
	}
	return g.tokens.Verify(token, auth.PurposeAccess)
}

// normalizeToken accepts "Bearer <t>", a bare "<t>" and URL-encoded forms
// such as "Bearer%20<t>" found in cookies.
func normalizeToken(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.Contains(t, "%") {
		if u, err := url.QueryUnescape(t); err == nil {
			t = strings.TrimSpace(u)
		}
	}
	if len(t) >= len(common.BearerScheme) && strings.EqualFold(t[:len(common.BearerScheme)], common.BearerScheme) {
		t = t[len(common.BearerScheme):]
	}
	return strings.TrimSpace(t)
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, common.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, common.ErrTokenNotYetValid):
		return ReasonNotYetValid
	default:
		return ReasonUnauthorized
	}
}

// bearerToken extracts a token from the Authorization header only.
func bearerToken(r *http.Request) string {
	return normalizeToken(r.Header.Get(common.AuthorizationHeaderName))
}
