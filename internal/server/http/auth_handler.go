package http

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/auth"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/dmitrijs2005/resumebuilder/internal/server/services"
)

type AuthHandler struct {
	service AuthService
	avatars AvatarService
	logger  logging.Logger
	opts    Options
}

func NewAuthHandler(service AuthService, avatars AvatarService, logger logging.Logger, opts Options) *AuthHandler {
	if opts.CookieName == "" {
		opts.CookieName = common.DefaultTokenCookieName
	}
	return &AuthHandler{service: service, avatars: avatars, logger: logger, opts: opts}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.setAccessTokenCookie(w, res.AccessToken)
	writeJSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.setAccessTokenCookie(w, res.AccessToken)
	writeJSON(w, http.StatusCreated, res)
}

// Refresh takes the refresh token from the Authorization header, or from a
// {"refresh_token": "..."} body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshToken(w, r)
	if token == "" {
		writeError(w, r, h.logger, common.ErrInvalidToken)
		return
	}

	res, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.expireAccessTokenCookie(w)
		writeError(w, r, h.logger, err)
		return
	}

	h.setAccessTokenCookie(w, res.AccessToken)
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.expireAccessTokenCookie(w)

	token := h.refreshToken(w, r)
	if token == "" {
		writeError(w, r, h.logger, common.ErrInvalidToken)
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) string {
	if t := bearerToken(r); t != "" {
		return t
	}
	if r.ContentLength == 0 {
		return ""
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	var req services.ChangePasswordInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	msg, err := h.service.ChangePassword(r.Context(), id.UserID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	p, err := h.service.GetProfile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	var patch models.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), id.UserID, patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AuthHandler) CreateAvatarUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	up, err := h.avatars.CreateUpload(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (h *AuthHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	u, err := h.avatars.DownloadURL(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	http.Redirect(w, r, u, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.opts.CookieMaxAge.Seconds()),
	})
}

func (h *AuthHandler) expireAccessTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: h.opts.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: h.opts.CookieSecure})
}

// identity returns the caller set by the guard, answering 401 when absent.
func identity(w http.ResponseWriter, r *http.Request, logger logging.Logger) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, logger, common.ErrorUnauthorized)
	}
	return id, ok
}
