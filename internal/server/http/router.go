package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router for the whole API.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	guard := NewGuard(d.Tokens, d.Options.CookieName, logger)
	health := NewHealthHandler(d.DB, d.Options.Version, logger)
	authH := NewAuthHandler(d.Auth, d.Avatars, logger, d.Options)
	userH := NewUserHandler(d.Auth, logger)
	resumeH := NewResumeHandler(d.Resumes, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", health.Root)
	r.Get("/healthz", health.Healthz)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/refresh", authH.Refresh)
		r.Post("/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(guard.Middleware)
			r.Patch("/change-password", authH.ChangePassword)
			r.Get("/profile", authH.GetProfile)
			r.Patch("/profile", authH.UpdateProfile)
			r.Post("/profile/avatar", authH.CreateAvatarUpload)
			r.Get("/profile/avatar", authH.GetAvatar)
		})
	})

	r.With(guard.Middleware).Get("/users/{id}", userH.GetUser)

	r.Route("/resumes", func(r chi.Router) {
		r.Use(guard.Middleware)
		r.Post("/", resumeH.Create)
		r.Get("/", resumeH.List)
		r.Get("/search", resumeH.Search)
		r.Get("/{id}", resumeH.Get)
		r.Patch("/{id}", resumeH.Update)
		r.Delete("/{id}", resumeH.Delete)
		r.Patch("/{id}/status/{status}", resumeH.ChangeStatus)
	})

	r.Get("/public/resumes/{id}", resumeH.GetPublic)

	return r
}

// requestLogger writes one structured line per request.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr)
		})
	}
}
