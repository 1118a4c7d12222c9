package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/secondbrain/secondbrain-go/internal/middleware"
)

// RouterDeps collects what NewRouter mounts.
type RouterDeps struct {
	Auth        *AuthHandler
	Content     *ContentHandler
	Share       *ShareHandler
	Verifier    middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
}

// NewRouter builds the HTTP surface under /api/v1/user.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("second brain api"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(d.RateLimiter.Handler)
			r.Post("/signup", d.Auth.HandleSignup)
			r.Post("/signin", d.Auth.HandleSignin)
			r.Get("/brain/{shareLink}", d.Content.HandlePublicBrain)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Verifier))
			r.Get("/me", d.Auth.HandleMe)

			r.Post("/create-content", d.Content.HandleCreate)
			r.Get("/get-contents", d.Content.HandleList)
			r.Delete("/delete-content", d.Content.HandleDelete)
			r.Post("/update-content-status", d.Content.HandleUpdateStatus)
			r.Get("/content-counts", d.Content.HandleCounts)

			r.Post("/share-brain", d.Share.HandleShare)
			r.Get("/share-brain", d.Share.HandleStatus)
		})
	})

	return r
}
