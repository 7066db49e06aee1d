// Package api assembles the HTTP surface of the vlog platform.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hszk-dev/govlog/internal/api/handler"
	"github.com/hszk-dev/govlog/internal/api/middleware"
)

// Handlers groups the resource handlers mounted under /v1.
type Handlers struct {
	Vlogs    *handler.VlogHandler
	Media    *handler.MediaHandler
	Comments *handler.CommentHandler
	Likes    *handler.LikeHandler
	Auth     *handler.AuthHandler
	Ready    http.Handler
}

// NewRouter builds the chi router. Reads are public; every mutation requires a
// signed-in caller, and the services decide whether that caller is allowed.
func NewRouter(logger *slog.Logger, resolver middleware.CallerResolver, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	if h.Ready != nil {
		r.Method(http.MethodGet, "/ready", h.Ready)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(resolver))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/vlogs", func(r chi.Router) {
			r.Get("/", h.Vlogs.List)
			r.Get("/{vlogID}", h.Vlogs.Get)
			r.Get("/{vlogID}/like", h.Likes.Status)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Post("/", h.Vlogs.Create)
				r.Patch("/{vlogID}", h.Vlogs.Update)
				r.Delete("/{vlogID}", h.Vlogs.Delete)

				r.Post("/{vlogID}/media/{kind}", h.Media.Attach)
				r.Patch("/{vlogID}/media/{kind}/{mediaID}", h.Media.Replace)
				r.Delete("/{vlogID}/media/{kind}/{mediaID}", h.Media.Detach)

				r.Post("/{vlogID}/comments", h.Comments.Post)
				r.Patch("/{vlogID}/comments/{commentID}", h.Comments.Update)
				r.Delete("/{vlogID}/comments/{commentID}", h.Comments.Delete)

				r.Post("/{vlogID}/like", h.Likes.Like)
				r.Delete("/{vlogID}/like", h.Likes.Unlike)
			})
		})
	})

	return r
}
