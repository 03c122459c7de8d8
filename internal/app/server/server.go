// Package server wires the HTTP handlers into a chi router.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/app/handler"
	"github.com/atinyakov/shortify/internal/app/service"
	"github.com/atinyakov/shortify/internal/middleware"
)

// Options tunes the handlers.
type Options struct {
	// BaseURL is the externally visible address local links are built from.
	BaseURL string
	// RedirectDelay is how long the redirect page waits before navigating.
	RedirectDelay time.Duration
	// RequestTimeout bounds calls to the shortening and suggestion services.
	RequestTimeout time.Duration
}

// Init builds the router. Every route other than the creation page has at
// least two path segments, so any single-segment path is an alias.
func Init(s service.LinkServiceIface, logger *zap.Logger, o Options) *chi.Mux {
	get := handler.NewGet(s, logger, o.BaseURL, o.RedirectDelay)
	post := handler.NewPost(s, logger, o.BaseURL, o.RequestTimeout)
	del := handler.NewDelete(s, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.WithGzip)

	r.Get("/", get.Home)
	r.Post("/", post.SubmitForm)
	r.Post("/api/delete", del.SubmitForm)
	r.Get("/api/ping", get.Ping)

	r.Post("/api/links", post.CreateJSON)
	r.Get("/api/links", get.List)
	r.Delete("/api/links/{id}", del.ByID)
	r.Post("/api/suggest", post.SuggestJSON)
	r.Get("/api/resolve", get.Resolve)

	r.Get("/{alias}", get.ByAlias)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
