// Package api exposes the quiz engine and lead capture over HTTP. This is
// the thin endpoint the marketing site posts to; it owns no business logic.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/harborview-realty/neighborhood-cli/internal/refdata"
	"github.com/harborview-realty/neighborhood-cli/internal/scorer"
	"github.com/harborview-realty/neighborhood-cli/internal/store"
)

// NewRouter builds the HTTP handler tree.
func NewRouter(engine *scorer.Engine, data *refdata.Store, leadStore store.Store, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handler{engine: engine, data: data, leads: leadStore}

	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.Questions)
		r.Get("/areas", h.Areas)
		r.Post("/quiz/score", h.Score)
		r.Post("/leads", h.CreateLead)
	})

	return r
}
