package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/imports"
	"github.com/MrJamesThe3rd/tally/internal/http/owner"
	"github.com/MrJamesThe3rd/tally/internal/http/transaction"
)

func New(
	allowedOrigins []string,
	transactionsV1 *transaction.Handler,
	importV1 *imports.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", owner.Header},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(owner.Require)

		r.Route("/transactions", transactionsV1.Routes)

		r.Route("/import", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			importV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
