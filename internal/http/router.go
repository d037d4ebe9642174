package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/backoffice/internal/http/directory"
	"github.com/MrJamesThe3rd/backoffice/internal/http/importcsv"
	"github.com/MrJamesThe3rd/backoffice/internal/http/invoice"
)

type Options struct {
	AllowedOrigins []string
	// Timeout cancels the request context of slow handlers.
	Timeout time.Duration
}

func New(
	opts Options,
	invoicesV1 *invoice.Handler,
	importV1 *importcsv.Handler,
	directoryV1 *directory.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Location", "Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/invoices", func(r chi.Router) {
			r.Route("/import", importV1.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				invoicesV1.Routes(r)
			})
		})

		r.Route("/directory", directoryV1.Routes)
	})

	return router
}
