package api

import (
	"net/http"

	_ "fxconvert/docs"
	"fxconvert/internal/converter/handler"
	"fxconvert/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

// NewRouter mounts the API. A non-nil assets handler serves every path the API
// does not claim.
func NewRouter(converterHandler *handler.Handler, m *metrics.Metrics, assets http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(instrument(m))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Handle("/metrics", m.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", converterHandler.Convert)
		r.Get("/view", converterHandler.GetView)
		r.Get("/status", converterHandler.GetStatus)
		r.Post("/rates/refresh", converterHandler.RefreshRates)
		r.Post("/connectivity", converterHandler.SetConnectivity)
		r.Get("/currencies", converterHandler.GetCurrencies)
		r.Get("/settings", converterHandler.GetSettings)
		r.Put("/settings", converterHandler.UpdateSettings)
	})

	if assets != nil {
		router.Handle("/*", assets)
	}
	return router
}
