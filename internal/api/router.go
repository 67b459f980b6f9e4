package api

import (
	_ "nbprates/docs"
	"nbprates/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/sync", rateHandler.Sync)
		r.Get("/currencies", rateHandler.GetCurrencies)
		r.Get("/charts", rateHandler.GetCharts)
		r.Post("/datasets", rateHandler.LoadDataset)
		r.Get("/datasets/{id}/charts/{kind}", rateHandler.GetChart)
	})
	return router
}
