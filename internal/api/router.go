// Package api exposes the fake daemon over HTTP.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gstc/gstc/internal/api/handler"
	"github.com/gstc/gstc/internal/api/middleware"
	"github.com/gstc/gstc/internal/service"
	"github.com/gstc/gstc/internal/telemetry"
)

// RouterConfig carries the router's dependencies. Metrics and Gatherer are
// optional; /metrics is served only when Gatherer is set.
type RouterConfig struct {
	Engine   *service.Engine
	Logger   zerolog.Logger
	Metrics  *telemetry.CommandMetrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	// Initialize handlers
	systemHandler := handler.NewSystemHandler(cfg.Engine, cfg.Metrics)
	pipelineHandler := handler.NewPipelineHandler(cfg.Engine, cfg.Metrics)
	elementHandler := handler.NewElementHandler(cfg.Engine, cfg.Metrics)
	busHandler := handler.NewBusHandler(cfg.Engine, cfg.Metrics)

	r.NotFound(systemHandler.NotFound)
	r.MethodNotAllowed(systemHandler.MethodNotAllowed)

	r.Get("/", systemHandler.Root)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/pipelines", func(r chi.Router) {
		r.Get("/", pipelineHandler.ListPipelines)
		r.Post("/", pipelineHandler.CreatePipeline)
		r.Delete("/", pipelineHandler.DeletePipeline)

		r.Route("/{pipeline}", func(r chi.Router) {
			r.Get("/", pipelineHandler.GetPipeline)

			// State and events
			r.Get("/state", pipelineHandler.GetState)
			r.Put("/state", pipelineHandler.SetState)
			r.Post("/event", pipelineHandler.InjectEvent)

			// Elements
			r.Get("/elements", elementHandler.ListElements)
			r.Get("/elements/{element}", elementHandler.GetElement)
			r.Get("/elements/{element}/properties", elementHandler.ListProperties)
			r.Get("/elements/{element}/properties/{property}", elementHandler.GetProperty)
			r.Put("/elements/{element}/properties/{property}", elementHandler.SetProperty)

			// Bus
			r.Get("/bus", busHandler.GetBus)
			r.Get("/bus/message", busHandler.ReadMessage)
			r.Get("/bus/types", busHandler.GetTypes)
			r.Put("/bus/types", busHandler.SetTypes)
			r.Get("/bus/timeout", busHandler.GetTimeout)
			r.Put("/bus/timeout", busHandler.SetTimeout)
		})
	})

	return r
}
