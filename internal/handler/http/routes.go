package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/device-sync/internal/telemetry"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(telemetry.Middleware, h.withTraceID, h.withLogging)

	// routes without authorization
	router.Get("/api/version", h.getServerVersion)

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		// the websocket outlives any request deadline and cannot be compressed
		r.Get("/ws", h.serveWS)

		r.Group(func(r chi.Router) {
			r.Use(withGZip, h.withHashCheck)
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}

			r.Post("/api/devices", h.registerDevice)
			r.Get("/api/devices", h.listDevices)
			r.Delete("/api/devices/{device_id}", h.deactivateDevice)

			r.Post("/api/sync", h.sync)
			r.Post("/api/sync/voice", h.syncVoice)
			r.Post("/api/sync/batch", h.syncBatch)
			r.Get("/api/sync/{domain}/{entity_id}", h.getEntityStates)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
