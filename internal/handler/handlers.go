package handler

import (
	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/handler/http"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/notify"
	"github.com/MKhiriev/device-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, hub *notify.Hub, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, hub, cfg.Server, cfg.App, logger),
	}, nil
}
