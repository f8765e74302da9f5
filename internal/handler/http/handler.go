package http

import (
	"time"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/service"
)

type Handler struct {
	services *service.Services

	// mediaURL is the path prefix uploaded files are served under.
	mediaURL string

	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		mediaURL:       cfg.Storage.Files.MediaURL,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
