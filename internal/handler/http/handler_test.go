package http

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()
	cfg := config.StructuredConfig{
		Storage: config.Storage{Files: config.Files{MediaURL: "/uploads/"}},
		Server:  config.Server{RequestTimeout: time.Second},
	}

	h := NewHandler(svc, cfg, log)

	require.NotNil(t, h)
	assert.Same(t, svc, h.services)
	assert.Same(t, log, h.logger)
	assert.Equal(t, "/uploads/", h.mediaURL)
	assert.Equal(t, time.Second, h.requestTimeout)
}

func TestInit_WithoutFileStorage(t *testing.T) {
	h := NewHandler(&service.Services{}, config.StructuredConfig{}, logger.Nop())

	assert.NotNil(t, h.Init())
}
