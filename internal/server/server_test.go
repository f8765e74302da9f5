package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/handler"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/service"
	"github.com/MKhiriev/go-admin-mixins/internal/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_NoHandlers(t *testing.T) {
	tests := []struct {
		name     string
		handlers *handler.Handlers
		cfg      config.Server
	}{
		{name: "nil handlers", cfg: config.Server{HTTPAddress: ":8080"}},
		{name: "no HTTP handler", handlers: &handler.Handlers{}, cfg: config.Server{HTTPAddress: ":8080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewServer(tt.handlers, nil, tt.cfg, logger.Nop())

			assert.ErrorIs(t, err, errNoServersAreCreated)
			assert.Nil(t, srv)
		})
	}
}

func TestNewHTTPServer_Timeouts(t *testing.T) {
	srv := newHTTPServer(http.NotFoundHandler(), config.Server{
		HTTPAddress:    "127.0.0.1:0",
		RequestTimeout: 30 * time.Second,
	}, logger.Nop())

	assert.Equal(t, "127.0.0.1:0", srv.server.Addr)
	assert.Equal(t, 35*time.Second, srv.server.WriteTimeout)
	assert.NotZero(t, srv.server.ReadHeaderTimeout)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: "127.0.0.1:0"}}
	handlers, err := handler.NewHandlers(&service.Services{}, cfg, logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, &workers.Workers{}, cfg.Server, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assert.NoError(t, srv.(*server).run(ctx))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServer_RunReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = busy.Close() })

	cfg := config.StructuredConfig{Server: config.Server{HTTPAddress: busy.Addr().String()}}
	handlers, err := handler.NewHandlers(&service.Services{}, cfg, logger.Nop())
	require.NoError(t, err)

	srv, err := NewServer(handlers, &workers.Workers{}, cfg.Server, logger.Nop())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.(*server).run(context.Background())
	}()

	select {
	case err = <-errCh:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server kept running without a listener")
	}
}
