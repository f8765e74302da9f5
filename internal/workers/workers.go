package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the configured background workers. A zero cleanup
// interval leaves the session cleaner out.
func NewWorkers(sessions ExpiredSessionDeleter, cfg config.Workers, logger *logger.Logger) *Workers {
	logger.Info().Msg("creating new workers...")

	w := &Workers{}
	if cfg.SessionCleanupInterval > 0 {
		w.workers = append(w.workers, newSessionCleaner(sessions, cfg.SessionCleanupInterval, logger))
	}
	return w
}

// Run starts every worker and blocks until all of them have returned.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}
