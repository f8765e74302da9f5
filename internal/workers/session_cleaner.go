package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
)

// sessionCleaner periodically deletes expired login sessions.
type sessionCleaner struct {
	sessions ExpiredSessionDeleter
	interval time.Duration
	logger   *logger.Logger
}

func newSessionCleaner(sessions ExpiredSessionDeleter, interval time.Duration, log *logger.Logger) *sessionCleaner {
	l := log.GetChildLogger()
	l.Logger = l.With().Str("worker", "session-cleaner").Logger()

	return &sessionCleaner{
		sessions: sessions,
		interval: interval,
		logger:   l,
	}
}

// Run cleans once immediately and then on every tick until ctx is done.
func (c *sessionCleaner) Run(ctx context.Context) {
	c.logger.Info().Dur("interval", c.interval).Msg("session cleaner started")

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.clean(c.logger.WithContext(ctx))

		select {
		case <-ctx.Done():
			c.logger.Info().Msg("session cleaner stopped")
			return
		case <-ticker.C:
		}
	}
}

func (c *sessionCleaner) clean(ctx context.Context) {
	deleted, err := c.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		c.logger.Err(err).Msg("error deleting expired sessions")
		return
	}
	if deleted > 0 {
		c.logger.Info().Int64("deleted", deleted).Msg("expired sessions deleted")
	}
}
