package store

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// newTestStorages opens a migrated in-memory SQLite database with a media
// root in a temp dir.
func newTestStorages(t *testing.T) *Storages {
	t.Helper()

	log := logger.Nop()
	db, err := NewConnectSQLite(context.Background(), config.DB{DSN: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())

	files, err := NewLocalFileStorage(config.Files{MediaDir: t.TempDir(), MediaURL: "/media/"}, log)
	require.NoError(t, err)

	s, err := newStoragesOnDB(db, files, log)
	require.NoError(t, err)
	return s
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}
