package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// Storages groups the database handle, one repository per model and the
// media file storage.
type Storages struct {
	DB *DB

	Users      *Repository[models.User]
	Sessions   *Repository[models.Session]
	Corporates *Repository[models.Corporate]
	Branches   *Repository[models.Branch]

	Files FileStorage
}

// NewStorages connects to the configured database, applies migrations and
// builds every repository.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	files, err := NewLocalFileStorage(cfg.Files, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	storages, err := newStoragesOnDB(db, files, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return storages, nil
}

func newStoragesOnDB(db *DB, files FileStorage, log *logger.Logger) (*Storages, error) {
	users, err := NewRepository[models.User](db, log)
	if err != nil {
		return nil, err
	}
	sessions, err := NewRepository[models.Session](db, log)
	if err != nil {
		return nil, err
	}
	corporates, err := NewRepository[models.Corporate](db, log)
	if err != nil {
		return nil, err
	}
	branches, err := NewRepository[models.Branch](db, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		DB:         db,
		Users:      users,
		Sessions:   sessions,
		Corporates: corporates,
		Branches:   branches,
		Files:      files,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s == nil || s.DB == nil {
		return errors.New("storages are not initialised")
	}
	return s.DB.Close()
}
