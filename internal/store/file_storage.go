package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/utils"
)

// FileStorage persists uploaded files and resolves their public URLs.
type FileStorage interface {
	// Save stores the upload under a new unique name in the directory of
	// field and returns that name.
	Save(ctx context.Context, field string, file *multipart.FileHeader) (string, error)
	// URL returns the public URL of a stored name. An empty name yields an
	// empty URL.
	URL(name string) string
	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error
	// Root returns the directory files are stored in.
	Root() string
}

// localFileStorage stores uploads on the local filesystem below root.
type localFileStorage struct {
	root    string
	baseURL string
	uuid    *utils.UUIDGenerator
}

// NewLocalFileStorage creates root if needed and returns a [FileStorage]
// writing below it and serving names under baseURL.
func NewLocalFileStorage(cfg config.Files, log *logger.Logger) (FileStorage, error) {
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		log.Err(err).Str("func", "NewLocalFileStorage").Msg("error creating media directory")
		return nil, fmt.Errorf("error creating media directory: %w", err)
	}

	baseURL := cfg.MediaURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &localFileStorage{
		root:    cfg.MediaDir,
		baseURL: baseURL,
		uuid:    utils.NewUUIDGenerator(),
	}, nil
}

func (s *localFileStorage) Root() string {
	return s.root
}

func (s *localFileStorage) Save(ctx context.Context, field string, file *multipart.FileHeader) (string, error) {
	log := logger.FromContext(ctx)

	src, err := file.Open()
	if err != nil {
		log.Err(err).Str("func", "localFileStorage.Save").Msg("error opening upload")
		return "", fmt.Errorf("error opening upload: %w", err)
	}
	defer src.Close()

	name := path.Join(field, s.uuid.Generate()+strings.ToLower(filepath.Ext(file.Filename)))
	full, err := s.path(name)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		log.Err(err).Str("func", "localFileStorage.Save").Msg("error creating upload directory")
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	dst, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		log.Err(err).Str("func", "localFileStorage.Save").Msg("error creating file")
		return "", fmt.Errorf("error creating file: %w", err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(full)
		log.Err(err).Str("func", "localFileStorage.Save").Msg("error writing file")
		return "", fmt.Errorf("error writing file: %w", err)
	}

	if err = dst.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("error closing file: %w", err)
	}

	log.Debug().Str("file", name).Int64("size", file.Size).Msg("stored upload")
	return name, nil
}

func (s *localFileStorage) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.baseURL + strings.TrimPrefix(name, "/")
}

func (s *localFileStorage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}

	full, err := s.path(name)
	if err != nil {
		return err
	}

	if err = os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Err(err).Str("func", "localFileStorage.Delete").Str("file", name).Msg("error removing file")
		return fmt.Errorf("error removing file: %w", err)
	}
	return nil
}

// path maps a stored name to a filesystem path, rejecting names that would
// leave root.
func (s *localFileStorage) path(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
