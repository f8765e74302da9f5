package mixins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/MKhiriev/go-admin-mixins/internal/forms"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/internal/utils"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// DefaultMaxMemory is the part of a multipart body kept in memory when
// MaxMemory is not set.
const DefaultMaxMemory = 32 << 20

// ModelFormMixin adds create, update and destroy operations driven by a
// model form.
type ModelFormMixin[T models.Model] struct {
	BaseOperation[T]

	// MaxMemory bounds the in-memory part of parsed multipart bodies.
	MaxMemory int64
}

// Using returns a copy of m operating on repo instead of its configured
// repository.
func (m ModelFormMixin[T]) Using(repo store.ModelRepository[T]) ModelFormMixin[T] {
	m.BaseOperation = m.BaseOperation.Using(repo)
	return m
}

// Data extracts the submitted fields and files of r.
//
// Multipart and URL-encoded bodies come first: a "data" field is decoded as
// a JSON object (undecodable JSON gives no data), otherwise the first value
// of every form field is used. Any other body is decoded as a JSON object,
// and an empty or invalid one gives no data. Files are nil unless the body
// carried uploads.
func (m ModelFormMixin[T]) Data(r *http.Request) (models.Dict, forms.Files) {
	log := logger.FromRequest(r)
	data := models.Dict{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(m.maxMemory()); err != nil {
			log.Err(err).Msg("error parsing multipart body")
			return data, nil
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			log.Err(err).Msg("error parsing form body")
			return data, nil
		}
	}

	var files forms.Files
	if r.MultipartForm != nil && len(r.MultipartForm.File) > 0 {
		files = r.MultipartForm.File
	}

	if len(r.PostForm) > 0 || files != nil {
		if raw := r.PostForm.Get("data"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
				log.Debug().Err(err).Msg("form field \"data\" is not a JSON object")
				return models.Dict{}, files
			}
			return data, files
		}

		for key := range r.PostForm {
			data[key] = r.PostForm.Get(key)
		}
		return data, files
	}

	if err := utils.DecodeJSON(r, &data); err != nil || data == nil {
		if err != nil && !errors.Is(err, utils.ErrEmptyBody) {
			log.Debug().Err(err).Msg("request body is not a JSON object")
		}
		return models.Dict{}, nil
	}
	return data, nil
}

func (m ModelFormMixin[T]) maxMemory() int64 {
	if m.MaxMemory <= 0 {
		return DefaultMaxMemory
	}
	return m.MaxMemory
}

// form returns the configured form factory saving through the resolved
// repository.
func (m ModelFormMixin[T]) form() (*forms.Factory[T], error) {
	if m.Form == nil {
		return nil, ErrNotConfigured
	}
	if m.Repository == nil {
		return m.Form, nil
	}

	factory := *m.Form
	factory.Model = m.Repository
	return &factory, nil
}

// Create validates data and files and stores a new instance.
func (m ModelFormMixin[T]) Create(ctx context.Context, data models.Dict, files forms.Files) Result {
	factory, err := m.form()
	if err != nil {
		return failure(ctx, err)
	}

	return m.save(ctx, factory.Bind(data, files, nil), "created")
}

// Update applies data and files to the instance matching lookups.
func (m ModelFormMixin[T]) Update(ctx context.Context, data models.Dict, files forms.Files, lookups store.Lookups) Result {
	factory, err := m.form()
	if err != nil {
		return failure(ctx, err)
	}

	instance, err := m.GetInstance(ctx, lookups)
	if err != nil {
		return failure(ctx, err)
	}

	return m.save(ctx, factory.Bind(data, files, &instance), "updated")
}

func (m ModelFormMixin[T]) save(ctx context.Context, form *forms.ModelForm[T], verb string) Result {
	if !form.IsValid(ctx) {
		return Result{Message: m.Errors(form), Status: http.StatusBadRequest}
	}

	saved, err := form.Save(ctx)
	if err != nil {
		if errors.Is(err, forms.ErrInvalidForm) {
			return Result{Message: m.Errors(form), Status: http.StatusBadRequest}
		}
		return failure(ctx, err)
	}

	data, err := m.SerializeInstance(saved)
	if err != nil {
		return failure(ctx, err)
	}

	return Result{
		Data:    data,
		Message: fmt.Sprintf("%s %s successfully", saved.VerboseName(), verb),
	}
}

// Destroy deletes the instance matching lookups together with its stored
// files.
func (m ModelFormMixin[T]) Destroy(ctx context.Context, lookups store.Lookups) Result {
	repo, err := m.repository()
	if err != nil {
		return failure(ctx, err)
	}

	instance, err := m.GetInstance(ctx, lookups)
	if err != nil {
		return failure(ctx, err)
	}

	if err = repo.Delete(ctx, instance); err != nil {
		return failure(ctx, err)
	}

	if files := m.files(); files != nil {
		for _, name := range fileNames(repo.Meta(), instance) {
			if err = files.Delete(ctx, name); err != nil {
				logger.FromContext(ctx).Warn().Err(err).Str("file", name).Msg("error removing stored file")
			}
		}
	}

	return Result{Message: fmt.Sprintf("%s deleted successfully", repo.Meta().VerboseName)}
}
