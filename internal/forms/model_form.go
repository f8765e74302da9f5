package forms

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/internal/validators"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// Files maps form field names to uploaded files, as found in
// multipart.Form.File.
type Files = map[string][]*multipart.FileHeader

var (
	fieldFileType    = reflect.TypeOf(models.FieldFile{})
	defaultValidator = validators.NewStructValidator()
	defaultSanitizer = validators.NewSanitizer()
)

// Factory describes a model form: the model it saves and the fields it
// accepts from clients.
type Factory[T models.Model] struct {
	// Model is the repository bound forms save through.
	Model store.ModelRepository[T]

	// Files stores uploads of FieldFile fields. Required only when the form
	// exposes such a field.
	Files store.FileStorage

	// Validator checks bound instances. Defaults to a
	// [validators.StructValidator].
	Validator validators.Validator

	// Fields lists the JSON names of editable fields. Empty means every
	// column that is not database generated.
	Fields []string

	// Sanitize strips markup from every string input.
	Sanitize bool
}

// Repository returns the repository of the model the form is built for.
func (f *Factory[T]) Repository() store.ModelRepository[T] {
	return f.Model
}

// Bind returns a form over data and files. When instance is not nil the form
// edits a copy of it, otherwise a new zero T.
func (f *Factory[T]) Bind(data models.Dict, files Files, instance *T) *ModelForm[T] {
	form := &ModelForm[T]{
		factory:  f,
		data:     data,
		files:    files,
		errors:   NewErrors(),
		replaced: make(map[string]string),
	}
	if instance != nil {
		form.instance = *instance
	}
	return form
}

func (f *Factory[T]) validator() validators.Validator {
	if f.Validator == nil {
		return defaultValidator
	}
	return f.Validator
}

// fields resolves the editable fields against the model mapping.
func (f *Factory[T]) fields() ([]store.Field, error) {
	meta := f.Model.Meta()

	if len(f.Fields) == 0 {
		out := make([]store.Field, 0, len(meta.Fields))
		for _, field := range meta.Fields {
			if field.Auto || field.JSONName == "" {
				continue
			}
			out = append(out, field)
		}
		return out, nil
	}

	out := make([]store.Field, 0, len(f.Fields))
	for _, name := range f.Fields {
		field, ok := meta.Field(name)
		if !ok || field.Auto || field.JSONName == "" {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, meta.Table, name)
		}
		out = append(out, field)
	}
	return out, nil
}

type upload struct {
	field store.Field
	file  *multipart.FileHeader
}

// ModelForm binds request data onto one model instance.
type ModelForm[T models.Model] struct {
	factory  *Factory[T]
	data     models.Dict
	files    Files
	instance T

	errors    *Errors
	validated bool
	uploads   []upload
	// replaced holds the previous stored file of each re-uploaded field.
	replaced map[string]string
}

// Errors returns the validation errors found by [ModelForm.IsValid].
func (f *ModelForm[T]) Errors() *Errors {
	return f.errors
}

// Instance returns the bound instance. After a successful Save it is the
// stored row.
func (f *ModelForm[T]) Instance() T {
	return f.instance
}

// IsValid binds the form data and reports whether it passed validation.
// Only editable fields present in the data are changed; the others keep the
// values of the edited instance. The result is computed once.
func (f *ModelForm[T]) IsValid(ctx context.Context) bool {
	if f.validated {
		return f.errors.Len() == 0
	}
	f.validated = true

	if f.factory.Model == nil {
		f.errors.Add(NonFieldErrors, ErrNotConfigured.Error())
		return false
	}

	fields, err := f.factory.fields()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "ModelForm.IsValid").Msg("invalid form declaration")
		f.errors.Add(NonFieldErrors, err.Error())
		return false
	}

	v := reflect.ValueOf(&f.instance).Elem()
	found := make(map[string][]string)
	scope := make([]string, 0, len(fields))

	for _, field := range fields {
		scope = append(scope, field.JSONName)

		if field.Type == fieldFileType {
			f.stage(v, field)
			continue
		}

		raw, ok := f.data[field.JSONName]
		if !ok {
			continue
		}
		if s, isString := raw.(string); isString && f.factory.Sanitize {
			raw = defaultSanitizer.Sanitize(s)
		}

		if err = decode(v.Addr().Interface(), map[string]any{field.JSONName: raw}); err != nil {
			msg := invalidValueMessage
			if isInteger(indirect(field.Type)) {
				msg = wholeNumberMessage
			}
			found[field.JSONName] = append(found[field.JSONName], msg)
		}
	}

	err = f.factory.validator().Validate(ctx, f.instance, scope...)
	var fieldErrs validators.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			if _, failed := found[fe.Field]; failed {
				continue
			}
			found[fe.Field] = []string{fe.Message}
		}
	default:
		logger.FromContext(ctx).Err(err).Str("func", "ModelForm.IsValid").Msg("validation failed")
		f.errors.Add(NonFieldErrors, err.Error())
	}

	for _, name := range scope {
		for _, msg := range found[name] {
			f.errors.Add(name, msg)
		}
	}

	return f.errors.Len() == 0
}

// stage records the first upload of a file field. The field temporarily
// holds the client file name so that `required` rules pass; Save replaces it
// with the stored name.
func (f *ModelForm[T]) stage(v reflect.Value, field store.Field) {
	files := f.files[field.JSONName]
	if len(files) == 0 || files[0] == nil {
		return
	}

	current := field.Value(v).Interface().(models.FieldFile)
	if !current.IsZero() {
		f.replaced[field.JSONName] = current.Name
	}

	f.uploads = append(f.uploads, upload{field: field, file: files[0]})
	field.Value(v).Set(reflect.ValueOf(models.FieldFile{Name: files[0].Filename}))
}

// Save stores staged uploads, then inserts a new instance or updates the
// edited one. Files stored by a failed save are removed again, and files
// replaced by a successful update are deleted.
//
// Unique and foreign key violations are reported as non-field errors and
// wrap [ErrInvalidForm].
func (f *ModelForm[T]) Save(ctx context.Context) (T, error) {
	var zero T
	log := logger.FromContext(ctx)

	if !f.IsValid(ctx) {
		return zero, ErrInvalidForm
	}

	repo := f.factory.Model
	meta := repo.Meta()
	v := reflect.ValueOf(&f.instance).Elem()

	stored := make([]string, 0, len(f.uploads))
	for _, u := range f.uploads {
		if f.factory.Files == nil {
			return zero, ErrNoFileStorage
		}

		name, err := f.factory.Files.Save(ctx, meta.Table+"/"+u.field.JSONName, u.file)
		if err != nil {
			f.removeFiles(ctx, stored)
			return zero, fmt.Errorf("error storing %s: %w", u.field.JSONName, err)
		}
		stored = append(stored, name)
		u.field.Value(v).Set(reflect.ValueOf(models.FieldFile{Name: name}))
	}

	var (
		saved T
		err   error
	)
	if meta.PK(f.instance) == 0 {
		saved, err = repo.Create(ctx, f.instance)
	} else {
		saved, err = repo.Update(ctx, f.instance)
	}

	if err != nil {
		f.removeFiles(ctx, stored)

		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			f.errors.Add(NonFieldErrors, fmt.Sprintf("%s with these values already exists.", meta.VerboseName))
			return zero, fmt.Errorf("%w: %w", ErrInvalidForm, err)
		case errors.Is(err, store.ErrInvalidReference):
			f.errors.Add(NonFieldErrors, invalidReferenceMessage)
			return zero, fmt.Errorf("%w: %w", ErrInvalidForm, err)
		}

		log.Err(err).Str("func", "ModelForm.Save").Str("table", meta.Table).Msg("error saving instance")
		return zero, err
	}

	old := make([]string, 0, len(f.replaced))
	for _, name := range f.replaced {
		old = append(old, name)
	}
	f.removeFiles(ctx, old)

	f.instance = saved
	return saved, nil
}

func (f *ModelForm[T]) removeFiles(ctx context.Context, names []string) {
	if f.factory.Files == nil {
		return
	}
	for _, name := range names {
		if err := f.factory.Files.Delete(ctx, name); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("file", name).Msg("error removing stored file")
		}
	}
}
