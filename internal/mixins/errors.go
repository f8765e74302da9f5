package mixins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/internal/forms"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
)

var ErrNotConfigured = errors.New("mixin has neither a repository nor a form")

const (
	defaultErrorMessage  = "An error occurred"
	notConfiguredMessage = "model or form may not be defined at the view level"
)

// NotFoundError reports that no instance matched the lookups of a single
// object query.
type NotFoundError struct {
	VerboseName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found matching these parameters", strings.ToLower(e.VerboseName))
}

func (e *NotFoundError) Unwrap() error {
	return store.ErrNotFound
}

// errorStatuses is checked in order, so an error wrapping several of the
// targets gets the status of the first one listed.
var errorStatuses = []struct {
	target error
	status int
}{
	{forms.ErrInvalidForm, http.StatusBadRequest},
	{store.ErrNotFound, http.StatusNotFound},
	{store.ErrInvalidLookup, http.StatusBadRequest},
	{store.ErrMultipleObjectsReturned, http.StatusBadRequest},
	{store.ErrInvalidReference, http.StatusBadRequest},
	{store.ErrAlreadyExists, http.StatusConflict},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// failure converts err into a result. Client errors keep their message,
// server errors are logged and reported with a generic one.
func failure(ctx context.Context, err error) Result {
	status := statusFromError(err)

	switch {
	case errors.Is(err, ErrNotConfigured):
		return Result{Message: notConfiguredMessage, Status: http.StatusInternalServerError}
	case status == http.StatusInternalServerError:
		logger.FromContext(ctx).Err(err).Msg("mixin operation failed")
		return Result{Message: defaultErrorMessage, Status: status}
	}

	return Result{Message: err.Error(), Status: status}
}

// errorer is implemented by every form.
type errorer interface {
	Errors() *forms.Errors
}

// FirstError returns the first error message of form, or a generic message
// when the form reported none.
func FirstError(form errorer) string {
	if msg := form.Errors().First(); msg != "" {
		return msg
	}
	return defaultErrorMessage
}
