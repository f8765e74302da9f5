package mixins

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-admin-mixins/internal/forms"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, filename := range files {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + filename))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func TestModelFormMixin_Data(t *testing.T) {
	var m ModelFormMixin[models.Corporate]

	tests := []struct {
		name      string
		request   func(t *testing.T) *http.Request
		want      models.Dict
		wantFiles []string
	}{
		{
			name: "json body",
			request: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme","is_active":true}`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			want: models.Dict{"name": "Acme", "is_active": true},
		},
		{
			name: "json body without content type",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))
			},
			want: models.Dict{"name": "Acme"},
		},
		{
			name: "empty body",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", nil)
			},
			want: models.Dict{},
		},
		{
			name: "invalid json",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
			},
			want: models.Dict{},
		},
		{
			name: "json array",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`))
			},
			want: models.Dict{},
		},
		{
			name: "url encoded form",
			request: func(t *testing.T) *http.Request {
				form := url.Values{"name": {"Acme", "ignored"}, "is_active": {"on"}}
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			want: models.Dict{"name": "Acme", "is_active": "on"},
		},
		{
			name: "multipart with json data field",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"data": `{"name":"Acme","tax_number":"1000000001"}`, "name": "ignored"}, map[string]string{"logo": "logo.png"})
			},
			want:      models.Dict{"name": "Acme", "tax_number": "1000000001"},
			wantFiles: []string{"logo"},
		},
		{
			name: "multipart with invalid data field",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"data": `not json`}, nil)
			},
			want: models.Dict{},
		},
		{
			name: "multipart without data field",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, map[string]string{"name": "Acme"}, nil)
			},
			want: models.Dict{"name": "Acme"},
		},
		{
			name: "multipart with files only",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, nil, map[string]string{"logo": "logo.png"})
			},
			want:      models.Dict{},
			wantFiles: []string{"logo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, files := m.Data(tt.request(t))

			assert.Equal(t, tt.want, data)
			if tt.wantFiles == nil {
				assert.Nil(t, files)
				return
			}
			for _, name := range tt.wantFiles {
				assert.Len(t, files[name], 1)
			}
		})
	}
}

func TestModelFormMixin_Create(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	m := ModelFormMixin[models.Corporate]{BaseOperation: BaseOperation[models.Corporate]{
		Form:           corporateForm(s),
		IncludedFields: []string{"id", "name"},
	}}

	res := m.Create(ctx, models.Dict{"name": "Acme", "tax_number": "1000000001"}, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode())
	assert.Equal(t, "Corporate created successfully", res.Message)
	assert.Equal(t, "Acme", res.Data.(models.Dict)["name"])

	count, err := s.Corporates.Objects().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	res = m.Create(ctx, models.Dict{"name": "Acme"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
	assert.Equal(t, "This field is required.", res.Message)
	assert.Nil(t, res.Data)

	res = m.Create(ctx, models.Dict{"name": "Copy", "tax_number": "1000000001"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
	assert.Equal(t, "Corporate with these values already exists.", res.Message)
}

func TestModelFormMixin_CreateWithoutForm(t *testing.T) {
	s := newTestStorages(t)
	m := ModelFormMixin[models.Corporate]{BaseOperation: BaseOperation[models.Corporate]{Repository: s.Corporates}}

	res := m.Create(context.Background(), models.Dict{"name": "Acme"}, nil)

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode())
	assert.Equal(t, "model or form may not be defined at the view level", res.Message)
}

func TestModelFormMixin_CreateUsingOtherRepository(t *testing.T) {
	first := newTestStorages(t)
	second := newTestStorages(t)
	ctx := context.Background()

	m := ModelFormMixin[models.Corporate]{BaseOperation: BaseOperation[models.Corporate]{Form: corporateForm(first)}}
	res := m.Using(second.Corporates).Create(ctx, models.Dict{"name": "Acme", "tax_number": "1000000001"}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode(), res.Message)

	n, err := first.Corporates.Objects().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = second.Corporates.Objects().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestModelFormMixin_Update(t *testing.T) {
	s := newTestStorages(t)
	corps := seedCorporates(t, s)
	ctx := context.Background()
	m := ModelFormMixin[models.Corporate]{BaseOperation: BaseOperation[models.Corporate]{Form: corporateForm(s)}}

	res := m.Update(ctx, models.Dict{"name": "Acme Ltd"}, nil, store.Lookups{"id": corps[0].ID})
	assert.Equal(t, http.StatusOK, res.StatusCode(), res.Message)
	assert.Equal(t, "Corporate updated successfully", res.Message)

	got, err := s.Corporates.Objects().Filter(store.Lookups{"id": corps[0].ID}).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)
	assert.Equal(t, corps[0].TaxNumber, got.TaxNumber)

	res = m.Update(ctx, models.Dict{"name": "Ghost"}, nil, store.Lookups{"id": 999})
	assert.Equal(t, http.StatusNotFound, res.StatusCode())
	assert.Equal(t, "no corporate found matching these parameters", res.Message)

	res = m.Update(ctx, models.Dict{"website": "nope"}, nil, store.Lookups{"id": corps[1].ID})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
	assert.Equal(t, "Enter a valid URL.", res.Message)
}

func TestModelFormMixin_Destroy(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	m := ModelFormMixin[models.Corporate]{BaseOperation: BaseOperation[models.Corporate]{Form: corporateForm(s)}}

	r := multipartRequest(t, map[string]string{"name": "Acme", "tax_number": "1000000001"}, map[string]string{"logo": "logo.png"})
	data, files := m.Data(r)
	res := m.Create(ctx, data, files)
	require.Equal(t, http.StatusOK, res.StatusCode(), res.Message)

	created, err := s.Corporates.Objects().Get(ctx)
	require.NoError(t, err)
	require.False(t, created.Logo.IsZero())
	stored := filepath.Join(s.Files.Root(), filepath.FromSlash(created.Logo.Name))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	res = m.Destroy(ctx, store.Lookups{"id": created.ID})
	assert.Equal(t, http.StatusOK, res.StatusCode())
	assert.Equal(t, "Corporate deleted successfully", res.Message)

	_, err = os.Stat(stored)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	res = m.Destroy(ctx, store.Lookups{"id": created.ID})
	assert.Equal(t, http.StatusNotFound, res.StatusCode())
}

func TestModelFormMixin_DestroyNotConfigured(t *testing.T) {
	var m ModelFormMixin[models.Branch]

	res := m.Destroy(context.Background(), store.Lookups{"id": 1})

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode())
}

func TestModelFormMixin_FormWithoutRepositoryOverride(t *testing.T) {
	s := newTestStorages(t)
	form := corporateForm(s)
	m := ModelFormMixin[models.Corporate]{BaseOperation: BaseOperation[models.Corporate]{Form: form}}

	factory, err := m.form()
	require.NoError(t, err)
	assert.Same(t, form, factory)

	factory, err = m.Using(s.Corporates).form()
	require.NoError(t, err)
	assert.NotSame(t, form, factory)
	assert.Equal(t, s.Corporates, factory.Model)
}

func TestModelFormMixin_CreateRejectsFractionalForeignKey(t *testing.T) {
	s := newTestStorages(t)
	corps := seedCorporates(t, s)
	ctx := context.Background()

	m := ModelFormMixin[models.Branch]{BaseOperation: BaseOperation[models.Branch]{
		Form: &forms.Factory[models.Branch]{Model: s.Branches, Fields: []string{"corporate_id", "name", "city"}},
	}}

	res := m.Create(ctx, models.Dict{"corporate_id": float64(corps[0].ID) + 0.9, "name": "HQ", "city": "Izmir"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
	assert.Equal(t, "Enter a whole number.", res.Message)

	n, err := s.Branches.Objects().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
