package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/mixins"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/models"
	"github.com/go-chi/chi/v5"
)

// orderByParam is the query parameter holding comma-separated ordering
// fields. Every other parameter is a lookup.
const orderByParam = "order_by"

// resource exposes a ModelFormMixin as a set of CRUD routes.
type resource[T models.Model] struct {
	name  string
	mixin mixins.ModelFormMixin[T]
}

func newResource[T models.Model](name string, mixin mixins.ModelFormMixin[T]) resource[T] {
	return resource[T]{name: name, mixin: mixin}
}

func (res resource[T]) routes(r chi.Router) {
	r.Use(res.withLogger)

	r.Get("/", res.list)
	r.Get("/exclude", res.exclude)
	r.Get("/{id}", res.detail)

	r.Group(func(r chi.Router) {
		r.Use(requireSuperuser)
		r.Post("/", res.create)
		r.Put("/{id}", res.update)
		r.Patch("/{id}", res.update)
		r.Delete("/{id}", res.destroy)
	})
}

func (res resource[T]) list(w http.ResponseWriter, r *http.Request) {
	lookups, orderBy := lookupsFromQuery(r.URL.Query())
	if len(lookups) == 0 && len(orderBy) == 0 {
		writeResult(w, r, res.mixin.All(r.Context()))
		return
	}
	writeResult(w, r, res.mixin.Filter(r.Context(), lookups, orderBy...))
}

func (res resource[T]) exclude(w http.ResponseWriter, r *http.Request) {
	lookups, _ := lookupsFromQuery(r.URL.Query())
	writeResult(w, r, res.mixin.Exclude(r.Context(), lookups))
}

func (res resource[T]) detail(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, res.mixin.Get(r.Context(), idLookup(r)))
}

func (res resource[T]) create(w http.ResponseWriter, r *http.Request) {
	data, files := res.mixin.Data(r)
	writeResult(w, r, res.mixin.Create(r.Context(), data, files))
}

func (res resource[T]) update(w http.ResponseWriter, r *http.Request) {
	data, files := res.mixin.Data(r)
	writeResult(w, r, res.mixin.Update(r.Context(), data, files, idLookup(r)))
}

func (res resource[T]) destroy(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, res.mixin.Destroy(r.Context(), idLookup(r)))
}

// withLogger tags the request logger with the resource name.
func (res resource[T]) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logger.FromRequest(r).ForResource(res.name)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

func idLookup(r *http.Request) store.Lookups {
	return store.Lookups{"id": chi.URLParam(r, "id")}
}

// lookupsFromQuery turns query parameters into lookups. Only "__in" lookups
// keep repeated values; other parameters use their first value.
func lookupsFromQuery(query url.Values) (store.Lookups, []string) {
	lookups := store.Lookups{}
	var orderBy []string

	for key, values := range query {
		if len(values) == 0 {
			continue
		}

		if key == orderByParam {
			for _, v := range values {
				for _, field := range strings.Split(v, ",") {
					if field = strings.TrimSpace(field); field != "" {
						orderBy = append(orderBy, field)
					}
				}
			}
			continue
		}

		if strings.HasSuffix(key, "__in") && len(values) > 1 {
			lookups[key] = values
			continue
		}
		lookups[key] = values[0]
	}

	return lookups, orderBy
}

// writeResult writes res as the {data, message} envelope.
func writeResult(w http.ResponseWriter, r *http.Request, res mixins.Result) {
	if _, err := mixins.WriteResult(w, res); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

// writeError writes an envelope carrying only message.
func writeError(w http.ResponseWriter, r *http.Request, message string, status int) {
	writeResult(w, r, mixins.Result{Message: message, Status: status})
}
