package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(h.withSession)

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.getServerVersion)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
		})

		// resources require a logged in user; writes require a superuser
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Route("/corporates", newResource("corporates", h.services.Corporates).routes)
			r.Route("/branches", newResource("branches", h.services.Branches).routes)
		})
	})

	h.mountMedia(router)

	return router
}

// mountMedia serves uploaded files under the media URL when it is a local
// path.
func (h *Handler) mountMedia(router chi.Router) {
	if h.services.Files == nil || !strings.HasPrefix(h.mediaURL, "/") {
		return
	}

	prefix := strings.TrimSuffix(h.mediaURL, "/") + "/"
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(h.services.Files.Root())))

	router.Get(prefix+"*", func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			notFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if _, ok := inlineMediaExtensions[strings.ToLower(path.Ext(r.URL.Path))]; !ok {
			w.Header().Set("Content-Disposition", "attachment")
		}
		files.ServeHTTP(w, r)
	})
}

// inlineMediaExtensions are the uploads browsers may display in place.
// Everything else is served as an attachment.
var inlineMediaExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}
