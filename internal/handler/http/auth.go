package http

import (
	"net/http"

	"github.com/MKhiriev/go-admin-mixins/internal/mixins"
	"github.com/MKhiriev/go-admin-mixins/internal/utils"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.services.Auth.LoginProcess(w, r))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.services.Auth.LogoutProcess(w, r))
}

// me describes the user the request is authenticated as, or an anonymous
// visitor.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, _ := utils.GetUserFromContext(r.Context())
	writeResult(w, r, mixins.Result{Data: h.services.Auth.UserData(user)})
}
