package http

import (
	"net/http"

	"github.com/MKhiriev/go-admin-mixins/internal/mixins"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	buildInfo := h.services.AppInfoService.GetBuildInfo(r.Context())

	writeResult(w, r, mixins.Result{Data: buildInfo})
}
