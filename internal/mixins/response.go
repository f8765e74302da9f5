package mixins

import (
	"net/http"

	"github.com/MKhiriev/go-admin-mixins/internal/utils"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// Result is the outcome of a mixin operation. A zero Status means 200.
type Result struct {
	Data    any
	Message string
	Status  int
}

// StatusCode returns Status, defaulting to 200.
func (r Result) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// ExtendedJSONResponse writes {"data": data, "message": message} with status,
// or 200 when status is zero.
func ExtendedJSONResponse(w http.ResponseWriter, data any, message string, status int) (int, error) {
	if status == 0 {
		status = http.StatusOK
	}
	return utils.WriteJSON(w, models.Envelope{Data: data, Message: message}, status)
}

// WriteResult writes res as an extended JSON response.
func WriteResult(w http.ResponseWriter, res Result) (int, error) {
	return ExtendedJSONResponse(w, res.Data, res.Message, res.StatusCode())
}
