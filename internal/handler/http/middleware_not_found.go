// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
)

// notFound is registered as the router's NotFound handler so that unknown
// paths answer with the same {data, message} envelope as every endpoint.
func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, notFoundMessage, http.StatusNotFound)
}

// methodNotAllowed is registered as the router's MethodNotAllowed handler.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, methodNotAllowedMessage, http.StatusMethodNotAllowed)
}
