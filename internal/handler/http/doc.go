// Package http implements the HTTP transport layer of the admin API.
//
// It wires the auth endpoints and one set of CRUD routes per configured
// resource onto a chi router. Request tracing, access logging, response
// compression and session resolution are handled here before requests reach
// the mixins.
package http
