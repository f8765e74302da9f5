// Package server wires and runs the admin HTTP server.
//
// It provides startup, signal handling and graceful shutdown of the server
// together with the background workers started alongside it.
package server
