package server

// Server is the lifecycle contract of the admin server.
type Server interface {
	// RunServer serves requests and runs the background workers until
	// SIGTERM, SIGINT or SIGQUIT is received, then shuts down gracefully.
	// It returns an error when the listener fails.
	RunServer() error

	// Shutdown stops accepting requests and waits for in-flight ones.
	Shutdown()
}
