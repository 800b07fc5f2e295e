package server

// Server is the lifecycle contract of the process.
type Server interface {
	// RunServer serves until a stop signal arrives or a component fails,
	// then shuts everything down.
	RunServer() error
}
