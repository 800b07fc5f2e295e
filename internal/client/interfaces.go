package client

import "context"

// Client defines the contract for runnable command line clients.
type Client interface {
	// Run executes the command named by args[0] and blocks until it is done.
	Run(ctx context.Context, args []string) error
}
