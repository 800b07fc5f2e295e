// Package server runs the HTTP transport and the background workers under a
// single lifetime, and shuts them down gracefully on SIGTERM, SIGINT or
// SIGQUIT.
package server
