// Package config loads, merges and validates the server configuration.
//
// Sources, from highest to lowest precedence:
//  1. Environment variables, including those loaded from a dotenv file
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The entry point is [GetStructuredConfig].
package config
