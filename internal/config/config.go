// Package config holds the server configuration. Values are read once
// at startup and threaded into constructors — nothing reads the
// environment after that.
package config

import (
	"os"
	"strings"
)

// Config is the full server configuration.
type Config struct {
	// DisableThoughtLogging suppresses the human-readable rendering of
	// each accepted thought on stderr. It has no effect on returned
	// data, only on the log side-channel.
	DisableThoughtLogging bool
}

// FromEnv reads configuration from the environment.
// DISABLE_THOUGHT_LOGGING=true (case-insensitive) disables the
// side-channel display.
func FromEnv() Config {
	return Config{
		DisableThoughtLogging: strings.EqualFold(os.Getenv("DISABLE_THOUGHT_LOGGING"), "true"),
	}
}
