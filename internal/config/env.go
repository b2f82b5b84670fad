// Package config holds the game tunables and the helpers that load them.
package config

import (
	"os"
	"strings"
)

// PathEnv names the variable the binaries read the config file path from.
const PathEnv = "SHARDFALL_CONFIG"

// GetEnv returns the trimmed value of the environment variable named by key.
// Unset and blank variables both yield fallback, so an empty entry in a
// container env file does not wipe a default.
func GetEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// LoadFromEnv loads the config file named by PathEnv, or the defaults when it
// is unset.
func LoadFromEnv() (Config, error) {
	return Load(GetEnv(PathEnv, ""))
}
