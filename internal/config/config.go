// Package config loads the demo CLI's configuration from environment
// variables. Nothing in the core itself reads configuration; it is a
// pure in-memory function library.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds the demo CLI's settings.
type Config struct {
	// RootKey is the root secret, decoded from the base64 value of
	// ENQUO_ROOT_KEY, that the demo CLI builds its KeyProvider from.
	RootKey []byte

	LogLevel string
}

// Load loads configuration from environment variables. It first
// attempts to load a .env file by searching recursively from the
// current directory up to the root directory; if none is found, it
// continues with whatever is already in the environment.
func Load() *Config {
	loadDotEnv()

	return &Config{
		RootKey:  env.GetBase64ToBytes("ENQUO_ROOT_KEY", []byte("")),
		LogLevel: env.GetString("LOG_LEVEL", "info"),
	}
}

// loadDotEnv searches for a .env file recursively from the current
// directory up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
