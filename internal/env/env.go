// Package env reads settings from the process environment, optionally
// seeded from .env files. Values are used as flag defaults, so an explicit
// flag always wins over the environment.
package env

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the given .env files (".env" when none are named) into the
// environment. Variables already set by the runtime are not overridden and
// missing files are ignored.
func Load(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// String returns the value of key, or def when it is unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns key parsed as an integer, or def when unset or malformed.
func Int(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// Float returns key parsed as a float, or def when unset or malformed.
func Float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return v
}

// Bool returns key parsed with strconv.ParseBool, or def when unset or malformed.
func Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// Duration returns key parsed with time.ParseDuration, or def when unset or malformed.
func Duration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
