package config

import "os"

// Development reports whether the server runs in development mode,
// which turns on debug logging.
func Development() bool {
	dev := os.Getenv("DEVELOPMENT")
	return dev != "" && dev != "0"
}
