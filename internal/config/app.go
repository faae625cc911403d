package config

import (
	"cmp"
	"os"
	"strings"
)

// Addr returns the server listen address, defaulting to :8080 when
// APP_PORT is not set.
func Addr() string {
	return ":" + cmp.Or(os.Getenv("APP_PORT"), "8080")
}

// BasePath returns the optional path prefix the API is mounted under,
// without a trailing slash.
func BasePath() string {
	return strings.TrimSuffix(os.Getenv("APP_BASE_PATH"), "/")
}

// LogFile returns the rotated log file location.
func LogFile() string {
	return cmp.Or(os.Getenv("APP_LOG_FILE"), "logs/server.log")
}
