package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin with credentials. The auth cookies carry the
// actual trust, so the origin list stays open for the various frontend
// deployments.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
