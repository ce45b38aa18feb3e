package middleware_http

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows cross-origin GETs from the given origins ("*" allows any).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Traceparent", "Tracestate"},
		ExposedHeaders: []string{"X-Trace-ID"},
	})
	return c.Handler
}
