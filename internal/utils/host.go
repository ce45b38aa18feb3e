package utils

import (
	"os"
	"strings"
	"sync"
)

// Hostname is the machine name attached to log records. HOSTNAME is used when the
// kernel lookup fails, and "unknown" when both are empty.
var Hostname = sync.OnceValue(func() string {
	return resolveHostname(os.Hostname, os.Getenv("HOSTNAME"))
})

func resolveHostname(lookup func() (string, error), fallback string) string {
	if h, err := lookup(); err == nil && strings.TrimSpace(h) != "" {
		return strings.TrimSpace(h)
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return "unknown"
}
