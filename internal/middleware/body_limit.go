package middleware

import (
	"net/http"
	"strings"
)

// BodyLimitOverride raises or lowers the body cap for one path
// subtree. Prefixes match with and without the /api mount.
type BodyLimitOverride struct {
	PathPrefix string
	MaxBytes   int64
}

// LimitBodyBytes caps every request body at maxBytes. Zero disables
// the cap.
func LimitBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBodyBytesWithOverrides is LimitBodyBytes with per-prefix
// exceptions, so CSV uploads get more room than JSON endpoints.
func LimitBodyBytesWithOverrides(defaultMax int64, overrides []BodyLimitOverride) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			maxBytes := defaultMax
			path := r.URL.Path
			apiPath := strings.TrimPrefix(path, "/api")
			for _, override := range overrides {
				if override.PathPrefix == "" || override.MaxBytes <= 0 {
					continue
				}
				if strings.HasPrefix(path, override.PathPrefix) || strings.HasPrefix(apiPath, override.PathPrefix) {
					maxBytes = override.MaxBytes
					break
				}
			}
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
