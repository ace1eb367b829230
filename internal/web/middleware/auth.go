package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/brandadmin/internal/config"
	"github.com/JonMunkholm/brandadmin/internal/logging"
)

// APIKeyHeader carries the back office key when keys are required.
const APIKeyHeader = "X-API-Key"

type authFailure struct {
	status int
	Error  string `json:"error"`
	Code   string `json:"code"`
}

var (
	errMissingKey = authFailure{http.StatusUnauthorized, "missing API key", "AUTH_MISSING_KEY"}
	errInvalidKey = authFailure{http.StatusForbidden, "invalid API key", "AUTH_INVALID_KEY"}
)

// APIKeyAuth rejects requests without a configured X-API-Key.
// With RequireAPIKey off every request passes; with it on and no keys
// configured every request is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.RequireAPIKey {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			switch {
			case key == "":
				reject(w, r, errMissingKey)
			case !matchesAny(key, cfg.APIKeys):
				reject(w, r, errInvalidKey)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, f authFailure) {
	logging.FromContext(r.Context()).Warn("auth: "+f.Error,
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(f.status)
	_ = json.NewEncoder(w).Encode(f)
}

// matchesAny compares key against every configured key in constant time.
func matchesAny(key string, keys []string) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return match == 1
}
