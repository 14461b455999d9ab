package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Middleware rejects journal requests that do not carry a valid bearer token.
// Probe endpoints listed in Public are served without credentials.
type Middleware struct {
	Config Config
	Public map[string]bool
}

// NewMiddleware builds a Middleware that leaves /healthz and /metrics open.
func NewMiddleware(cfg Config) Middleware {
	return Middleware{Config: cfg, Public: map[string]bool{"/healthz": true, "/metrics": true}}
}

// Wrap stores the verified claims on the request context before calling next.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Public[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := Parse(bearerToken(r), m.Config)
		if err != nil {
			detail := "invalid bearer token"
			if errors.Is(err, ErrMissingToken) {
				detail = ErrMissingToken.Error()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="prosoche"`)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"type": "unauthorized", "detail": detail})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// bearerToken returns the token of an "Authorization: Bearer" header, or ""
// when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return token
}
