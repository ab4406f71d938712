package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey string

const profileTokenKey contextKey = "profileToken"

// ProfileTokenMiddleware extracts an optional Bearer profile token and
// stores it in the request context. A missing header is fine; a header
// that is not a Bearer token is rejected. Signature checks happen in the
// settings service.
func ProfileTokenMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid authorization header, expected Bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), profileTokenKey, strings.TrimSpace(parts[1]))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileTokenFromContext returns the raw profile token, or "".
func ProfileTokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(profileTokenKey).(string)
	return v
}
