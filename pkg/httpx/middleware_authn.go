package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/roomstead/roomstead/pkg/slogx"
	"github.com/roomstead/roomstead/pkg/tokenx"
)

// AuthnMiddleware verifies the Bearer access token on a request and injects
// the caller's user id into the request context. Refresh tokens are rejected
// here; they are only good for the refresh endpoint.
func AuthnMiddleware(cfg tokenx.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := tokenx.Parse(cfg, raw)
			if err != nil {
				if errors.Is(err, tokenx.ErrExpiredToken) {
					writeBearerError(w, "token expired")
					return
				}
				log.Warn("access token verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			if claims.Type != tokenx.TypeAccess {
				writeBearerError(w, "not an access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithUserID(ctx, claims.UserID)))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
