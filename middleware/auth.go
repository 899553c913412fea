package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Pranjal6955/TaskBoard-Pro/auth"
	"github.com/Pranjal6955/TaskBoard-Pro/logging"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the authenticated caller placed in the request
// context by TokenAuthMiddleware.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*auth.Identity)
	return identity, ok
}

// ContextWithIdentity stores the resolved identity in the context.
func ContextWithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// TokenAuthMiddleware extracts the bearer token and walks the verifier
// chain. On success the resolved identity is stored in the request context.
func TokenAuthMiddleware(chain *auth.Chain, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			logging.Logger.Warnf("Event ID: AUTH_BEARER_PREFIX_MISSING, Description: Bearer prefix missing in Authorization header for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Invalid Authorization header", http.StatusUnauthorized)
			return
		}

		identity, err := chain.Verify(r.Context(), tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}
