package middleware

import (
	"context"
	"net/http"
	"strings"

	"paycoffee/server/internal/domain"
)

// TokenVerifier validates a bearer token and resolves the owner it names.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Owner, error)
}

type ownerKey struct{}

// AuthJWT authenticates requests with a bearer token and attaches the
// resolved owner to the request context. Missing, malformed, invalid,
// and expired tokens are all rejected as 401.
func AuthJWT(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Access token required")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Access token required")
				return
			}
			owner, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), ownerKey{}, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

// OwnerFromContext returns the authenticated owner, or nil outside an
// authenticated route.
func OwnerFromContext(ctx context.Context) *domain.Owner {
	if v, ok := ctx.Value(ownerKey{}).(*domain.Owner); ok {
		return v
	}
	return nil
}
