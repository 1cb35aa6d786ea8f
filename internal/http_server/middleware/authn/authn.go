// Package authn resolves the bearer credential into an explicit identity
// value carried on the request context. Handlers pull it out and pass it
// explicitly into the services; there is no ambient current-user state.
package authn

import (
	"context"
	"net/http"
	"strings"

	resp "stringart_backend/internal/lib/api/response"
	"stringart_backend/internal/models"

	"github.com/go-chi/render"
)

type ctxKey struct{}

type Resolver interface {
	Resolve(ctx context.Context, bearer string) (models.User, error)
}

// Required rejects requests without a valid bearer session. Absent and
// expired sessions produce the same response.
func Required(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := BearerToken(r)
			if bearer == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("authorization token required"))

				return
			}

			user, err := resolver.Resolve(r.Context(), bearer)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return parts[len(parts)-1]
}

// UserFromContext returns the identity resolved by Required.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*models.User)
	return user, ok
}
