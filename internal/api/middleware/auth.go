package middleware

import (
	"context"
	"net/http"

	"github.com/quillhq/quill-backend/internal/auth"
	"github.com/quillhq/quill-backend/internal/entity"
	"github.com/quillhq/quill-backend/internal/pkg/response"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticate resolves the caller through the Authenticator and stores the
// identity in the request context. Requests without a resolvable identity
// are rejected with 401 before any handler runs.
func Authenticate(authn auth.Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authn.CurrentUser(r)
			if err != nil || user == nil || user.ID == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by Authenticate.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(userContextKey).(*entity.User)
	return user, ok
}
