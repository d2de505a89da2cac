package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// IdentityLoader resolves a session user ID into the decision layer's
// user record.
type IdentityLoader interface {
	LoadAuthz(ctx context.Context, sessionUserID string) (*authz.User, error)
}

// UserLoader resolves the authenticated user once per request and threads
// it through the request context. Handlers and the authorization
// middleware read it from there; nothing downstream touches the session.
func UserLoader(loader IdentityLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := loader.LoadAuthz(r.Context(), sess.User())
			if err != nil {
				if logger != nil {
					logger.Error("load authenticated user", slog.Any("error", err))
				}
				// Fail closed: the request proceeds unauthenticated.
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(authz.ContextWithUser(r.Context(), user)))
		})
	}
}
