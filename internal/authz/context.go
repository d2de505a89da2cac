package authz

import "context"

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context. The host
// application resolves the user once per request and threads it through
// explicitly; the decision layer keeps no session state of its own.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user, nil when absent.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
