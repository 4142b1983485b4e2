package account

import "context"

type authContextKey struct{}

// WithAuthContext attaches the guard's result to ctx.
func WithAuthContext(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFromContext returns the AuthContext attached by the guard, or nil.
func AuthFromContext(ctx context.Context) *AuthContext {
	auth, _ := ctx.Value(authContextKey{}).(*AuthContext)
	return auth
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	if auth := AuthFromContext(ctx); auth != nil {
		return auth.User
	}
	return nil
}
