package auth

import "context"

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID returns a context carrying the acting user's id. The HTTP
// middleware sets it once per request; services receive it as an explicit
// argument from there on.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the acting user's id from the context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
