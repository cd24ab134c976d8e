package httpx

import "context"

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated user id injected by
// AuthnMiddleware, or "" when the request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserID).(string); ok {
		return v
	}
	return ""
}

func contextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}
