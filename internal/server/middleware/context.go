package middleware

import "context"

type requestUserKey struct{}

type requestUser struct {
	userID string
}

func withRequestUser(ctx context.Context, holder *requestUser) context.Context {
	return context.WithValue(ctx, requestUserKey{}, holder)
}
