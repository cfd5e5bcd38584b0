package shoptest

import "context"

func withUserID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

func userID(ctx context.Context) int64 {
	uid, _ := ctx.Value(ctxKey{}).(int64)
	return uid
}
