package ctxkeys

import (
	"context"
	"time"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	LocationKey contextKey = "location"
	RequestKey  contextKey = "request_id"
)

func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// Location is the caller's calendar for "today", nil when the request did not
// name one.
func Location(ctx context.Context) *time.Location {
	loc, _ := ctx.Value(LocationKey).(*time.Location)
	return loc
}

func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, LocationKey, loc)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestKey, id)
}
