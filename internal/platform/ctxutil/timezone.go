package ctxutil

import (
	"context"
	"time"
)

type locationKey struct{}

// WithLocation attaches the caller's time zone for calendar-day semantics.
func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

// Location returns the attached time zone, or fallback when none is set.
func Location(ctx context.Context, fallback *time.Location) *time.Location {
	if ctx != nil {
		if loc, ok := ctx.Value(locationKey{}).(*time.Location); ok && loc != nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}
