// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the actor identifier.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// WithActor returns a context with the actor identifier embedded.
// The actor is the component or operator on whose behalf a store
// operation runs (e.g. "cli", "ingest-worker"); it is attached to
// log events, never persisted.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor identifier from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
