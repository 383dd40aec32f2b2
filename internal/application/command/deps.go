// Package command contains write operations (CQRS - Commands).
// Every handler validates its command, checks ownership through the
// repository contract, applies the change, and invalidates cached views
// for the acting user. Handlers never partially mutate: repositories
// apply multi-record changes transactionally.
package command

import "context"

// ViewInvalidator drops cached read models for a user after a write.
// Implementations are best-effort: a failed invalidation only shortens
// cache freshness, it never fails the command.
type ViewInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// NopInvalidator is used when caching is disabled.
type NopInvalidator struct{}

// InvalidateUser does nothing.
func (NopInvalidator) InvalidateUser(context.Context, string) {}
